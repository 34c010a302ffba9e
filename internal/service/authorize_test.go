package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"progpath.app/api-server/common/apperr"
	"progpath.app/api-server/internal/model"
	"progpath.app/api-server/internal/service"
	"progpath.app/api-server/internal/store"
)

var _ = Describe("AuthorizeService", func() {
	var (
		ctx        context.Context
		workspaces *mockWorkspaceStore
		authorize  service.AuthorizeService
	)

	BeforeEach(func() {
		ctx = context.Background()
		workspaces = &mockWorkspaceStore{}
		authorize = service.NewAuthorizeService()
	})

	Describe("Authorize", func() {
		It("returns Forbidden when the workspace does not exist", func() {
			_, err := authorize.Authorize(ctx, workspaces, 1, 7)
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindForbidden))
		})

		It("returns Unauthorized for a non-owner", func() {
			workspaces.getByIDFn = func(context.Context, int64) (*model.Workspace, error) {
				return &model.Workspace{ID: 1, OwnerID: 99}, nil
			}
			_, err := authorize.Authorize(ctx, workspaces, 1, 7)
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindUnauthorized))
		})

		It("checks ownership before the frozen flag", func() {
			workspaces.getByIDFn = func(context.Context, int64) (*model.Workspace, error) {
				return &model.Workspace{ID: 1, OwnerID: 99, Freezed: true}, nil
			}
			_, err := authorize.Authorize(ctx, workspaces, 1, 7)
			Expect(apperr.As(err).Notify).To(BeFalse())
		})

		It("rejects the owner of a frozen workspace with a notify hint", func() {
			workspaces.getByIDFn = func(context.Context, int64) (*model.Workspace, error) {
				return &model.Workspace{ID: 1, OwnerID: 7, Freezed: true}, nil
			}
			_, err := authorize.Authorize(ctx, workspaces, 1, 7)
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindUnauthorized))
			Expect(apperr.As(err).Notify).To(BeTrue())
		})

		It("admits the owner of a live workspace", func() {
			workspaces.getByIDFn = func(context.Context, int64) (*model.Workspace, error) {
				return &model.Workspace{ID: 1, OwnerID: 7}, nil
			}
			ws, err := authorize.Authorize(ctx, workspaces, 1, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(ws.ID).To(Equal(int64(1)))
		})

		It("wraps store failures as internal", func() {
			workspaces.getByIDFn = func(context.Context, int64) (*model.Workspace, error) {
				return nil, context.DeadlineExceeded
			}
			_, err := authorize.Authorize(ctx, workspaces, 1, 7)
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindInternal))
		})
	})

	Describe("EnsureMutable", func() {
		It("admits any caller on a live workspace", func() {
			workspaces.getByIDFn = func(context.Context, int64) (*model.Workspace, error) {
				return &model.Workspace{ID: 1, OwnerID: 99}, nil
			}
			_, err := authorize.EnsureMutable(ctx, workspaces, 1)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects mutations on a frozen workspace", func() {
			workspaces.getByIDFn = func(context.Context, int64) (*model.Workspace, error) {
				return &model.Workspace{ID: 1, OwnerID: 99, Freezed: true}, nil
			}
			_, err := authorize.EnsureMutable(ctx, workspaces, 1)
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindUnauthorized))
		})

		It("returns Forbidden for a missing workspace", func() {
			_, err := authorize.EnsureMutable(ctx, workspaces, 1)
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindForbidden))
		})
	})

	Describe("RequireTeamlead", func() {
		It("admits a teamlead", func() {
			Expect(authorize.RequireTeamlead(service.Identity{Role: model.RoleTeamlead})).To(Succeed())
		})

		It("rejects a regular user", func() {
			err := authorize.RequireTeamlead(service.Identity{Role: model.RoleRegular})
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindUnauthorized))
		})
	})

	It("ErrNotFound sentinel stays distinct from the business taxonomy", func() {
		Expect(apperr.KindOf(store.ErrNotFound)).To(Equal(apperr.KindInternal))
	})
})
