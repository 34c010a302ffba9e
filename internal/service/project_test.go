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

var _ = Describe("ProjectService", func() {
	var (
		ctx      context.Context
		stores   *mockStores
		objects  *recordingObjectStore
		projects service.ProjectService

		owner service.Identity
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = newMockStores()
		objects = &recordingObjectStore{}
		projects = service.NewProjectService(
			&mockTxRunner{stores: stores},
			stores,
			service.NewAuthorizeService(),
			objects,
		)

		owner = service.Identity{UserID: 7, Role: model.RoleTeamlead}

		stores.workspaces.getByIDFn = func(context.Context, int64) (*model.Workspace, error) {
			return &model.Workspace{ID: 40, OwnerID: 7}, nil
		}
		stores.projects.getByIDFn = func(context.Context, int64) (*model.Project, error) {
			return &model.Project{ID: 50, WorkspaceID: 40, Title: "Backend"}, nil
		}
	})

	Describe("Create", func() {
		It("creates a project for the workspace owner", func() {
			var created *model.Project
			stores.projects.createFn = func(_ context.Context, p *model.Project) error {
				created = p
				return nil
			}

			p, err := projects.Create(ctx, service.CreateProjectParams{
				WorkspaceID: 40, Title: "Backend", Theme: "indigo", Identity: owner,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(created))
			Expect(p.WorkspaceID).To(Equal(int64(40)))
		})

		It("rejects a duplicate title within the workspace", func() {
			stores.projects.titleTakenFn = func(context.Context, int64, string, int64) (bool, error) {
				return true, nil
			}
			_, err := projects.Create(ctx, service.CreateProjectParams{
				WorkspaceID: 40, Title: "Backend", Theme: "indigo", Identity: owner,
			})
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindConflict))
		})

		It("rejects a non-owner", func() {
			_, err := projects.Create(ctx, service.CreateProjectParams{
				WorkspaceID: 40, Title: "Backend", Theme: "indigo",
				Identity: service.Identity{UserID: 8},
			})
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindUnauthorized))
		})
	})

	Describe("Star", func() {
		It("lets any collaborator star a project", func() {
			var starred bool
			stores.projects.setStarredFn = func(_ context.Context, _ int64, s bool) error {
				starred = s
				return nil
			}
			Expect(projects.Star(ctx, 40, 50, true)).To(Succeed())
			Expect(starred).To(BeTrue())
		})

		It("blocks starring in a frozen workspace", func() {
			stores.workspaces.getByIDFn = func(context.Context, int64) (*model.Workspace, error) {
				return &model.Workspace{ID: 40, OwnerID: 7, Freezed: true}, nil
			}
			err := projects.Star(ctx, 40, 50, true)
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindUnauthorized))
		})
	})

	Describe("Delete", func() {
		It("cascades tasks, comments and attachment objects", func() {
			stores.tasks.listFn = func(_ context.Context, q store.TaskQuery) ([]model.Task, error) {
				Expect(q.ProjectID).To(Equal(int64(50)))
				return []model.Task{
					{ID: 60, Attachments: []model.Attachment{{Key: "a1"}}},
				}, nil
			}

			var tasksDeleted, projectDeleted bool
			stores.tasks.deleteByProjectFn = func(context.Context, int64, int64) error {
				tasksDeleted = true
				return nil
			}
			stores.projects.deleteFn = func(context.Context, int64) error {
				projectDeleted = true
				return nil
			}

			Expect(projects.Delete(ctx, 40, 50, owner)).To(Succeed())
			Expect(tasksDeleted).To(BeTrue())
			Expect(projectDeleted).To(BeTrue())
			Expect(objects.deleted).To(ConsistOf("a1"))
		})
	})

	Describe("Get", func() {
		It("hides projects belonging to another workspace", func() {
			stores.projects.getByIDFn = func(context.Context, int64) (*model.Project, error) {
				return &model.Project{ID: 50, WorkspaceID: 41}, nil
			}
			_, err := projects.Get(ctx, 40, 50, store.TaskQuery{})
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindNotFound))
		})

		It("scopes the task listing to the workspace and project", func() {
			stores.tasks.listFn = func(_ context.Context, q store.TaskQuery) ([]model.Task, error) {
				Expect(q.WorkspaceID).To(Equal(int64(40)))
				Expect(q.ProjectID).To(Equal(int64(50)))
				Expect(q.Search).To(Equal("api"))
				return []model.Task{{ID: 60}}, nil
			}

			detail, err := projects.Get(ctx, 40, 50, store.TaskQuery{Search: "api"})
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.Tasks).To(HaveLen(1))
		})
	})
})
