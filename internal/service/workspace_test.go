package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"progpath.app/api-server/common/apperr"
	"progpath.app/api-server/core/config"
	"progpath.app/api-server/internal/model"
	"progpath.app/api-server/internal/service"
	"progpath.app/api-server/internal/store"
)

var _ = Describe("WorkspaceService", func() {
	var (
		ctx        context.Context
		stores     *mockStores
		objects    *recordingObjectStore
		notifier   *recordingNotifier
		workspaces service.WorkspaceService

		teamlead service.Identity
		regular  service.Identity
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = newMockStores()
		objects = &recordingObjectStore{}
		notifier = &recordingNotifier{}

		oracle := service.NewMembershipOracle(time.Now)
		quota := service.NewQuotaService(config.QuotaConfig{
			FreeWorkspaceLimit:    2,
			FreeCollaboratorLimit: 2,
		}, oracle)
		workspaces = service.NewWorkspaceService(
			&mockTxRunner{stores: stores},
			stores,
			service.NewAuthorizeService(),
			quota,
			objects,
			notifier,
		)

		teamlead = service.Identity{UserID: 7, Role: model.RoleTeamlead}
		regular = service.Identity{UserID: 8, Role: model.RoleRegular}
	})

	Describe("Create", func() {
		It("creates the workspace with owner membership and pending invitations", func() {
			var (
				created     *model.Workspace
				memberAdded int64
				invitations []model.Invitation
			)
			stores.workspaces.createFn = func(_ context.Context, ws *model.Workspace) error {
				created = ws
				return nil
			}
			stores.workspaces.addCollaboratorFn = func(_ context.Context, _, userID int64) error {
				memberAdded = userID
				return nil
			}
			stores.invitations.createManyFn = func(_ context.Context, invs []model.Invitation) error {
				invitations = invs
				return nil
			}

			ws, invs, err := workspaces.Create(ctx, service.CreateWorkspaceParams{
				Title:    "Platform",
				Type:     model.WorkspaceTypeEngineering,
				Emails:   []string{"a@example.com", "b@example.com"},
				Identity: teamlead,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(ws).To(Equal(created))
			Expect(memberAdded).To(Equal(int64(7)))
			Expect(invs).To(HaveLen(2))
			for _, inv := range invitations {
				Expect(inv.Status).To(Equal(model.InvitationPending))
				Expect(inv.WorkspaceID).To(Equal(ws.ID))
			}
			Expect(notifier.sent).To(HaveLen(1))
			Expect(notifier.sent[0].recipients).To(HaveLen(2))
		})

		It("rejects a regular user", func() {
			_, _, err := workspaces.Create(ctx, service.CreateWorkspaceParams{
				Title: "Platform", Type: model.WorkspaceTypeEngineering, Identity: regular,
			})
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindUnauthorized))
		})

		It("rejects a free teamlead at the workspace limit", func() {
			stores.workspaces.countByOwnerFn = func(context.Context, int64) (int64, error) {
				return 2, nil
			}
			_, _, err := workspaces.Create(ctx, service.CreateWorkspaceParams{
				Title: "Third", Type: model.WorkspaceTypeEngineering, Identity: teamlead,
			})
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindQuotaExceeded))
		})

		It("fails the whole request when a third collaborator exceeds the quota", func() {
			stores.workspaces.createFn = func(context.Context, *model.Workspace) error {
				Fail("workspace must not be written when the collaborator quota fails")
				return nil
			}

			_, _, err := workspaces.Create(ctx, service.CreateWorkspaceParams{
				Title:    "Platform",
				Type:     model.WorkspaceTypeEngineering,
				Emails:   []string{"a@example.com", "b@example.com", "c@example.com"},
				Identity: teamlead,
			})
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindQuotaExceeded))
		})

		It("rejects a duplicate title for the same owner", func() {
			stores.workspaces.titleTakenFn = func(context.Context, int64, string, int64) (bool, error) {
				return true, nil
			}
			_, _, err := workspaces.Create(ctx, service.CreateWorkspaceParams{
				Title: "Platform", Type: model.WorkspaceTypeEngineering, Identity: teamlead,
			})
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindConflict))
		})

		It("rejects an unknown workspace type", func() {
			_, _, err := workspaces.Create(ctx, service.CreateWorkspaceParams{
				Title: "Platform", Type: "gaming", Identity: teamlead,
			})
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindValidation))
		})

		It("rejects duplicate invitation emails", func() {
			_, _, err := workspaces.Create(ctx, service.CreateWorkspaceParams{
				Title:    "Platform",
				Type:     model.WorkspaceTypeEngineering,
				Emails:   []string{"a@example.com", "A@example.com"},
				Identity: teamlead,
			})
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindConflict))
		})
	})

	Describe("Edit", func() {
		BeforeEach(func() {
			stores.workspaces.getByIDFn = func(context.Context, int64) (*model.Workspace, error) {
				return &model.Workspace{ID: 40, OwnerID: 7, Title: "Platform"}, nil
			}
		})

		It("updates title, type and description for the owner", func() {
			var updated *model.Workspace
			stores.workspaces.updateFn = func(_ context.Context, ws *model.Workspace) error {
				updated = ws
				return nil
			}

			ws, err := workspaces.Edit(ctx, service.EditWorkspaceParams{
				WorkspaceID: 40, Title: "Platform v2", Type: model.WorkspaceTypeBusiness, Identity: teamlead,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(ws).To(Equal(updated))
			Expect(ws.Title).To(Equal("Platform v2"))
		})

		It("excludes the workspace itself from the uniqueness check", func() {
			stores.workspaces.titleTakenFn = func(_ context.Context, _ int64, _ string, excludeID int64) (bool, error) {
				Expect(excludeID).To(Equal(int64(40)))
				return false, nil
			}
			_, err := workspaces.Edit(ctx, service.EditWorkspaceParams{
				WorkspaceID: 40, Title: "Platform", Type: model.WorkspaceTypeEngineering, Identity: teamlead,
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a non-owner", func() {
			_, err := workspaces.Edit(ctx, service.EditWorkspaceParams{
				WorkspaceID: 40, Title: "Platform", Type: model.WorkspaceTypeEngineering, Identity: regular,
			})
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindUnauthorized))
		})
	})

	Describe("Delete", func() {
		It("cascades tasks, comments, projects and attachment objects", func() {
			stores.workspaces.getByIDFn = func(context.Context, int64) (*model.Workspace, error) {
				return &model.Workspace{ID: 40, OwnerID: 7}, nil
			}
			stores.tasks.listFn = func(context.Context, store.TaskQuery) ([]model.Task, error) {
				return []model.Task{
					{ID: 60, Attachments: []model.Attachment{{Key: "a1"}}},
					{ID: 61, Attachments: []model.Attachment{{Key: "a2"}, {Key: "a3"}}},
				}, nil
			}

			var order []string
			stores.tasks.deleteByWorkspaceFn = func(context.Context, int64) error {
				order = append(order, "tasks")
				return nil
			}
			stores.projects.deleteByWorkspaceFn = func(context.Context, int64) error {
				order = append(order, "projects")
				return nil
			}
			stores.workspaces.deleteFn = func(context.Context, int64) error {
				order = append(order, "workspace")
				return nil
			}

			Expect(workspaces.Delete(ctx, 40, teamlead)).To(Succeed())
			Expect(order).To(Equal([]string{"tasks", "projects", "workspace"}))
			Expect(objects.deleted).To(ConsistOf("a1", "a2", "a3"))
		})
	})

	Describe("RemoveCollaborator", func() {
		BeforeEach(func() {
			stores.workspaces.getByIDFn = func(context.Context, int64) (*model.Workspace, error) {
				return &model.Workspace{ID: 40, OwnerID: 7}, nil
			}
		})

		It("removes a collaborator for the owner", func() {
			var removed int64
			stores.workspaces.removeCollaboratorFn = func(_ context.Context, _, userID int64) error {
				removed = userID
				return nil
			}
			Expect(workspaces.RemoveCollaborator(ctx, 40, 8, teamlead)).To(Succeed())
			Expect(removed).To(Equal(int64(8)))
		})

		It("refuses to remove the owner", func() {
			err := workspaces.RemoveCollaborator(ctx, 40, 7, teamlead)
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindValidation))
		})
	})

	Describe("Overview", func() {
		It("returns memberships and invitations pending on the user's email", func() {
			stores.users.getByIDFn = func(context.Context, int64) (*model.User, error) {
				return &model.User{ID: 8, Email: "member@example.com"}, nil
			}
			stores.workspaces.listByCollaboratorFn = func(context.Context, int64) ([]model.Workspace, error) {
				return []model.Workspace{{ID: 40}, {ID: 41}}, nil
			}
			stores.invitations.listPendingByEmailFn = func(_ context.Context, email string) ([]store.InvitationWithWorkspace, error) {
				Expect(email).To(Equal("member@example.com"))
				return []store.InvitationWithWorkspace{{WorkspaceTitle: "Other"}}, nil
			}

			overview, err := workspaces.Overview(ctx, 8)
			Expect(err).NotTo(HaveOccurred())
			Expect(overview.Workspaces).To(HaveLen(2))
			Expect(overview.Invitations).To(HaveLen(1))
		})
	})
})
