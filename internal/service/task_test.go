package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"progpath.app/api-server/common/apperr"
	"progpath.app/api-server/internal/model"
	"progpath.app/api-server/internal/service"
)

var _ = Describe("TaskService", func() {
	var (
		ctx     context.Context
		stores  *mockStores
		objects *recordingObjectStore
		tasks   service.TaskService
		now     time.Time

		owner service.Identity
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = newMockStores()
		objects = &recordingObjectStore{}
		now = time.Date(2025, time.June, 10, 15, 30, 0, 0, time.UTC)
		tasks = service.NewTaskService(
			&mockTxRunner{stores: stores},
			stores,
			service.NewAuthorizeService(),
			objects,
			func() time.Time { return now },
		)

		owner = service.Identity{UserID: 7, Role: model.RoleTeamlead}

		stores.workspaces.getByIDFn = func(context.Context, int64) (*model.Workspace, error) {
			return &model.Workspace{ID: 40, OwnerID: 7}, nil
		}
		stores.projects.getByIDFn = func(context.Context, int64) (*model.Project, error) {
			return &model.Project{ID: 50, WorkspaceID: 40}, nil
		}
	})

	persistedTask := func(status model.TaskStatus, completion *time.Time) {
		stores.tasks.getByIDFn = func(context.Context, int64) (*model.Task, error) {
			return &model.Task{
				ID:             60,
				WorkspaceID:    40,
				ProjectID:      50,
				Title:          "Ship it",
				Status:         status,
				CompletionDate: completion,
			}, nil
		}
	}

	Describe("Create", func() {
		It("defaults the status to Not Started", func() {
			var created *model.Task
			stores.tasks.createFn = func(_ context.Context, t *model.Task) error {
				created = t
				return nil
			}

			_, err := tasks.Create(ctx, service.CreateTaskParams{
				WorkspaceID: 40, ProjectID: 50, Title: "Ship it",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Status).To(Equal(model.TaskNotStarted))
			Expect(created.CompletionDate).To(BeNil())
		})

		It("stamps the completion date for a task created as Done", func() {
			var created *model.Task
			stores.tasks.createFn = func(_ context.Context, t *model.Task) error {
				created = t
				return nil
			}

			_, err := tasks.Create(ctx, service.CreateTaskParams{
				WorkspaceID: 40, ProjectID: 50, Title: "Already done", Status: model.TaskDone,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.CompletionDate).To(HaveValue(Equal(now)))
		})

		It("rejects a duplicate title within the project", func() {
			stores.tasks.titleTakenFn = func(context.Context, int64, int64, string, int64) (bool, error) {
				return true, nil
			}
			_, err := tasks.Create(ctx, service.CreateTaskParams{
				WorkspaceID: 40, ProjectID: 50, Title: "Ship it",
			})
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindConflict))
		})

		It("rejects an unknown status", func() {
			_, err := tasks.Create(ctx, service.CreateTaskParams{
				WorkspaceID: 40, ProjectID: 50, Title: "Ship it", Status: "Paused",
			})
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindValidation))
		})

		It("rejects creation in a frozen workspace", func() {
			stores.workspaces.getByIDFn = func(context.Context, int64) (*model.Workspace, error) {
				return &model.Workspace{ID: 40, OwnerID: 7, Freezed: true}, nil
			}
			_, err := tasks.Create(ctx, service.CreateTaskParams{
				WorkspaceID: 40, ProjectID: 50, Title: "Ship it",
			})
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindUnauthorized))
		})
	})

	Describe("UpdateStatus", func() {
		It("stamps the completion date on the transition into Done", func() {
			persistedTask(model.TaskInProgress, nil)

			var stamped *time.Time
			stores.tasks.setStatusFn = func(_ context.Context, _ int64, status model.TaskStatus, completion *time.Time) error {
				Expect(status).To(Equal(model.TaskDone))
				stamped = completion
				return nil
			}

			task, err := tasks.UpdateStatus(ctx, 40, 60, model.TaskDone)
			Expect(err).NotTo(HaveOccurred())
			Expect(stamped).To(HaveValue(Equal(now)))
			Expect(task.CompletionDate).To(HaveValue(Equal(now)))
		})

		It("does not re-stamp when the task is already Done", func() {
			earlier := now.Add(-48 * time.Hour)
			persistedTask(model.TaskDone, &earlier)

			var stamped *time.Time
			stores.tasks.setStatusFn = func(_ context.Context, _ int64, _ model.TaskStatus, completion *time.Time) error {
				stamped = completion
				return nil
			}

			_, err := tasks.UpdateStatus(ctx, 40, 60, model.TaskDone)
			Expect(err).NotTo(HaveOccurred())
			Expect(stamped).To(HaveValue(Equal(earlier)))
		})

		It("keeps the completion date when leaving Done", func() {
			earlier := now.Add(-48 * time.Hour)
			persistedTask(model.TaskDone, &earlier)

			task, err := tasks.UpdateStatus(ctx, 40, 60, model.TaskStuck)
			Expect(err).NotTo(HaveOccurred())
			Expect(task.Status).To(Equal(model.TaskStuck))
			Expect(task.CompletionDate).To(HaveValue(Equal(earlier)))
		})

		It("re-stamps when a reopened task is finished again", func() {
			earlier := now.Add(-48 * time.Hour)
			persistedTask(model.TaskInProgress, &earlier)

			task, err := tasks.UpdateStatus(ctx, 40, 60, model.TaskDone)
			Expect(err).NotTo(HaveOccurred())
			Expect(task.CompletionDate).To(HaveValue(Equal(now)))
		})

		It("rejects an unknown status", func() {
			_, err := tasks.UpdateStatus(ctx, 40, 60, "Archived")
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindValidation))
		})
	})

	Describe("Edit", func() {
		It("applies the same completion stamping as UpdateStatus", func() {
			persistedTask(model.TaskStuck, nil)

			var updated *model.Task
			stores.tasks.updateFn = func(_ context.Context, t *model.Task) error {
				updated = t
				return nil
			}

			_, err := tasks.Edit(ctx, service.EditTaskParams{
				WorkspaceID: 40, TaskID: 60, Title: "Ship it", Status: model.TaskDone,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.CompletionDate).To(HaveValue(Equal(now)))
		})

		It("checks the previous status against the persisted record", func() {
			// The client claims nothing; only the stored status matters.
			earlier := now.Add(-24 * time.Hour)
			persistedTask(model.TaskDone, &earlier)

			var updated *model.Task
			stores.tasks.updateFn = func(_ context.Context, t *model.Task) error {
				updated = t
				return nil
			}

			_, err := tasks.Edit(ctx, service.EditTaskParams{
				WorkspaceID: 40, TaskID: 60, Title: "Ship it", Status: model.TaskDone,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.CompletionDate).To(HaveValue(Equal(earlier)))
		})

		It("re-validates title uniqueness excluding itself", func() {
			persistedTask(model.TaskInProgress, nil)
			stores.tasks.titleTakenFn = func(_ context.Context, _, _ int64, _ string, excludeID int64) (bool, error) {
				Expect(excludeID).To(Equal(int64(60)))
				return true, nil
			}

			_, err := tasks.Edit(ctx, service.EditTaskParams{
				WorkspaceID: 40, TaskID: 60, Title: "Taken", Status: model.TaskInProgress,
			})
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindConflict))
		})
	})

	Describe("Delete", func() {
		It("cascades comments and stored attachments", func() {
			stores.tasks.getByIDFn = func(context.Context, int64) (*model.Task, error) {
				return &model.Task{
					ID: 60, WorkspaceID: 40, ProjectID: 50,
					Attachments: []model.Attachment{{Key: "a1"}, {Key: "a2"}},
				}, nil
			}

			var commentsDeleted, taskDeleted bool
			stores.comments.deleteByReferenceFn = func(context.Context, int64) error {
				commentsDeleted = true
				return nil
			}
			stores.tasks.deleteFn = func(context.Context, int64) error {
				taskDeleted = true
				return nil
			}

			Expect(tasks.Delete(ctx, 40, 60, owner)).To(Succeed())
			Expect(commentsDeleted).To(BeTrue())
			Expect(taskDeleted).To(BeTrue())
			Expect(objects.deleted).To(ConsistOf("a1", "a2"))
		})

		It("requires ownership", func() {
			persistedTask(model.TaskInProgress, nil)
			err := tasks.Delete(ctx, 40, 60, service.Identity{UserID: 8})
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindUnauthorized))
		})
	})

	Describe("RemoveAttachment", func() {
		It("removes the record and the stored object", func() {
			stores.tasks.getByIDFn = func(context.Context, int64) (*model.Task, error) {
				return &model.Task{
					ID: 60, WorkspaceID: 40,
					Attachments: []model.Attachment{{Key: "a1"}},
				}, nil
			}
			Expect(tasks.RemoveAttachment(ctx, 40, 60, "a1")).To(Succeed())
			Expect(objects.deleted).To(ConsistOf("a1"))
		})

		It("reports an unknown key as not found", func() {
			persistedTask(model.TaskInProgress, nil)
			err := tasks.RemoveAttachment(ctx, 40, 60, "missing")
			Expect(apperr.KindOf(err)).To(Equal(apperr.KindNotFound))
		})
	})

	It("hides tasks from other workspaces", func() {
		stores.tasks.getByIDFn = func(context.Context, int64) (*model.Task, error) {
			return &model.Task{ID: 60, WorkspaceID: 41}, nil
		}
		_, err := tasks.UpdateStatus(ctx, 40, 60, model.TaskDone)
		Expect(apperr.KindOf(err)).To(Equal(apperr.KindNotFound))
	})
})
