package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"progpath.app/api-server/common/apperr"
	"progpath.app/api-server/internal/http/handler"
	"progpath.app/api-server/internal/http/middleware"
	"progpath.app/api-server/internal/model"
	"progpath.app/api-server/internal/service"
)

type mockWorkspaceService struct {
	createFn             func(ctx context.Context, params service.CreateWorkspaceParams) (*model.Workspace, []model.Invitation, error)
	overviewFn           func(ctx context.Context, userID int64) (*service.WorkspaceOverview, error)
	getFn                func(ctx context.Context, workspaceID int64) (*service.WorkspaceDetail, error)
	editFn               func(ctx context.Context, params service.EditWorkspaceParams) (*model.Workspace, error)
	deleteFn             func(ctx context.Context, workspaceID int64, identity service.Identity) error
	removeCollaboratorFn func(ctx context.Context, workspaceID, collaboratorID int64, identity service.Identity) error
}

func (m *mockWorkspaceService) Create(ctx context.Context, params service.CreateWorkspaceParams) (*model.Workspace, []model.Invitation, error) {
	if m.createFn != nil {
		return m.createFn(ctx, params)
	}
	return nil, nil, nil
}

func (m *mockWorkspaceService) Overview(ctx context.Context, userID int64) (*service.WorkspaceOverview, error) {
	if m.overviewFn != nil {
		return m.overviewFn(ctx, userID)
	}
	return &service.WorkspaceOverview{}, nil
}

func (m *mockWorkspaceService) Get(ctx context.Context, workspaceID int64) (*service.WorkspaceDetail, error) {
	if m.getFn != nil {
		return m.getFn(ctx, workspaceID)
	}
	return &service.WorkspaceDetail{Workspace: &model.Workspace{}}, nil
}

func (m *mockWorkspaceService) Edit(ctx context.Context, params service.EditWorkspaceParams) (*model.Workspace, error) {
	if m.editFn != nil {
		return m.editFn(ctx, params)
	}
	return nil, nil
}

func (m *mockWorkspaceService) Delete(ctx context.Context, workspaceID int64, identity service.Identity) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, workspaceID, identity)
	}
	return nil
}

func (m *mockWorkspaceService) RemoveCollaborator(ctx context.Context, workspaceID, collaboratorID int64, identity service.Identity) error {
	if m.removeCollaboratorFn != nil {
		return m.removeCollaboratorFn(ctx, workspaceID, collaboratorID, identity)
	}
	return nil
}

func identityMiddleware(identity service.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetIdentity(c, identity)
		c.Next()
	}
}

var _ = Describe("WorkspaceHandler", func() {
	var (
		router *gin.Engine
		svc    *mockWorkspaceService
	)

	teamlead := service.Identity{UserID: 7, Role: model.RoleTeamlead}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		svc = &mockWorkspaceService{}
		h := handler.NewWorkspaceHandler(svc)

		router = gin.New()
		router.Use(identityMiddleware(teamlead))
		router.POST("/workspaces", h.Create)
		router.GET("/workspaces/:workspaceId", h.Get)
		router.DELETE("/workspaces/:workspaceId", h.Delete)
	})

	It("creates a workspace and returns 201 with the invitations", func() {
		svc.createFn = func(_ context.Context, params service.CreateWorkspaceParams) (*model.Workspace, []model.Invitation, error) {
			Expect(params.Identity).To(Equal(teamlead))
			Expect(params.Emails).To(ConsistOf("a@example.com"))
			return &model.Workspace{ID: 40, OwnerID: 7, Title: params.Title, Type: params.Type},
				[]model.Invitation{{ID: 300, WorkspaceID: 40, Email: "a@example.com", Status: model.InvitationPending}},
				nil
		}

		body, _ := json.Marshal(map[string]any{
			"title":  "Platform",
			"type":   "engineering",
			"emails": []string{"a@example.com"},
		})
		req := httptest.NewRequest(http.MethodPost, "/workspaces", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		var resp map[string]json.RawMessage
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())

		var ws map[string]any
		Expect(json.Unmarshal(resp["workspace"], &ws)).To(Succeed())
		Expect(ws["id"]).To(Equal("40"))
		Expect(ws["title"]).To(Equal("Platform"))

		var invs []map[string]any
		Expect(json.Unmarshal(resp["invitations"], &invs)).To(Succeed())
		Expect(invs).To(HaveLen(1))
		Expect(invs[0]["status"]).To(Equal("pending"))
	})

	It("maps quota errors to 403 with the upgrade hints", func() {
		svc.createFn = func(context.Context, service.CreateWorkspaceParams) (*model.Workspace, []model.Invitation, error) {
			return nil, nil, apperr.QuotaExceeded("you have reached the limit for free workspaces")
		}

		body, _ := json.Marshal(map[string]any{"title": "Third", "type": "engineering"})
		req := httptest.NewRequest(http.MethodPost, "/workspaces", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusForbidden))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["kind"]).To(Equal("quota_exceeded"))
		Expect(resp["notify"]).To(Equal(true))
		Expect(resp["is_premium_user"]).To(Equal(false))
	})

	It("rejects a body without required fields", func() {
		req := httptest.NewRequest(http.MethodPost, "/workspaces", bytes.NewBufferString(`{"title":""}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("maps missing workspaces to 404", func() {
		svc.getFn = func(context.Context, int64) (*service.WorkspaceDetail, error) {
			return nil, apperr.NotFound("workspace not found")
		}

		req := httptest.NewRequest(http.MethodGet, "/workspaces/40", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("rejects a malformed workspace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/workspaces/abc", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("hides internal error details", func() {
		svc.deleteFn = func(context.Context, int64, service.Identity) error {
			return context.DeadlineExceeded
		}

		req := httptest.NewRequest(http.MethodDelete, "/workspaces/40", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["error"]).To(Equal("internal server error"))
	})
})
