package dto

import (
	"time"

	"progpath.app/api-server/internal/model"
	"progpath.app/api-server/internal/store"
)

type CreateTaskRequest struct {
	Title       string          `json:"title" binding:"required,min=1,max=255"`
	Description *string         `json:"description,omitempty" binding:"omitempty,max=5000"`
	Status      string          `json:"status,omitempty"`
	Priority    string          `json:"priority,omitempty"`
	Labels      []LabelRequest  `json:"labels,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Assignees   []int64         `json:"assignees,omitempty"`
	Reporters   []int64         `json:"reporters,omitempty"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	StoryPoints *int            `json:"story_points,omitempty" binding:"omitempty,min=0"`
}

type EditTaskRequest struct {
	Title       string         `json:"title" binding:"required,min=1,max=255"`
	Description *string        `json:"description,omitempty" binding:"omitempty,max=5000"`
	Status      string         `json:"status" binding:"required"`
	Priority    string         `json:"priority,omitempty"`
	Labels      []LabelRequest `json:"labels,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Assignees   []int64        `json:"assignees,omitempty"`
	Reporters   []int64        `json:"reporters,omitempty"`
	StartDate   *time.Time     `json:"start_date,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	StoryPoints *int           `json:"story_points,omitempty" binding:"omitempty,min=0"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdateTaskPriorityRequest struct {
	Priority string `json:"priority"`
}

type AddAttachmentsRequest struct {
	Attachments []AttachmentRequest `json:"attachments" binding:"required,min=1,dive"`
}

type AttachmentRequest struct {
	OriginalName string `json:"original_name" binding:"required"`
	Key          string `json:"key" binding:"required"`
	ContentType  string `json:"content_type" binding:"required"`
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required,min=1,max=5000"`
}

type LabelRequest struct {
	Text  string `json:"text" binding:"required"`
	Theme string `json:"theme"`
}

// TaskListQuery binds the task listing filters from the query string.
type TaskListQuery struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Priority string `form:"priority"`
	DueFrom  string `form:"due_from" time_format:"2006-01-02"`
	DueTo    string `form:"due_to" time_format:"2006-01-02"`
	SortBy   string `form:"sort_by"`
	Order    string `form:"order"`
}

// ToTaskQuery converts the bound query string into the store's typed filter.
func (q TaskListQuery) ToTaskQuery() (store.TaskQuery, error) {
	out := store.TaskQuery{
		Search:   q.Search,
		Status:   model.TaskStatus(q.Status),
		SortBy:   q.SortBy,
		SortDesc: q.Order == "desc",
	}
	if q.Priority != "" {
		p := model.TaskPriority(q.Priority)
		out.Priority = &p
	}
	if q.DueFrom != "" {
		t, err := time.Parse("2006-01-02", q.DueFrom)
		if err != nil {
			return store.TaskQuery{}, err
		}
		out.DueFrom = &t
	}
	if q.DueTo != "" {
		t, err := time.Parse("2006-01-02", q.DueTo)
		if err != nil {
			return store.TaskQuery{}, err
		}
		// Upper bound is exclusive; include the named day in full.
		end := t.AddDate(0, 0, 1)
		out.DueTo = &end
	}
	return out, nil
}

type TaskResponse struct {
	CreatedAt      time.Time          `json:"created_at"`
	StartDate      *time.Time         `json:"start_date,omitempty"`
	DueDate        *time.Time         `json:"due_date,omitempty"`
	CompletionDate *time.Time         `json:"completion_date,omitempty"`
	Title          string             `json:"title"`
	Description    *string            `json:"description,omitempty"`
	Status         string             `json:"status"`
	Priority       string             `json:"priority"`
	Labels         []model.Label      `json:"labels"`
	Tags           []string           `json:"tags"`
	Attachments    []model.Attachment `json:"attachments"`
	Assignees      []int64            `json:"assignees"`
	Reporters      []int64            `json:"reporters"`
	StoryPoints    *int               `json:"story_points,omitempty"`
	ID             int64              `json:"id,string"`
	WorkspaceID    int64              `json:"workspace_id,string"`
	ProjectID      int64              `json:"project_id,string"`
}

type CommentResponse struct {
	CreatedAt   time.Time `json:"created_at"`
	Text        string    `json:"text"`
	ID          int64     `json:"id,string"`
	ReferenceID int64     `json:"reference_id,string"`
	UserID      int64     `json:"user_id,string"`
}

func ToTaskResponse(t *model.Task) *TaskResponse {
	return &TaskResponse{
		ID:             t.ID,
		WorkspaceID:    t.WorkspaceID,
		ProjectID:      t.ProjectID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		Labels:         t.Labels,
		Tags:           t.Tags,
		Attachments:    t.Attachments,
		Assignees:      t.Assignees,
		Reporters:      t.Reporters,
		StartDate:      t.StartDate,
		DueDate:        t.DueDate,
		CompletionDate: t.CompletionDate,
		StoryPoints:    t.StoryPoints,
		CreatedAt:      t.CreatedAt,
	}
}

func ToTaskResponses(tasks []model.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = *ToTaskResponse(&tasks[i])
	}
	return out
}

func ToCommentResponse(c *model.Comment) *CommentResponse {
	return &CommentResponse{
		ID:          c.ID,
		ReferenceID: c.ReferenceID,
		UserID:      c.UserID,
		Text:        c.Text,
		CreatedAt:   c.CreatedAt,
	}
}

func ToCommentResponses(comments []model.Comment) []CommentResponse {
	out := make([]CommentResponse, len(comments))
	for i := range comments {
		out[i] = *ToCommentResponse(&comments[i])
	}
	return out
}

func ToLabels(labels []LabelRequest) []model.Label {
	out := make([]model.Label, len(labels))
	for i, l := range labels {
		out[i] = model.Label{Text: l.Text, Theme: l.Theme}
	}
	return out
}

func ToAttachments(attachments []AttachmentRequest) []model.Attachment {
	out := make([]model.Attachment, len(attachments))
	for i, a := range attachments {
		out[i] = model.Attachment{
			OriginalName: a.OriginalName,
			Key:          a.Key,
			ContentType:  a.ContentType,
		}
	}
	return out
}
