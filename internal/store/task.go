package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"progpath.app/api-server/internal/model"
)

type taskStore struct {
	db DBTX
}

func newTaskStore(db DBTX) TaskStore {
	return &taskStore{db: db}
}

const taskColumns = `id, workspace_id, project_id, title, description, status, priority,
	start_date, due_date, completion_date, labels, tags, attachments,
	assignees, reporters, story_points, created_at`

func scanTaskRow(row pgx.Row) (*model.Task, error) {
	var t model.Task
	err := row.Scan(&t.ID, &t.WorkspaceID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.StartDate, &t.DueDate, &t.CompletionDate, &t.Labels, &t.Tags, &t.Attachments,
		&t.Assignees, &t.Reporters, &t.StoryPoints, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *taskStore) GetByID(ctx context.Context, id int64) (*model.Task, error) {
	row := s.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTaskRow(row)
}

func (s *taskStore) Create(ctx context.Context, task *model.Task) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO tasks (id, workspace_id, project_id, title, description, status, priority,
			start_date, due_date, completion_date, labels, tags, attachments,
			assignees, reporters, story_points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+taskColumns,
		task.ID, task.WorkspaceID, task.ProjectID, task.Title, task.Description, task.Status, task.Priority,
		task.StartDate, task.DueDate, task.CompletionDate, task.Labels, task.Tags, task.Attachments,
		task.Assignees, task.Reporters, task.StoryPoints)
	created, err := scanTaskRow(row)
	if err != nil {
		return err
	}
	*task = *created
	return nil
}

func (s *taskStore) Update(ctx context.Context, task *model.Task) error {
	row := s.db.QueryRow(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5,
			start_date = $6, due_date = $7, completion_date = $8,
			labels = $9, tags = $10, assignees = $11, reporters = $12, story_points = $13
		WHERE id = $1
		RETURNING `+taskColumns,
		task.ID, task.Title, task.Description, task.Status, task.Priority,
		task.StartDate, task.DueDate, task.CompletionDate,
		task.Labels, task.Tags, task.Assignees, task.Reporters, task.StoryPoints)
	updated, err := scanTaskRow(row)
	if err != nil {
		return err
	}
	*task = *updated
	return nil
}

func (s *taskStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *taskStore) SetStatus(ctx context.Context, id int64, status model.TaskStatus, completionDate *time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE tasks SET status = $2, completion_date = COALESCE($3, completion_date)
		WHERE id = $1`,
		id, status, completionDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *taskStore) SetPriority(ctx context.Context, id int64, priority model.TaskPriority) error {
	tag, err := s.db.Exec(ctx, `UPDATE tasks SET priority = $2 WHERE id = $1`, id, priority)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *taskStore) TitleTaken(ctx context.Context, workspaceID, projectID int64, title string, excludeID int64) (bool, error) {
	var taken bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM tasks
			WHERE workspace_id = $1 AND project_id = $2 AND LOWER(title) = LOWER($3) AND id <> $4
		)`, workspaceID, projectID, title, excludeID).Scan(&taken)
	return taken, err
}

var taskSortColumns = map[string]string{
	"created_at":   "created_at",
	"due_date":     "due_date",
	"title":        "title",
	"status":       "status",
	"priority":     "priority",
	"story_points": "story_points",
}

func (s *taskStore) List(ctx context.Context, q TaskQuery) ([]model.Task, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.WorkspaceID != 0 {
		where = append(where, "workspace_id = "+arg(q.WorkspaceID))
	}
	if q.ProjectID != 0 {
		where = append(where, "project_id = "+arg(q.ProjectID))
	}
	if q.Search != "" {
		pattern := "%" + strings.TrimPrefix(q.Search, "#") + "%"
		p := arg(pattern)
		where = append(where, "(title ILIKE "+p+" OR EXISTS (SELECT 1 FROM unnest(tags) tag WHERE tag ILIKE "+p+"))")
	}
	if q.Status != "" {
		where = append(where, "status = "+arg(q.Status))
	}
	if q.Priority != nil {
		where = append(where, "priority = "+arg(*q.Priority))
	}
	if q.DueFrom != nil {
		where = append(where, "due_date >= "+arg(*q.DueFrom))
	}
	if q.DueTo != nil {
		where = append(where, "due_date < "+arg(*q.DueTo))
	}

	sql := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}

	sortCol, ok := taskSortColumns[q.SortBy]
	if !ok {
		sortCol = "created_at"
		q.SortDesc = true
	}
	sql += " ORDER BY " + sortCol
	if q.SortDesc {
		sql += " DESC"
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (s *taskStore) CountByStatusForWorkspaces(ctx context.Context, workspaceIDs []int64) (map[model.TaskStatus]int64, error) {
	counts := make(map[model.TaskStatus]int64)
	if len(workspaceIDs) == 0 {
		return counts, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT status, COUNT(*) FROM tasks
		WHERE workspace_id = ANY($1)
		GROUP BY status`, workspaceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status model.TaskStatus
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (s *taskStore) ListDueBetweenForWorkspaces(ctx context.Context, workspaceIDs []int64, from, to time.Time) ([]model.Task, error) {
	if len(workspaceIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE workspace_id = ANY($1) AND due_date >= $2 AND due_date < $3
		ORDER BY due_date`, workspaceIDs, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (s *taskStore) AddAttachments(ctx context.Context, id int64, attachments []model.Attachment) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE tasks SET attachments = attachments || $2 WHERE id = $1`,
		id, attachments)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *taskStore) RemoveAttachment(ctx context.Context, id int64, key string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE tasks
		SET attachments = COALESCE(
			(SELECT jsonb_agg(a) FROM jsonb_array_elements(attachments) a WHERE a->>'key' <> $2),
			'[]'::jsonb)
		WHERE id = $1`,
		id, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *taskStore) DeleteByProject(ctx context.Context, workspaceID, projectID int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE workspace_id = $1 AND project_id = $2`, workspaceID, projectID)
	return err
}

func (s *taskStore) DeleteByWorkspace(ctx context.Context, workspaceID int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE workspace_id = $1`, workspaceID)
	return err
}

func collectTasks(rows pgx.Rows) ([]model.Task, error) {
	var result []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.WorkspaceID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.StartDate, &t.DueDate, &t.CompletionDate, &t.Labels, &t.Tags, &t.Attachments,
			&t.Assignees, &t.Reporters, &t.StoryPoints, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
