package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"progpath.app/api-server/internal/model"
)

type projectStore struct {
	db DBTX
}

func newProjectStore(db DBTX) ProjectStore {
	return &projectStore{db: db}
}

const projectColumns = `id, workspace_id, title, theme, description, starred, created_at`

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.WorkspaceID, &p.Title, &p.Theme, &p.Description, &p.Starred, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *projectStore) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	row := s.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

func (s *projectStore) Create(ctx context.Context, project *model.Project) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO projects (id, workspace_id, title, theme, description, starred)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+projectColumns,
		project.ID, project.WorkspaceID, project.Title, project.Theme, project.Description, project.Starred)
	created, err := scanProject(row)
	if err != nil {
		return err
	}
	*project = *created
	return nil
}

func (s *projectStore) Update(ctx context.Context, project *model.Project) error {
	row := s.db.QueryRow(ctx, `
		UPDATE projects
		SET title = $2, theme = $3, description = $4
		WHERE id = $1
		RETURNING `+projectColumns,
		project.ID, project.Title, project.Theme, project.Description)
	updated, err := scanProject(row)
	if err != nil {
		return err
	}
	*project = *updated
	return nil
}

func (s *projectStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *projectStore) SetStarred(ctx context.Context, id int64, starred bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE projects SET starred = $2 WHERE id = $1`, id, starred)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *projectStore) TitleTaken(ctx context.Context, workspaceID int64, title string, excludeID int64) (bool, error) {
	var taken bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM projects
			WHERE workspace_id = $1 AND LOWER(title) = LOWER($2) AND id <> $3
		)`, workspaceID, title, excludeID).Scan(&taken)
	return taken, err
}

func (s *projectStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Project, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE workspace_id = $1
		ORDER BY created_at DESC`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.WorkspaceID, &p.Title, &p.Theme, &p.Description, &p.Starred, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *projectStore) CountByWorkspaces(ctx context.Context, workspaceIDs []int64) (int64, error) {
	if len(workspaceIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE workspace_id = ANY($1)`, workspaceIDs).Scan(&count)
	return count, err
}

func (s *projectStore) DeleteByWorkspace(ctx context.Context, workspaceID int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM projects WHERE workspace_id = $1`, workspaceID)
	return err
}
