package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"progpath.app/api-server/internal/model"
)

type workspaceStore struct {
	db DBTX
}

func newWorkspaceStore(db DBTX) WorkspaceStore {
	return &workspaceStore{db: db}
}

const workspaceColumns = `id, owner_id, title, type, description, freezed, created_at`

func scanWorkspace(row pgx.Row) (*model.Workspace, error) {
	var ws model.Workspace
	err := row.Scan(&ws.ID, &ws.OwnerID, &ws.Title, &ws.Type, &ws.Description, &ws.Freezed, &ws.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ws, nil
}

func (s *workspaceStore) GetByID(ctx context.Context, id int64) (*model.Workspace, error) {
	row := s.db.QueryRow(ctx, `SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1`, id)
	return scanWorkspace(row)
}

func (s *workspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO workspaces (id, owner_id, title, type, description, freezed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+workspaceColumns,
		ws.ID, ws.OwnerID, ws.Title, ws.Type, ws.Description, ws.Freezed)
	created, err := scanWorkspace(row)
	if err != nil {
		return err
	}
	*ws = *created
	return nil
}

func (s *workspaceStore) Update(ctx context.Context, ws *model.Workspace) error {
	row := s.db.QueryRow(ctx, `
		UPDATE workspaces
		SET title = $2, type = $3, description = $4, freezed = $5
		WHERE id = $1
		RETURNING `+workspaceColumns,
		ws.ID, ws.Title, ws.Type, ws.Description, ws.Freezed)
	updated, err := scanWorkspace(row)
	if err != nil {
		return err
	}
	*ws = *updated
	return nil
}

func (s *workspaceStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *workspaceStore) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM workspaces WHERE owner_id = $1`, ownerID).Scan(&count)
	return count, err
}

func (s *workspaceStore) TitleTaken(ctx context.Context, ownerID int64, title string, excludeID int64) (bool, error) {
	var taken bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM workspaces
			WHERE owner_id = $1 AND LOWER(title) = LOWER($2) AND id <> $3
		)`, ownerID, title, excludeID).Scan(&taken)
	return taken, err
}

func (s *workspaceStore) ListByCollaborator(ctx context.Context, userID int64) ([]model.Workspace, error) {
	rows, err := s.db.Query(ctx, `
		SELECT w.id, w.owner_id, w.title, w.type, w.description, w.freezed, w.created_at
		FROM workspaces w
		JOIN workspace_collaborators wc ON wc.workspace_id = w.id
		WHERE wc.user_id = $1
		ORDER BY w.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Workspace
	for rows.Next() {
		var ws model.Workspace
		if err := rows.Scan(&ws.ID, &ws.OwnerID, &ws.Title, &ws.Type, &ws.Description, &ws.Freezed, &ws.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, ws)
	}
	return result, rows.Err()
}

func (s *workspaceStore) AddCollaborator(ctx context.Context, workspaceID, userID int64) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO workspace_collaborators (workspace_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (workspace_id, user_id) DO NOTHING`,
		workspaceID, userID)
	return err
}

func (s *workspaceStore) RemoveCollaborator(ctx context.Context, workspaceID, userID int64) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM workspace_collaborators
		WHERE workspace_id = $1 AND user_id = $2`,
		workspaceID, userID)
	return err
}

func (s *workspaceStore) ListCollaborators(ctx context.Context, workspaceID int64) ([]model.User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT u.id, u.username, u.email, u.role, u.avatar_url, u.verified, u.blocked, u.created_at
		FROM users u
		JOIN workspace_collaborators wc ON wc.user_id = u.id
		WHERE wc.workspace_id = $1
		ORDER BY u.username`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.AvatarURL, &u.Verified, &u.Blocked, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}
