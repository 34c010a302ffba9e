package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"progpath.app/api-server/internal/model"
)

type invitationStore struct {
	db DBTX
}

func newInvitationStore(db DBTX) InvitationStore {
	return &invitationStore{db: db}
}

const invitationColumns = `id, workspace_id, email, status, created_at`

func scanInvitation(row pgx.Row) (*model.Invitation, error) {
	var inv model.Invitation
	err := row.Scan(&inv.ID, &inv.WorkspaceID, &inv.Email, &inv.Status, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (s *invitationStore) GetByID(ctx context.Context, id int64) (*model.Invitation, error) {
	row := s.db.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id)
	return scanInvitation(row)
}

func (s *invitationStore) CreateMany(ctx context.Context, invitations []model.Invitation) error {
	for i := range invitations {
		inv := &invitations[i]
		row := s.db.QueryRow(ctx, `
			INSERT INTO invitations (id, workspace_id, email, status)
			VALUES ($1, $2, $3, $4)
			RETURNING `+invitationColumns,
			inv.ID, inv.WorkspaceID, inv.Email, inv.Status)
		created, err := scanInvitation(row)
		if err != nil {
			return err
		}
		*inv = *created
	}
	return nil
}

func (s *invitationStore) Resolve(ctx context.Context, id int64, status model.InvitationStatus) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE invitations SET status = $2
		WHERE id = $1 AND status = $3`,
		id, status, model.InvitationPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *invitationStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *invitationStore) CountByWorkspace(ctx context.Context, workspaceID int64) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM invitations WHERE workspace_id = $1`, workspaceID).Scan(&count)
	return count, err
}

func (s *invitationStore) HasPendingForEmail(ctx context.Context, workspaceID int64, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM invitations
			WHERE workspace_id = $1 AND LOWER(email) = LOWER($2) AND status = $3
		)`, workspaceID, email, model.InvitationPending).Scan(&exists)
	return exists, err
}

func (s *invitationStore) ListActionableByWorkspace(ctx context.Context, workspaceID int64) ([]model.Invitation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE workspace_id = $1 AND status IN ($2, $3)
		ORDER BY created_at DESC`,
		workspaceID, model.InvitationPending, model.InvitationRejected)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Invitation
	for rows.Next() {
		var inv model.Invitation
		if err := rows.Scan(&inv.ID, &inv.WorkspaceID, &inv.Email, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	return result, rows.Err()
}

func (s *invitationStore) ListPendingByEmail(ctx context.Context, email string) ([]InvitationWithWorkspace, error) {
	rows, err := s.db.Query(ctx, `
		SELECT i.id, i.workspace_id, i.email, i.status, i.created_at, w.title, u.username
		FROM invitations i
		JOIN workspaces w ON w.id = i.workspace_id
		JOIN users u ON u.id = w.owner_id
		WHERE LOWER(i.email) = LOWER($1) AND i.status = $2
		ORDER BY i.created_at DESC`,
		email, model.InvitationPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []InvitationWithWorkspace
	for rows.Next() {
		var item InvitationWithWorkspace
		inv := &item.Invitation
		if err := rows.Scan(&inv.ID, &inv.WorkspaceID, &inv.Email, &inv.Status, &inv.CreatedAt,
			&item.WorkspaceTitle, &item.AdminUsername); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (s *invitationStore) CountPendingByEmail(ctx context.Context, email string) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM invitations
		WHERE LOWER(email) = LOWER($1) AND status = $2`,
		email, model.InvitationPending).Scan(&count)
	return count, err
}
