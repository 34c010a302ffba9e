package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"progpath.app/api-server/internal/model"
)

type commentStore struct {
	db DBTX
}

func newCommentStore(db DBTX) CommentStore {
	return &commentStore{db: db}
}

func (s *commentStore) Create(ctx context.Context, comment *model.Comment) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO comments (id, reference_id, user_id, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, reference_id, user_id, text, created_at`,
		comment.ID, comment.ReferenceID, comment.UserID, comment.Text)
	var created model.Comment
	err := row.Scan(&created.ID, &created.ReferenceID, &created.UserID, &created.Text, &created.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	*comment = created
	return nil
}

func (s *commentStore) ListByReference(ctx context.Context, referenceID int64) ([]model.Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, reference_id, user_id, text, created_at
		FROM comments
		WHERE reference_id = $1
		ORDER BY created_at DESC`, referenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.ReferenceID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *commentStore) DeleteByReference(ctx context.Context, referenceID int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM comments WHERE reference_id = $1`, referenceID)
	return err
}
