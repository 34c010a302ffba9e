package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"progpath.app/api-server/internal/model"
)

type userStore struct {
	db DBTX
}

func newUserStore(db DBTX) UserStore {
	return &userStore{db: db}
}

const userColumns = `id, username, email, role, avatar_url, verified, blocked, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.AvatarURL, &u.Verified, &u.Blocked, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
	return scanUser(row)
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, email, role, avatar_url, verified, blocked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		user.ID, user.Username, user.Email, user.Role, user.AvatarURL, user.Verified, user.Blocked)
	created, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *created
	return nil
}

func (s *userStore) Update(ctx context.Context, user *model.User) error {
	row := s.db.QueryRow(ctx, `
		UPDATE users
		SET username = $2, email = $3, role = $4, avatar_url = $5, verified = $6, blocked = $7
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.Username, user.Email, user.Role, user.AvatarURL, user.Verified, user.Blocked)
	updated, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *updated
	return nil
}

func (s *userStore) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func (s *userStore) CountByRoleBetween(ctx context.Context, from, to time.Time) (map[model.Role]int64, error) {
	rows, err := s.db.Query(ctx, `
		SELECT role, COUNT(*) FROM users
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY role`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.Role]int64)
	for rows.Next() {
		var (
			role  model.Role
			count int64
		)
		if err := rows.Scan(&role, &count); err != nil {
			return nil, err
		}
		counts[role] = count
	}
	return counts, rows.Err()
}

func (s *userStore) MonthlySignupsBetween(ctx context.Context, from, to time.Time) ([]MonthCount, error) {
	rows, err := s.db.Query(ctx, `
		SELECT EXTRACT(MONTH FROM created_at)::int AS month, COUNT(*)
		FROM users
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY month
		ORDER BY month`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MonthCount
	for rows.Next() {
		var mc MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, err
		}
		result = append(result, mc)
	}
	return result, rows.Err()
}
