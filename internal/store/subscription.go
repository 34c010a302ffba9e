package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"progpath.app/api-server/internal/model"
)

type subscriptionStore struct {
	db DBTX
}

func newSubscriptionStore(db DBTX) SubscriptionStore {
	return &subscriptionStore{db: db}
}

const subscriptionColumns = `id, user_id, plan_title, start_date, end_date, amount_paid, created_at`

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	var sub model.Subscription
	err := row.Scan(&sub.ID, &sub.UserID, &sub.PlanTitle, &sub.StartDate, &sub.EndDate, &sub.AmountPaid, &sub.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *subscriptionStore) Create(ctx context.Context, sub *model.Subscription) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO subscriptions (id, user_id, plan_title, start_date, end_date, amount_paid)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+subscriptionColumns,
		sub.ID, sub.UserID, sub.PlanTitle, sub.StartDate, sub.EndDate, sub.AmountPaid)
	created, err := scanSubscription(row)
	if err != nil {
		return err
	}
	*sub = *created
	return nil
}

func (s *subscriptionStore) GetActiveForUser(ctx context.Context, userID int64, now time.Time) (*model.Subscription, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE user_id = $1 AND end_date >= $2
		ORDER BY end_date DESC
		LIMIT 1`, userID, now)
	return scanSubscription(row)
}

func (s *subscriptionStore) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := s.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount_paid), 0) FROM subscriptions`).Scan(&total)
	return total, err
}

func (s *subscriptionStore) CountActive(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE end_date >= $1`, now).Scan(&count)
	return count, err
}

func (s *subscriptionStore) MonthlyRevenueBetween(ctx context.Context, from, to time.Time) ([]MonthAmount, error) {
	rows, err := s.db.Query(ctx, `
		SELECT EXTRACT(MONTH FROM created_at)::int AS month, SUM(amount_paid)
		FROM subscriptions
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY month
		ORDER BY month`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MonthAmount
	for rows.Next() {
		var ma MonthAmount
		if err := rows.Scan(&ma.Month, &ma.Amount); err != nil {
			return nil, err
		}
		result = append(result, ma)
	}
	return result, rows.Err()
}

func (s *subscriptionStore) CountByPlanBetween(ctx context.Context, from, to time.Time) ([]PlanCount, error) {
	rows, err := s.db.Query(ctx, `
		SELECT plan_title, COUNT(*)
		FROM subscriptions
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY plan_title`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PlanCount
	for rows.Next() {
		var pc PlanCount
		if err := rows.Scan(&pc.PlanTitle, &pc.Count); err != nil {
			return nil, err
		}
		result = append(result, pc)
	}
	return result, rows.Err()
}
