package model

import "time"

// Subscription is a billing record, immutable from this service's point of
// view. It feeds quota decisions (active premium check) and revenue
// analytics.
type Subscription struct {
	CreatedAt  time.Time `json:"created_at"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	PlanTitle  string    `json:"plan_title"`
	AmountPaid float64   `json:"amount_paid"`
	ID         int64     `json:"id,string"`
	UserID     int64     `json:"user_id,string"`
}

// Active reports whether the subscription grants premium membership at now.
func (s *Subscription) Active(now time.Time) bool {
	return !s.EndDate.Before(now)
}
