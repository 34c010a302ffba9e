package dto

import (
	"time"

	"progpath.app/api-server/internal/service"
)

// DashboardQuery binds the optional reporting range; both bounds must be
// supplied together or the current calendar year is used.
type DashboardQuery struct {
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

func (q DashboardQuery) Range() (from, to time.Time, err error) {
	if q.DateFrom == "" || q.DateTo == "" {
		return time.Time{}, time.Time{}, nil
	}
	if from, err = time.Parse("2006-01-02", q.DateFrom); err != nil {
		return
	}
	if to, err = time.Parse("2006-01-02", q.DateTo); err != nil {
		return
	}
	to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return
}

type BurndownPointResponse struct {
	Date   string  `json:"date"`
	Actual int     `json:"actual_burn_down_data"`
	Ideal  float64 `json:"ideal_burn_down_data"`
}

func ToBurndownResponses(points []service.BurndownPoint) []BurndownPointResponse {
	out := make([]BurndownPointResponse, len(points))
	for i, p := range points {
		out[i] = BurndownPointResponse{
			Date:   p.Date.Format("2006-01-02"),
			Actual: p.Actual,
			Ideal:  p.Ideal,
		}
	}
	return out
}
