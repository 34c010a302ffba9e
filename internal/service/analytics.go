package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"progpath.app/api-server/core/config"
	"progpath.app/api-server/internal/model"
	"progpath.app/api-server/internal/store"
)

// BurndownPoint is one day of the weekly burndown chart. Ideal is the linear
// trajectory from the week's task total down to zero; Actual is the count of
// still-open tasks after that day's completions.
type BurndownPoint struct {
	Date   time.Time `json:"date"`
	Actual int       `json:"actual_burn_down_data"`
	Ideal  float64   `json:"ideal_burn_down_data"`
}

// DashboardSummary is the site-wide administrative rollup. The monthly arrays
// are indexed January..December; months without data stay zero.
type DashboardSummary struct {
	TotalUsers          int64             `json:"total_users"`
	TotalRevenue        float64           `json:"total_revenue"`
	CurrentPremiumUsers int64             `json:"current_premium_users"`
	MonthlyRevenue      [12]float64       `json:"monthly_revenue"`
	MonthlySignups      [12]int64         `json:"monthly_signups"`
	RoleNumbers         [2]int64          `json:"user_role_numbers"`
	PlanCounts          []store.PlanCount `json:"premium_users"`
}

// HomeSummary is the per-user landing rollup.
type HomeSummary struct {
	TotalWorkspaces int64                      `json:"total_workspaces"`
	NewInvitations  int64                      `json:"new_invitations"`
	TotalProjects   int64                      `json:"total_projects"`
	StatusCounts    map[model.TaskStatus]int64 `json:"task_status_counts"`
	DueToday        []model.Task               `json:"tasks_due_today"`
	DueTomorrow     []model.Task               `json:"tasks_due_tomorrow"`
	DueThisWeek     []model.Task               `json:"tasks_due_this_week"`
}

type AnalyticsService interface {
	// ComputeBurndown charts the project's current week, day by day from the
	// configured week start. Only tasks due inside the week count.
	ComputeBurndown(ctx context.Context, workspaceID, projectID int64) ([]BurndownPoint, error)
	// Dashboard aggregates over the given range; zero times default to the
	// current calendar year. Total user count, total revenue and the active
	// premium count ignore the range on purpose.
	Dashboard(ctx context.Context, from, to time.Time) (*DashboardSummary, error)
	Home(ctx context.Context, userID int64) (*HomeSummary, error)
}

type analyticsService struct {
	stores StoreProvider
	cfg    config.AnalyticsConfig
	clock  func() time.Time
}

func NewAnalyticsService(stores StoreProvider, cfg config.AnalyticsConfig, clock func() time.Time) AnalyticsService {
	return &analyticsService{stores: stores, cfg: cfg, clock: clock}
}

const daysInWeek = 7

func (s *analyticsService) ComputeBurndown(ctx context.Context, workspaceID, projectID int64) ([]BurndownPoint, error) {
	if _, err := getWorkspaceProject(ctx, s.stores, workspaceID, projectID); err != nil {
		return nil, err
	}

	weekStart := s.startOfWeek(s.clock())
	weekEnd := weekStart.AddDate(0, 0, daysInWeek)

	from, to := weekStart, weekEnd
	tasks, err := s.stores.Tasks().List(ctx, store.TaskQuery{
		WorkspaceID: workspaceID,
		ProjectID:   projectID,
		DueFrom:     &from,
		DueTo:       &to,
	})
	if err != nil {
		return nil, fmt.Errorf("listing tasks due this week: %w", err)
	}

	total := len(tasks)
	idealDecrementPerDay := float64(total) / daysInWeek

	points := make([]BurndownPoint, 0, daysInWeek)
	remaining := total
	for d := 1; d <= daysInWeek; d++ {
		day := weekStart.AddDate(0, 0, d-1)

		for _, task := range tasks {
			if task.Status == model.TaskDone && task.CompletionDate != nil && sameDay(*task.CompletionDate, day) {
				remaining--
			}
		}
		if remaining < 0 {
			remaining = 0
		}

		ideal := float64(total)
		if d > 1 {
			ideal = round2(float64(total) - float64(d)*idealDecrementPerDay)
		}

		points = append(points, BurndownPoint{
			Date:   day,
			Actual: remaining,
			Ideal:  ideal,
		})
	}
	return points, nil
}

func (s *analyticsService) Dashboard(ctx context.Context, from, to time.Time) (*DashboardSummary, error) {
	now := s.clock()
	if from.IsZero() || to.IsZero() {
		from = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		to = time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, now.Location()).Add(-time.Nanosecond)
	}

	summary := &DashboardSummary{}

	var err error
	if summary.TotalUsers, err = s.stores.Users().CountAll(ctx); err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}
	if summary.TotalRevenue, err = s.stores.Subscriptions().TotalRevenue(ctx); err != nil {
		return nil, fmt.Errorf("summing revenue: %w", err)
	}
	if summary.CurrentPremiumUsers, err = s.stores.Subscriptions().CountActive(ctx, now); err != nil {
		return nil, fmt.Errorf("counting active subscriptions: %w", err)
	}

	revenue, err := s.stores.Subscriptions().MonthlyRevenueBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("grouping monthly revenue: %w", err)
	}
	for _, m := range revenue {
		if m.Month >= 1 && m.Month <= 12 {
			summary.MonthlyRevenue[m.Month-1] = m.Amount
		}
	}

	signups, err := s.stores.Users().MonthlySignupsBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("grouping monthly signups: %w", err)
	}
	for _, m := range signups {
		if m.Month >= 1 && m.Month <= 12 {
			summary.MonthlySignups[m.Month-1] = m.Count
		}
	}

	roles, err := s.stores.Users().CountByRoleBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("grouping roles: %w", err)
	}
	for i, role := range model.Roles {
		summary.RoleNumbers[i] = roles[role]
	}

	if summary.PlanCounts, err = s.stores.Subscriptions().CountByPlanBetween(ctx, from, to); err != nil {
		return nil, fmt.Errorf("grouping plans: %w", err)
	}

	return summary, nil
}

func (s *analyticsService) Home(ctx context.Context, userID int64) (*HomeSummary, error) {
	user, err := s.stores.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	workspaces, err := s.stores.Workspaces().ListByCollaborator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	workspaceIDs := make([]int64, len(workspaces))
	for i, ws := range workspaces {
		workspaceIDs[i] = ws.ID
	}

	summary := &HomeSummary{
		TotalWorkspaces: int64(len(workspaces)),
		DueToday:        []model.Task{},
		DueTomorrow:     []model.Task{},
		DueThisWeek:     []model.Task{},
	}

	if summary.NewInvitations, err = s.stores.Invitations().CountPendingByEmail(ctx, user.Email); err != nil {
		return nil, fmt.Errorf("counting pending invitations: %w", err)
	}
	if summary.TotalProjects, err = s.stores.Projects().CountByWorkspaces(ctx, workspaceIDs); err != nil {
		return nil, fmt.Errorf("counting projects: %w", err)
	}

	// The status map always carries all four labels, zeroed.
	summary.StatusCounts = make(map[model.TaskStatus]int64, len(model.TaskStatuses))
	for _, status := range model.TaskStatuses {
		summary.StatusCounts[status] = 0
	}
	counts, err := s.stores.Tasks().CountByStatusForWorkspaces(ctx, workspaceIDs)
	if err != nil {
		return nil, fmt.Errorf("counting tasks by status: %w", err)
	}
	for status, count := range counts {
		summary.StatusCounts[status] = count
	}

	now := s.clock()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)
	dayAfter := tomorrow.AddDate(0, 0, 1)
	// End of the current calendar week, exclusive: the upcoming Sunday at
	// midnight, or a full week out when today is Sunday.
	endOfWeek := today.AddDate(0, 0, daysInWeek-int(now.Weekday()))

	if summary.DueToday, err = s.stores.Tasks().ListDueBetweenForWorkspaces(ctx, workspaceIDs, today, tomorrow); err != nil {
		return nil, fmt.Errorf("listing tasks due today: %w", err)
	}
	if summary.DueTomorrow, err = s.stores.Tasks().ListDueBetweenForWorkspaces(ctx, workspaceIDs, tomorrow, dayAfter); err != nil {
		return nil, fmt.Errorf("listing tasks due tomorrow: %w", err)
	}
	if summary.DueThisWeek, err = s.stores.Tasks().ListDueBetweenForWorkspaces(ctx, workspaceIDs, tomorrow, endOfWeek); err != nil {
		return nil, fmt.Errorf("listing tasks due this week: %w", err)
	}

	return summary, nil
}

// startOfWeek truncates now to midnight and walks back to the configured
// week-start day.
func (s *analyticsService) startOfWeek(now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	offset := (int(now.Weekday()) - int(s.cfg.WeekStart) + daysInWeek) % daysInWeek
	return midnight.AddDate(0, 0, -offset)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
