package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

// Summary is the dashboard payload: per-role user counts, task breakdowns,
// lead ratings and completion numbers.
type Summary struct {
	TotalUsers      int                         `json:"total_users"`
	UsersByRole     map[models.Role]int         `json:"users_by_role"`
	TotalTasks      int                         `json:"total_tasks"`
	TasksByStatus   map[models.TaskStatus]int   `json:"tasks_by_status"`
	TasksByPriority map[models.TaskPriority]int `json:"tasks_by_priority"`
	OverdueTasks    int                         `json:"overdue_tasks"`
	CompletionRate  float64                     `json:"completion_rate"`
	TotalLeads      int                         `json:"total_leads"`
	LeadsByRating   map[models.LeadRating]int   `json:"leads_by_rating"`
}

// TaskAnalytics is the task-only breakdown used by the tasks dashboard.
type TaskAnalytics struct {
	Total          int                         `json:"total"`
	ByStatus       map[models.TaskStatus]int   `json:"by_status"`
	ByPriority     map[models.TaskPriority]int `json:"by_priority"`
	Overdue        int                         `json:"overdue"`
	CompletionRate float64                     `json:"completion_rate"`
}

type ReportService struct {
	users repositories.UserRepository
	tasks repositories.TaskRepository
	leads repositories.LeadRepository
}

func NewReportService(users repositories.UserRepository, tasks repositories.TaskRepository, leads repositories.LeadRepository) *ReportService {
	return &ReportService{users: users, tasks: tasks, leads: leads}
}

// GetSummary gathers all dashboard counters; the independent queries run
// concurrently.
func (s *ReportService) GetSummary(ctx context.Context) (*Summary, error) {
	sum := &Summary{
		UsersByRole: make(map[models.Role]int, len(models.AllRoles)),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.users.GetCount(gctx)
		sum.TotalUsers = n
		return err
	})
	g.Go(func() error {
		// one goroutine owns the map
		for _, role := range models.AllRoles {
			n, err := s.users.GetCountByRole(gctx, role)
			if err != nil {
				return err
			}
			sum.UsersByRole[role] = n
		}
		return nil
	})
	g.Go(func() error {
		byStatus, err := s.tasks.CountByStatus(gctx)
		if err != nil {
			return err
		}
		sum.TasksByStatus = byStatus
		for _, n := range byStatus {
			sum.TotalTasks += n
		}
		return nil
	})
	g.Go(func() error {
		byPriority, err := s.tasks.CountByPriority(gctx)
		sum.TasksByPriority = byPriority
		return err
	})
	g.Go(func() error {
		n, err := s.tasks.CountOverdue(gctx)
		sum.OverdueTasks = n
		return err
	})
	g.Go(func() error {
		n, err := s.leads.GetCount(gctx)
		sum.TotalLeads = n
		return err
	})
	g.Go(func() error {
		byRating, err := s.leads.CountByRating(gctx)
		sum.LeadsByRating = byRating
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if sum.TotalTasks > 0 {
		sum.CompletionRate = float64(sum.TasksByStatus[models.StatusCompleted]) / float64(sum.TotalTasks)
	}
	return sum, nil
}

// GetTaskAnalytics gathers the task counters only.
func (s *ReportService) GetTaskAnalytics(ctx context.Context) (*TaskAnalytics, error) {
	ta := &TaskAnalytics{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		byStatus, err := s.tasks.CountByStatus(gctx)
		if err != nil {
			return err
		}
		ta.ByStatus = byStatus
		for _, n := range byStatus {
			ta.Total += n
		}
		return nil
	})
	g.Go(func() error {
		byPriority, err := s.tasks.CountByPriority(gctx)
		ta.ByPriority = byPriority
		return err
	})
	g.Go(func() error {
		n, err := s.tasks.CountOverdue(gctx)
		ta.Overdue = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if ta.Total > 0 {
		ta.CompletionRate = float64(ta.ByStatus[models.StatusCompleted]) / float64(ta.Total)
	}
	return ta, nil
}
