package service

import (
	"context"
	"time"

	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/repository"
)

const dashboardNewsCount = 3

type DashboardService struct {
	ResultRepo *repository.ResultRepository
	BadgeRepo  *repository.BadgeRepository
	NewsRepo   *repository.NewsRepository
	Progress   *ProgressService
	Ranking    *RankingService

	now func() time.Time
}

func NewDashboardService(
	resultRepo *repository.ResultRepository,
	badgeRepo *repository.BadgeRepository,
	newsRepo *repository.NewsRepository,
	progress *ProgressService,
	ranking *RankingService,
) *DashboardService {
	return &DashboardService{
		ResultRepo: resultRepo,
		BadgeRepo:  badgeRepo,
		NewsRepo:   newsRepo,
		Progress:   progress,
		Ranking:    ranking,
		now:        time.Now,
	}
}

// swagger:model Dashboard
type Dashboard struct {
	Ranking []model.BadgeRankingEntry `json:"ranking"`
	Staff   *StaffSummary             `json:"staff,omitempty"`
}

// swagger:model StaffSummary
type StaffSummary struct {
	Greeting             string       `json:"greeting"`
	PassedExamCount      int64        `json:"passedExamCount"`
	BadgeCount           int          `json:"badgeCount"`
	CompletedCourseCount int          `json:"completedCourseCount"`
	LatestNews           []model.News `json:"latestNews"`
}

// Greeting 5-11 点早上，11-18 点白天，其余时间
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 11:
		return "おはようございます"
	case h >= 11 && h < 18:
		return "こんにちは"
	default:
		return "お疲れ様です"
	}
}

func (s *DashboardService) GetDashboard(ctx context.Context, userID uint, rank model.UserRank) (*Dashboard, error) {
	ranking, err := s.Ranking.Ranking(ctx)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Ranking: ranking}
	if rank != model.Staff {
		return d, nil
	}

	summary := &StaffSummary{Greeting: Greeting(s.now())}
	if summary.PassedExamCount, err = s.ResultRepo.CountPassed(ctx, userID); err != nil {
		return nil, err
	}
	badges, err := s.BadgeRepo.ListEarned(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary.BadgeCount = len(badges)
	if summary.CompletedCourseCount, err = s.Progress.CompletedCourseCount(ctx, userID); err != nil {
		return nil, err
	}
	if summary.LatestNews, err = s.NewsRepo.Latest(ctx, dashboardNewsCount); err != nil {
		return nil, err
	}
	d.Staff = summary
	return d, nil
}
