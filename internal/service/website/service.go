package website

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"critique/internal/model"
	"critique/pkg/logger"
)

const (
	// LeaderboardWindow 只统计最近一周有活动的网站
	LeaderboardWindow = 7 * 24 * time.Hour
	LeaderboardSize   = 10
)

type Store interface {
	CreateWebsite(ctx context.Context, w *model.Website) error
	ListWebsites(ctx context.Context) ([]model.Website, error)
	FindWebsiteByID(ctx context.Context, id string) (*model.Website, error)
	ActiveSince(ctx context.Context, since time.Time) ([]model.WebsiteActivity, error)
}

type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

func (s *Service) Add(ctx context.Context, w *model.Website) error {
	if err := s.store.CreateWebsite(ctx, w); err != nil {
		return err
	}
	logger.WithTrace(ctx, s.logger).Info("Website added", zap.String("website_id", w.ID), zap.String("category", string(w.Category)))
	return nil
}

func (s *Service) List(ctx context.Context) ([]model.Website, error) {
	return s.store.ListWebsites(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*model.Website, error) {
	return s.store.FindWebsiteByID(ctx, id)
}

// Leaderboard ranks websites with review or upvote activity in the last week.
func (s *Service) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	active, err := s.store.ActiveSince(ctx, s.now().Add(-LeaderboardWindow))
	if err != nil {
		return nil, err
	}
	return Rank(active, LeaderboardSize), nil
}

// Rank scores each website as avgRating*2 + upvotes*0.5 and returns the top n, highest first.
func Rank(active []model.WebsiteActivity, n int) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, 0, len(active))
	for _, a := range active {
		entries = append(entries, model.LeaderboardEntry{
			ID:                  a.ID,
			Name:                a.Name,
			WebsiteURL:          a.WebsiteURL,
			IconURL:             a.IconURL,
			TotalReviews:        a.TotalReviews,
			AvgRating:           a.AvgRating,
			TotalReviewsUpvotes: a.TotalUpvotes,
			RankingScore:        a.AvgRating*2 + float64(a.TotalUpvotes)*0.5,
			IsVerified:          a.IsVerified,
			Category:            a.Category,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RankingScore > entries[j].RankingScore
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
