package review

import (
	"context"

	"go.uber.org/zap"

	"critique/internal/model"
	"critique/pkg/logger"
)

type Store interface {
	CreateReview(ctx context.Context, r *model.Review) error
	ListByWebsite(ctx context.Context, websiteID string) ([]model.ReviewDetail, error)
	CreateUpvote(ctx context.Context, reviewID string, userID int) error
}

// AuthorLookup resolves the reviewer shown on a freshly created review.
type AuthorLookup interface {
	FindByID(ctx context.Context, id int) (*model.User, error)
}

type Service struct {
	store  Store
	users  AuthorLookup
	logger *zap.Logger
}

func NewService(store Store, users AuthorLookup, logger *zap.Logger) *Service {
	return &Service{store: store, users: users, logger: logger}
}

// Add stores the review and returns it in the same shape as List.
// One review per user per website: a repeat yields domain.ErrAlreadyReviewed.
func (s *Service) Add(ctx context.Context, r *model.Review) (*model.ReviewDetail, error) {
	if err := s.store.CreateReview(ctx, r); err != nil {
		return nil, err
	}
	logger.WithTrace(ctx, s.logger).Info("Review created",
		zap.String("review_id", r.ID),
		zap.String("website_id", r.WebsiteID),
		zap.Int("user_id", r.UserID),
	)

	detail := &model.ReviewDetail{
		ID:        r.ID,
		Content:   r.Content,
		Rating:    r.Rating,
		VideoURL:  r.VideoURL,
		CreatedAt: r.CreatedAt,
		Upvotes:   []model.Upvote{},
	}
	u, err := s.users.FindByID(ctx, r.UserID)
	if err != nil {
		return nil, err
	}
	detail.User = model.ReviewAuthor{Name: u.Name, Avatar: u.Avatar}
	return detail, nil
}

func (s *Service) List(ctx context.Context, websiteID string) ([]model.ReviewDetail, error) {
	return s.store.ListByWebsite(ctx, websiteID)
}

// Upvote 每个用户对同一评论只能点赞一次
func (s *Service) Upvote(ctx context.Context, reviewID string, userID int) error {
	if err := s.store.CreateUpvote(ctx, reviewID, userID); err != nil {
		return err
	}
	logger.WithTrace(ctx, s.logger).Debug("Review upvoted", zap.String("review_id", reviewID), zap.Int("user_id", userID))
	return nil
}
