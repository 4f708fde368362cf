package review_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"critique/internal/domain"
	"critique/internal/model"
	"critique/internal/service/review"
)

type memStore struct {
	reviews []model.Review
	upvotes []model.Upvote
}

func (m *memStore) CreateReview(_ context.Context, r *model.Review) error {
	for _, existing := range m.reviews {
		if existing.UserID == r.UserID && existing.WebsiteID == r.WebsiteID {
			return domain.ErrAlreadyReviewed
		}
	}
	r.ID = fmt.Sprintf("r%d", len(m.reviews)+1)
	r.CreatedAt = time.Now()
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *memStore) ListByWebsite(_ context.Context, websiteID string) ([]model.ReviewDetail, error) {
	out := []model.ReviewDetail{}
	for _, r := range m.reviews {
		if r.WebsiteID != websiteID {
			continue
		}
		d := model.ReviewDetail{ID: r.ID, Content: r.Content, Rating: r.Rating, Upvotes: []model.Upvote{}}
		for _, up := range m.upvotes {
			if up.ReviewID == r.ID {
				d.Upvotes = append(d.Upvotes, up)
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *memStore) CreateUpvote(_ context.Context, reviewID string, userID int) error {
	found := false
	for _, r := range m.reviews {
		if r.ID == reviewID {
			found = true
		}
	}
	if !found {
		return domain.ErrReviewNotFound
	}
	for _, up := range m.upvotes {
		if up.ReviewID == reviewID && up.UserID == userID {
			return domain.ErrAlreadyUpvoted
		}
	}
	m.upvotes = append(m.upvotes, model.Upvote{ID: fmt.Sprintf("u%d", len(m.upvotes)+1), UserID: userID, ReviewID: reviewID})
	return nil
}

type users map[int]*model.User

func (u users) FindByID(_ context.Context, id int) (*model.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func newService() (*review.Service, *memStore) {
	store := &memStore{}
	return review.NewService(store, users{1: {ID: 1, Name: "alice"}, 2: {ID: 2, Name: "bob"}}, zap.NewNop()), store
}

func TestAdd_ReturnsAuthorAndEmptyUpvotes(t *testing.T) {
	svc, _ := newService()

	got, err := svc.Add(context.Background(), &model.Review{Content: "great", Rating: 5, UserID: 1, WebsiteID: "w1"})

	require.NoError(t, err)
	assert.Equal(t, "r1", got.ID)
	assert.Equal(t, "alice", got.User.Name)
	assert.NotNil(t, got.Upvotes)
	assert.Empty(t, got.Upvotes)
}

func TestAdd_OnePerUserPerWebsite(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Add(ctx, &model.Review{Content: "first", Rating: 4, UserID: 1, WebsiteID: "w1"})
	require.NoError(t, err)

	_, err = svc.Add(ctx, &model.Review{Content: "second", Rating: 1, UserID: 1, WebsiteID: "w1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)

	_, err = svc.Add(ctx, &model.Review{Content: "other site", Rating: 3, UserID: 1, WebsiteID: "w2"})
	assert.NoError(t, err)
}

func TestUpvote(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	r, err := svc.Add(ctx, &model.Review{Content: "nice", Rating: 4, UserID: 1, WebsiteID: "w1"})
	require.NoError(t, err)

	require.NoError(t, svc.Upvote(ctx, r.ID, 2))
	assert.ErrorIs(t, svc.Upvote(ctx, r.ID, 2), domain.ErrAlreadyUpvoted)
	assert.ErrorIs(t, svc.Upvote(ctx, "missing", 2), domain.ErrReviewNotFound)

	list, err := svc.List(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Upvotes, 1)
	assert.Equal(t, 2, list[0].Upvotes[0].UserID)
}
