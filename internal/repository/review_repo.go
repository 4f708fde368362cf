package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"critique/internal/domain"
	"critique/internal/model"
)

type ReviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// CreateReview inserts a review. A second review by the same user on the
// same website yields domain.ErrAlreadyReviewed.
func (r *ReviewRepository) CreateReview(ctx context.Context, rv *model.Review) error {
	rv.ID = uuid.NewString()
	query := `
        INSERT INTO reviews (id, content, rating, video_url, user_id, website_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at
    `
	err := r.db.QueryRow(ctx, query,
		rv.ID, rv.Content, rv.Rating, rv.VideoURL, rv.UserID, rv.WebsiteID,
	).Scan(&rv.CreatedAt)
	return mapConstraintError(err, domain.ErrAlreadyReviewed, domain.ErrWebsiteNotFound)
}

// ListByWebsite 按创建时间返回网站的全部评论（含作者与点赞）
func (r *ReviewRepository) ListByWebsite(ctx context.Context, websiteID string) ([]model.ReviewDetail, error) {
	query := `
        SELECT r.id, r.content, r.rating, r.video_url, r.created_at, u.name, u.avatar
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.website_id = $1
        ORDER BY r.created_at
    `
	rows, err := r.db.Query(ctx, query, websiteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []model.ReviewDetail{}
	index := map[string]int{}
	var ids []string
	for rows.Next() {
		var d model.ReviewDetail
		if err := rows.Scan(&d.ID, &d.Content, &d.Rating, &d.VideoURL, &d.CreatedAt, &d.User.Name, &d.User.Avatar); err != nil {
			return nil, err
		}
		d.Upvotes = []model.Upvote{}
		index[d.ID] = len(reviews)
		ids = append(ids, d.ID)
		reviews = append(reviews, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return reviews, nil
	}

	upvotes, err := r.db.Query(ctx, `SELECT id, user_id, review_id FROM review_upvotes WHERE review_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer upvotes.Close()

	for upvotes.Next() {
		var up model.Upvote
		if err := upvotes.Scan(&up.ID, &up.UserID, &up.ReviewID); err != nil {
			return nil, err
		}
		i := index[up.ReviewID]
		reviews[i].Upvotes = append(reviews[i].Upvotes, up)
	}
	return reviews, upvotes.Err()
}

// CreateUpvote returns domain.ErrAlreadyUpvoted on a repeated upvote and
// domain.ErrReviewNotFound when the review does not exist.
func (r *ReviewRepository) CreateUpvote(ctx context.Context, reviewID string, userID int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO review_upvotes (id, review_id, user_id) VALUES ($1, $2, $3)`,
		uuid.NewString(), reviewID, userID,
	)
	return mapConstraintError(err, domain.ErrAlreadyUpvoted, domain.ErrReviewNotFound)
}

func mapConstraintError(err, onUnique, onForeignKey error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return onUnique
		case foreignKeyViolation:
			return onForeignKey
		}
	}
	return err
}
