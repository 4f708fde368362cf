package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"critique/internal/domain"
	"critique/internal/model"
)

type WebsiteRepository struct {
	db *pgxpool.Pool
}

func NewWebsiteRepository(db *pgxpool.Pool) *WebsiteRepository {
	return &WebsiteRepository{db: db}
}

const websiteColumns = `id, name, website_url, icon_url, description, category, is_verified, created_at`

// CreateWebsite assigns a new id and inserts the row.
func (r *WebsiteRepository) CreateWebsite(ctx context.Context, w *model.Website) error {
	w.ID = uuid.NewString()
	query := `
        INSERT INTO websites (id, name, website_url, icon_url, description, category)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING is_verified, created_at
    `
	return r.db.QueryRow(ctx, query,
		w.ID, w.Name, w.WebsiteURL, w.IconURL, w.Description, string(w.Category),
	).Scan(&w.IsVerified, &w.CreatedAt)
}

func (r *WebsiteRepository) ListWebsites(ctx context.Context) ([]model.Website, error) {
	rows, err := r.db.Query(ctx, `SELECT `+websiteColumns+` FROM websites ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	websites := []model.Website{}
	for rows.Next() {
		var w model.Website
		if err := scanWebsite(rows, &w); err != nil {
			return nil, err
		}
		websites = append(websites, w)
	}
	return websites, rows.Err()
}

// FindWebsiteByID returns domain.ErrWebsiteNotFound when no row matches.
func (r *WebsiteRepository) FindWebsiteByID(ctx context.Context, id string) (*model.Website, error) {
	var w model.Website
	err := scanWebsite(r.db.QueryRow(ctx, `SELECT `+websiteColumns+` FROM websites WHERE id = $1`, id), &w)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrWebsiteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ActiveSince 返回 since 之后有新评论或新点赞的网站，附带全部评论的聚合数据
func (r *WebsiteRepository) ActiveSince(ctx context.Context, since time.Time) ([]model.WebsiteActivity, error) {
	query := `
        SELECT w.id, w.name, w.website_url, w.icon_url, w.description, w.category, w.is_verified, w.created_at,
               (SELECT COUNT(*) FROM reviews r WHERE r.website_id = w.id),
               COALESCE((SELECT AVG(r.rating)::float8 FROM reviews r WHERE r.website_id = w.id), 0),
               (SELECT COUNT(*) FROM review_upvotes u JOIN reviews r ON r.id = u.review_id WHERE r.website_id = w.id)
        FROM websites w
        WHERE EXISTS (
            SELECT 1 FROM reviews r
            WHERE r.website_id = w.id
              AND (r.created_at >= $1
                   OR EXISTS (SELECT 1 FROM review_upvotes u WHERE u.review_id = r.id AND u.created_at >= $1))
        )
    `
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WebsiteActivity
	for rows.Next() {
		var a model.WebsiteActivity
		var category string
		if err := rows.Scan(
			&a.ID, &a.Name, &a.WebsiteURL, &a.IconURL, &a.Description, &category, &a.IsVerified, &a.CreatedAt,
			&a.TotalReviews, &a.AvgRating, &a.TotalUpvotes,
		); err != nil {
			return nil, err
		}
		a.Category = model.Category(category)
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanWebsite(row pgx.Row, w *model.Website) error {
	var category string
	err := row.Scan(&w.ID, &w.Name, &w.WebsiteURL, &w.IconURL, &w.Description, &category, &w.IsVerified, &w.CreatedAt)
	w.Category = model.Category(category)
	return err
}
