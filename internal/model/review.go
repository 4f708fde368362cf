package model

import "time"

type Review struct {
	ID        string
	Content   string
	Rating    int
	VideoURL  *string
	UserID    int
	WebsiteID string
	CreatedAt time.Time
}

type ReviewAuthor struct {
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

type Upvote struct {
	ID       string `json:"id"`
	UserID   int    `json:"userId"`
	ReviewID string `json:"reviewId"`
}

// ReviewDetail is a review as shown on a website page.
type ReviewDetail struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	Rating    int          `json:"rating"`
	VideoURL  *string      `json:"videoUrl"`
	CreatedAt time.Time    `json:"createdAt"`
	User      ReviewAuthor `json:"user"`
	Upvotes   []Upvote     `json:"upvotes"`
}
