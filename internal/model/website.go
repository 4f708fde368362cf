package model

import "time"

// Category 网站分类
type Category string

const (
	CategoryProductivity  Category = "PRODUCTIVITY"
	CategoryDevTool       Category = "DEV_TOOL"
	CategoryDesign        Category = "DESIGN"
	CategoryMarketing     Category = "MARKETING"
	CategoryEducation     Category = "EDUCATION"
	CategoryFinance       Category = "FINANCE"
	CategoryHealth        Category = "HEALTH"
	CategoryAI            Category = "AI"
	CategoryEcommerce     Category = "ECOMMERCE"
	CategorySocial        Category = "SOCIAL"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryOther         Category = "OTHER"
)

type Website struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	WebsiteURL  string    `json:"websiteUrl"`
	IconURL     *string   `json:"iconUrl"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	IsVerified  bool      `json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WebsiteActivity 排行榜计算所需的聚合数据
type WebsiteActivity struct {
	Website
	TotalReviews int
	AvgRating    float64
	TotalUpvotes int
}

type LeaderboardEntry struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	WebsiteURL          string   `json:"websiteUrl"`
	IconURL             *string  `json:"iconUrl"`
	TotalReviews        int      `json:"totalReviews"`
	AvgRating           float64  `json:"avgRating"`
	TotalReviewsUpvotes int      `json:"totalReviewsUpvotes"`
	RankingScore        float64  `json:"rankingScore"`
	IsVerified          bool     `json:"isVerified"`
	Category            Category `json:"category"`
}
