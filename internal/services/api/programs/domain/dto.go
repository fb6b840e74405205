package domain

import "time"

// QueryInput carries listing filters; GET query params and the POST body
// decode into the same shape
type QueryInput struct {
	Query       string `json:"q,omitempty"            validate:"omitempty,max=200"        example:"serum"`
	Category    string `json:"category,omitempty"     validate:"omitempty,max=40"         example:"Exchange"`
	SubCategory string `json:"sub_category,omitempty" validate:"omitempty,max=60"         example:"AMM"`
	Language    string `json:"language,omitempty"     validate:"omitempty,max=40"         example:"Rust"`
	MinStars    int    `json:"min_stars,omitempty"    validate:"omitempty,min=0"          example:"50"`
	MaxStars    int    `json:"max_stars,omitempty"    validate:"omitempty,min=0"          example:"5000"`
	Sort        string `json:"sort,omitempty"         validate:"omitempty,oneof=stars updated name" example:"stars"`
	Page        int    `json:"page,omitempty"         validate:"omitempty,min=1"          example:"1"`
	Size        int    `json:"size,omitempty"         validate:"omitempty,min=1,max=100"  example:"50"`
}

// Page is the paginated listing envelope
type Page struct {
	Items     []Program `json:"items"`
	Total     int       `json:"total"      example:"312"`
	Page      int       `json:"page"       example:"1"`
	Size      int       `json:"size"       example:"50"`
	ScrapedAt time.Time `json:"scraped_at" example:"2025-11-02T03:00:00Z"`
}

// CategoryCount pairs a category label with its record count
type CategoryCount struct {
	Category string `json:"category" example:"Exchange"`
	Count    int    `json:"count"    example:"87"`
}

// ArchiveOutput carries the downloadable archive location for a repository
type ArchiveOutput struct {
	FullName string `json:"full_name" example:"project-serum/serum-dex"`
	URL      string `json:"url"       example:"https://github.com/project-serum/serum-dex/archive/refs/heads/master.zip"`
}

// RemoveOutput reports an operator removal
type RemoveOutput struct {
	FullName string `json:"full_name" example:"project-serum/serum-dex"`
	Removed  bool   `json:"removed"   example:"true"`
}
