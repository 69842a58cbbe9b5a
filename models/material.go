package models

import "time"

// SalesMaterial is one downloadable asset from the sales-materials library.
type SalesMaterial struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	FileURL     string    `json:"file_url,omitempty"`
	PreviewURL  string    `json:"preview_url,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// Logo maps a customer domain to the branding shown on the login page.
type Logo struct {
	ID       int    `json:"id"`
	Domain   string `json:"domain"`
	Title    string `json:"title,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}
