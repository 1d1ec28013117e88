package domain

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"priceCents"`
	Stock       int       `json:"stock"`
	ImageURLs   []string  `json:"imageUrls,omitempty"`
	CategoryID  string    `json:"categoryId"`
	MaxPerOrder *int      `json:"maxPerOrder,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
