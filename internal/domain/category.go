package domain

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	ParentID    *string   `json:"parentCategoryId,omitempty"`
	Parent      *Category `json:"parentCategory,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
