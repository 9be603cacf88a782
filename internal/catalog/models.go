package catalog

import "time"

// City is a reference row used to localize listings.
type City struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Category is a reference row used to classify listings.
type Category struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
