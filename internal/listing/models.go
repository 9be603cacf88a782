package listing

// Listing represents a marketplace listing row.
type Listing struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

// CreateInput carries data for listing creation.
type CreateInput struct {
	Title       string
	Description *string
	Price       *float64
}

// UpdateInput carries a partial listing update. Nil fields are left
// untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	Price       *float64
}
