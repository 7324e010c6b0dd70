package categories

// CreateCategory is the payload for creating a category.
type CreateCategory struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// UpdateCategory carries a partial update.
type UpdateCategory struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}
