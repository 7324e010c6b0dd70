package categories

import "time"

// Entity is the resource name on the upstream API and the cache key entity.
const Entity = "categories"

// Category groups products under a unique name.
type Category struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}
