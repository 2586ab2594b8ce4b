package items

import (
	"fmt"

	"github.com/svclab/itemsvc/internal/errs"
)

// Item is the stored representation of one inventory item.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// CreateRequest is the payload for creating an item.
type CreateRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// Validate checks the create payload against the item contract.
func (r *CreateRequest) Validate() error {
	if r.Name == "" {
		return errs.Validation("name is required")
	}
	if len(r.Name) > 100 {
		return errs.Validation("name must be at most 100 characters")
	}
	if len(r.Description) > 500 {
		return errs.Validation("description must be at most 500 characters")
	}
	if r.Price <= 0 {
		return errs.Validation("price must be greater than zero")
	}
	if r.Quantity < 0 {
		return errs.Validation("quantity must not be negative")
	}
	return nil
}

// UpdateRequest is the payload for a partial update. Nil fields are
// left untouched.
type UpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
}

// Validate checks the update payload against the item contract.
func (r *UpdateRequest) Validate() error {
	if r.Name != nil && (*r.Name == "" || len(*r.Name) > 100) {
		return errs.Validation("name must be between 1 and 100 characters")
	}
	if r.Description != nil && len(*r.Description) > 500 {
		return errs.Validation("description must be at most 500 characters")
	}
	if r.Price != nil && *r.Price <= 0 {
		return errs.Validation("price must be greater than zero")
	}
	if r.Quantity != nil && *r.Quantity < 0 {
		return errs.Validation("quantity must not be negative")
	}
	return nil
}

// PaginatedItems wraps one page of the item listing.
type PaginatedItems struct {
	Items    []Item `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Pages    int    `json:"pages"`
}

// NewPaginatedItems builds the listing wrapper for one page.
func NewPaginatedItems(items []Item, total, page, pageSize int) PaginatedItems {
	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return PaginatedItems{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    pages,
	}
}

// MessageResponse is a simple confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

func notFound(id string) error {
	return errs.NotFound(fmt.Sprintf("item with ID '%s' not found", id))
}
