package list

import (
	"errors"
	"time"

	"github.com/wichananm65/grocery-list-backend/internal/product"
)

var (
	ErrNotFound           = errors.New("list not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrItemTargetRequired = errors.New("productId or customName is required")
	ErrInvalidQuantity    = errors.New("quantity must be >= 0")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidName        = errors.New("name must be 1-100 characters")
)

const (
	DefaultName       = "New Shopping List"
	DefaultActiveName = "My Shopping List"
	MaxNameLength     = 100
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Item is a line of a list. It references a product of the owner's catalog
// or carries a free-text CustomName. Product is filled in on read and stays
// nil when the product was deleted.
type Item struct {
	ID          string           `json:"_id"`
	ProductID   string           `json:"productId,omitempty"`
	Product     *product.Product `json:"product"`
	Quantity    float64          `json:"quantity"`
	IsPurchased bool             `json:"isPurchased"`
	CustomName  string           `json:"customName,omitempty"`
}

type List struct {
	ID        string    `json:"_id"`
	OwnerID   string    `json:"owner"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddItemRequest is the body of POST /api/lists/:id/items.
type AddItemRequest struct {
	ProductID  string         `json:"productId"`
	CustomName string         `json:"customName"`
	Quantity   product.Number `json:"quantity"`
}

// UpdateItemRequest is the body of PATCH /api/lists/:id/items/:itemId.
type UpdateItemRequest struct {
	Quantity    product.Number `json:"quantity"`
	IsPurchased *bool          `json:"isPurchased"`
}

// PatchRequest is the body of PATCH /api/lists/:id.
type PatchRequest struct {
	Name   *string `json:"name"`
	Status *Status `json:"status"`
}
