package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InventoryItem represents a catalog entry in the parts ledger. It doubles as
// the price lookup table for part-request approval.
type InventoryItem struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Price     float64            `json:"price" bson:"price"`
	Stock     int                `json:"stock" bson:"stock"`
	Category  string             `json:"category" bson:"category"`
	Tags      []string           `json:"tags" bson:"tags"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsLowStock reports whether the item's stock has fallen to or below the
// given threshold.
func (i *InventoryItem) IsLowStock(threshold int) bool {
	return i.Stock <= threshold
}
