package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Variant is a purchasable unit/weight/price combination. Variants have no
// identity of their own; cart and order lines address them by position.
type Variant struct {
	Unit       string  `bson:"unit" json:"unit" binding:"required"`
	Weight     float64 `bson:"weight" json:"weight" binding:"required,gte=0"`
	Price      float64 `bson:"price" json:"price" binding:"required,gte=0"`
	OfferPrice float64 `bson:"offerPrice" json:"offerPrice" binding:"required,gte=0"`
}

type Product struct {
	Id          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string        `bson:"name" json:"name"`
	Description []string      `bson:"description" json:"description"`
	Image       []string      `bson:"image" json:"image"`
	Category    bson.ObjectID `bson:"category" json:"category"`
	Variants    []Variant     `bson:"variants" json:"variants"`
	InStock     bool          `bson:"inStock" json:"inStock"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// VariantAt returns the variant at the given position, nil when out of range.
func (p *Product) VariantAt(index int) *Variant {
	if index < 0 || index >= len(p.Variants) {
		return nil
	}
	return &p.Variants[index]
}
