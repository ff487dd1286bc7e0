package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleUser   Role = "USER"
	RoleSeller Role = "SELLER"
)

// User carries the server-side mirror of the session cart: a map from
// "productId|variantIndex" keys to positive quantities, plus the monotonic
// version of the last accepted sync. The version travels to the client so a
// new session can keep counting where the previous one stopped.
type User struct {
	ID           bson.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Name         string         `bson:"name" json:"name"`
	Email        string         `bson:"email" json:"email"`
	PasswordHash string         `bson:"passwordHash" json:"-"` // never expose
	Role         Role           `bson:"role" json:"role"`
	CartItems    map[string]int `bson:"cartItems" json:"cartItems"`
	CartVersion  int64          `bson:"cartVersion" json:"cartVersion"`
	CreatedAt    time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time      `bson:"updatedAt" json:"updatedAt"`
}
