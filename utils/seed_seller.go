package utils

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/farmpick/backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func SeedSellerUser(ctx context.Context, usersCol *mongo.Collection) error {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("SELLER_EMAIL")))
	pass := os.Getenv("SELLER_PASSWORD")

	if email == "" || pass == "" {
		return fmt.Errorf("missing SELLER_EMAIL or SELLER_PASSWORD env vars")
	}

	hash, err := HashPassword(pass)
	if err != nil {
		return fmt.Errorf("hash seller password: %w", err)
	}

	now := time.Now().UTC()

	// Only insert if it doesn't exist
	filter := bson.M{"email": email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":         "Seller",
			"email":        email,
			"passwordHash": hash,
			"role":         models.RoleSeller,
			"cartItems":    bson.M{},
			"cartVersion":  int64(0),
			"createdAt":    now,
			"updatedAt":    now,
		},
	}

	opts := options.UpdateOne().SetUpsert(true)

	res, err := usersCol.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("seed seller upsert failed: %w", err)
	}

	if res.UpsertedCount == 1 {
		fmt.Println("Seller user seeded:", email)
	} else {
		fmt.Println("Seller user already exists:", email)
	}

	return nil
}
