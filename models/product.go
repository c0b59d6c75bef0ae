package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Product struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string        `bson:"name" json:"name"`
	Slug           string        `bson:"slug" json:"slug"`
	Description    string        `bson:"description,omitempty" json:"description,omitempty"`
	Specifications string        `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Price          float64       `bson:"price" json:"price"`
	Stock          int           `bson:"stock" json:"stock"`
	ImageUrls      []string      `bson:"imageUrls" json:"imageUrls"`
	IsDisabled     bool          `bson:"isDisabled" json:"isDisabled"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time     `bson:"updatedAt" json:"updatedAt"`
}
