package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	Stock       int                `json:"stock" bson:"stock"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	CategoryID  string             `json:"categoryId,omitempty" bson:"categoryId,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}
