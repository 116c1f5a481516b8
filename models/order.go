package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses
const (
	OrderStatusPending    = "PENDING"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// OrderItem snapshots the product price at purchase time, so later price
// changes never alter an existing order's total.
type OrderItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Price     float64            `json:"price" bson:"price"`
}

type Order struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	OrderNumber     string              `json:"orderNumber" bson:"orderNumber"`
	CustomerID      primitive.ObjectID  `json:"customerId" bson:"customerId"`
	MerchantID      *primitive.ObjectID `json:"merchantId,omitempty" bson:"merchantId,omitempty"`
	TotalAmount     float64             `json:"totalAmount" bson:"totalAmount"`
	CustomerName    string              `json:"customerName" bson:"customerName"`
	CustomerEmail   string              `json:"customerEmail" bson:"customerEmail"`
	ShippingAddress string              `json:"shippingAddress" bson:"shippingAddress"`
	Status          string              `json:"status" bson:"status"`
	Items           []OrderItem         `json:"items" bson:"items"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
}

// ValidOrderStatus reports whether s is one of the order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
