package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Commission is a ledger entry tying one order to one merchant. Exactly one
// entry exists per attributed order; the commissions collection enforces this
// with a unique index on orderId. CommissionRate is snapshotted at creation.
type Commission struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OrderID        primitive.ObjectID `json:"orderId" bson:"orderId"`
	MerchantID     primitive.ObjectID `json:"merchantId" bson:"merchantId"`
	Amount         float64            `json:"amount" bson:"amount"`
	CommissionRate float64            `json:"commissionRate" bson:"commissionRate"`
	IsPaid         bool               `json:"isPaid" bson:"isPaid"`
	PaidAt         *time.Time         `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
}
