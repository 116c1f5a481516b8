package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Merchant is an affiliate partner profile attached to a MERCHANT user.
// PendingEarnings accumulates unpaid commissions, TotalEarnings paid-out ones;
// the sum of both must always equal the sum of the merchant's commission rows.
type Merchant struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	AffiliateCode   string             `json:"affiliateCode" bson:"affiliateCode"`
	CommissionRate  float64            `json:"commissionRate" bson:"commissionRate"` // percent
	TotalEarnings   float64            `json:"totalEarnings" bson:"totalEarnings"`
	PendingEarnings float64            `json:"pendingEarnings" bson:"pendingEarnings"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

// DefaultCommissionRate applies to newly registered merchants.
const DefaultCommissionRate = 10.0
