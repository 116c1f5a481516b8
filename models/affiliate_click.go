package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AffiliateClick is a single tracked visit through a merchant's referral link.
// Converted flips to true (once, never back) when an order materializes from
// this merchant's attribution within the 30-day window.
type AffiliateClick struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	MerchantID primitive.ObjectID `json:"merchantId" bson:"merchantId"`
	IPAddress  string             `json:"ipAddress,omitempty" bson:"ipAddress,omitempty"`
	UserAgent  string             `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
	Referer    string             `json:"referer,omitempty" bson:"referer,omitempty"`
	Converted  bool               `json:"converted" bson:"converted"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}
