// models/user.go

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleCustomer = "CUSTOMER"
	RoleMerchant = "MERCHANT"
	RoleAdmin    = "ADMIN"
)

type User struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	Name      string             `json:"name" bson:"name"`
	Role      string             `json:"role" bson:"role"` // "CUSTOMER", "MERCHANT", "ADMIN"
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// AuthUser is the authenticated identity stored in the server-side session.
// MerchantID and AffiliateCode are only set for merchant accounts.
type AuthUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	MerchantID    string `json:"merchantId,omitempty"`
	AffiliateCode string `json:"affiliateCode,omitempty"`
}
