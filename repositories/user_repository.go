package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DavidAtikpo/firsty/config"
	"github.com/DavidAtikpo/firsty/models"
	"github.com/DavidAtikpo/firsty/utils"
)

var (
	ErrEmailTaken   = errors.New("email already in use")
	ErrUserNotFound = errors.New("user not found")
)

// maxCodeAttempts bounds the generate-check-retry loop for affiliate codes.
// The unique index on merchants.affiliateCode is the backstop.
const maxCodeAttempts = 5

type UserRepository struct {
	users     *mongo.Collection
	merchants *mongo.Collection
}

func NewUserRepository(client *mongo.Client) *UserRepository {
	db := client.Database(config.DatabaseName())
	return &UserRepository{
		users:     db.Collection("users"),
		merchants: db.Collection("merchants"),
	}
}

// FindByEmail returns the user registered under email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create registers a new user with a hashed password. Merchant accounts also
// get a merchant profile holding a fresh unique affiliate code.
func (r *UserRepository) Create(ctx context.Context, email, password, name, role string) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Password:  hash,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if role == models.RoleMerchant {
		if _, err := r.createMerchantProfile(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// createMerchantProfile inserts the merchant record, retrying code generation
// when a collision hits the unique index.
func (r *UserRepository) createMerchantProfile(ctx context.Context, userID primitive.ObjectID) (*models.Merchant, error) {
	var lastErr error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := utils.GenerateAffiliateCode()
		if err != nil {
			return nil, err
		}

		count, err := r.merchants.CountDocuments(ctx, bson.M{"affiliateCode": code})
		if err != nil {
			return nil, err
		}
		if count > 0 {
			continue
		}

		merchant := &models.Merchant{
			ID:             primitive.NewObjectID(),
			UserID:         userID,
			AffiliateCode:  code,
			CommissionRate: models.DefaultCommissionRate,
			CreatedAt:      time.Now(),
		}
		if _, err := r.merchants.InsertOne(ctx, merchant); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return merchant, nil
	}
	if lastErr == nil {
		lastErr = errors.New("could not generate a unique affiliate code")
	}
	return nil, lastErr
}

// MerchantByUserID returns the merchant profile owned by userID.
func (r *UserRepository) MerchantByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Merchant, error) {
	var merchant models.Merchant
	err := r.merchants.FindOne(ctx, bson.M{"userId": userID}).Decode(&merchant)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}
