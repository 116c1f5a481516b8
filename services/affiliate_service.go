// services/affiliate_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DavidAtikpo/firsty/config"
	"github.com/DavidAtikpo/firsty/models"
	"github.com/DavidAtikpo/firsty/utils"
	"github.com/DavidAtikpo/firsty/websocket"
)

// AttributionWindow is how long an affiliate click (and the matching cookie)
// can attribute an order to a merchant.
const AttributionWindow = 30 * 24 * time.Hour

// AffiliateCookieName is the cookie holding the raw referral code.
const AffiliateCookieName = "affiliate_code"

// AffiliateCookieMaxAge is the attribution cookie lifetime in seconds.
const AffiliateCookieMaxAge = int(AttributionWindow / time.Second)

var (
	ErrCodeNotFound       = errors.New("affiliate code not found")
	ErrCommissionNotFound = errors.New("commission not found")
	ErrProductNotFound    = errors.New("product not found")
)

// InsufficientStockError carries the product name for the user-facing message.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}

// AffiliateService runs the attribution and settlement workflow: code
// resolution, click recording, order creation with commission calculation,
// conversion marking and payout toggling.
type AffiliateService struct {
	client *mongo.Client
	db     *mongo.Database
	hub    *websocket.Hub
}

func NewAffiliateService(client *mongo.Client, hub *websocket.Hub) *AffiliateService {
	return &AffiliateService{
		client: client,
		db:     client.Database(config.DatabaseName()),
		hub:    hub,
	}
}

// MerchantByCode resolves an affiliate code to its merchant.
func (s *AffiliateService) MerchantByCode(ctx context.Context, code string) (*models.Merchant, error) {
	var merchant models.Merchant
	err := s.db.Collection("merchants").FindOne(ctx, bson.M{"affiliateCode": code}).Decode(&merchant)
	if err == mongo.ErrNoDocuments {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

// RecordClick persists one tracked visit through the merchant's link.
func (s *AffiliateService) RecordClick(ctx context.Context, merchantID primitive.ObjectID, ip, userAgent, referer string) error {
	click := models.AffiliateClick{
		MerchantID: merchantID,
		IPAddress:  ip,
		UserAgent:  userAgent,
		Referer:    referer,
		Converted:  false,
		CreatedAt:  time.Now(),
	}
	_, err := s.db.Collection("affiliateClicks").InsertOne(ctx, click)
	return err
}

// ResolveAttribution maps the affiliate cookie value to a merchant. A missing,
// unknown or stale code is not an error: the order simply proceeds as a
// direct sale.
func (s *AffiliateService) ResolveAttribution(ctx context.Context, code string) *models.Merchant {
	if code == "" {
		return nil
	}
	merchant, err := s.MerchantByCode(ctx, code)
	if err != nil {
		return nil
	}
	return merchant
}

// PlaceOrder creates an order for customer. Stock decrement, order insert,
// commission creation and the merchant balance increment all commit in one
// transaction; a failure anywhere leaves no partial state. Conversion marking
// and the merchant notification run best-effort after commit.
func (s *AffiliateService) PlaceOrder(ctx context.Context, customer models.AuthUser, req models.CreateOrderRequest, affiliateCode string) (*models.Order, error) {
	customerID, err := primitive.ObjectIDFromHex(customer.ID)
	if err != nil {
		return nil, err
	}

	products, err := s.loadProducts(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	items, totalAmount, err := buildOrderItems(req.Items, products)
	if err != nil {
		return nil, err
	}

	merchant := s.ResolveAttribution(ctx, affiliateCode)

	orderNumber, err := utils.GenerateOrderNumber()
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:              primitive.NewObjectID(),
		OrderNumber:     orderNumber,
		CustomerID:      customerID,
		TotalAmount:     totalAmount,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
		Status:          models.OrderStatusPending,
		Items:           items,
		CreatedAt:       time.Now(),
	}
	if merchant != nil {
		order.MerchantID = &merchant.ID
	}

	session, err := s.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// Guarded decrement: the stock >= quantity filter makes concurrent
		// orders for the same product serialize instead of overselling.
		for _, item := range order.Items {
			res, err := s.db.Collection("products").UpdateOne(sc,
				bson.M{"_id": item.ProductID, "stock": bson.M{"$gte": item.Quantity}},
				bson.M{"$inc": bson.M{"stock": -item.Quantity}},
			)
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				return nil, &InsufficientStockError{ProductName: products[item.ProductID.Hex()].Name}
			}
		}

		if _, err := s.db.Collection("orders").InsertOne(sc, order); err != nil {
			return nil, err
		}

		if merchant != nil {
			if err := s.createCommission(sc, order, merchant); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	if merchant != nil {
		s.markLatestClickConverted(ctx, merchant.ID)
		s.notifyMerchant(merchant.UserID, websocket.Notification{
			Type: websocket.NotificationTypeNewCommission,
			Message: fmt.Sprintf("Nouvelle commission de %.2f€ pour la commande %s",
				utils.CommissionAmount(order.TotalAmount, merchant.CommissionRate), order.OrderNumber),
			Data: bson.M{"orderNumber": order.OrderNumber},
		})
	}

	return order, nil
}

// createCommission inserts the ledger entry and increments the merchant's
// pending balance. Runs inside the order transaction; both writes land or
// neither does.
func (s *AffiliateService) createCommission(sc mongo.SessionContext, order *models.Order, merchant *models.Merchant) error {
	amount := utils.CommissionAmount(order.TotalAmount, merchant.CommissionRate)
	commission := models.Commission{
		OrderID:        order.ID,
		MerchantID:     merchant.ID,
		Amount:         amount,
		CommissionRate: merchant.CommissionRate,
		IsPaid:         false,
		CreatedAt:      time.Now(),
	}
	if _, err := s.db.Collection("commissions").InsertOne(sc, commission); err != nil {
		return err
	}

	_, err := s.db.Collection("merchants").UpdateByID(sc, merchant.ID,
		bson.M{"$inc": bson.M{"pendingEarnings": amount}})
	return err
}

// SetCommissionPaid toggles a commission between UNPAID and PAID and moves the
// amount between the merchant's pending and total balances in the same
// transaction. Requesting the state the commission is already in is a no-op,
// so repeated calls never double-count.
func (s *AffiliateService) SetCommissionPaid(ctx context.Context, commissionID primitive.ObjectID, paid bool) error {
	var merchantUserID primitive.ObjectID
	var notify bool

	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var commission models.Commission
		err := s.db.Collection("commissions").FindOne(sc, bson.M{"_id": commissionID}).Decode(&commission)
		if err == mongo.ErrNoDocuments {
			return nil, ErrCommissionNotFound
		}
		if err != nil {
			return nil, err
		}

		change, ok := payoutTransition(commission, paid, time.Now())
		if !ok {
			return nil, nil
		}

		_, err = s.db.Collection("commissions").UpdateByID(sc, commission.ID, bson.M{
			"$set": bson.M{"isPaid": paid, "paidAt": change.PaidAt},
		})
		if err != nil {
			return nil, err
		}

		_, err = s.db.Collection("merchants").UpdateByID(sc, commission.MerchantID, bson.M{
			"$inc": bson.M{
				"pendingEarnings": change.PendingDelta,
				"totalEarnings":   change.TotalDelta,
			},
		})
		if err != nil {
			return nil, err
		}

		if paid {
			var merchant models.Merchant
			if err := s.db.Collection("merchants").FindOne(sc, bson.M{"_id": commission.MerchantID}).Decode(&merchant); err == nil {
				merchantUserID = merchant.UserID
				notify = true
			}
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	if notify {
		s.notifyMerchant(merchantUserID, websocket.Notification{
			Type:    websocket.NotificationTypeCommissionPaid,
			Message: "Votre commission a été payée",
		})
	}
	return nil
}

// markLatestClickConverted flips the most recent unconverted click for the
// merchant inside the attribution window. Best-effort: multiple clicks before
// a single order leave the earlier ones untouched, and no matching click is
// not an error.
func (s *AffiliateService) markLatestClickConverted(ctx context.Context, merchantID primitive.ObjectID) {
	filter := bson.M{
		"merchantId": merchantID,
		"converted":  false,
		"createdAt":  bson.M{"$gte": conversionCutoff(time.Now())},
	}
	opts := options.FindOneAndUpdate().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	err := s.db.Collection("affiliateClicks").
		FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"converted": true}}, opts).
		Err()
	if err != nil && err != mongo.ErrNoDocuments {
		log.Printf("Error marking click converted for merchant %s: %v", merchantID.Hex(), err)
	}
}

func (s *AffiliateService) notifyMerchant(userID primitive.ObjectID, notification websocket.Notification) {
	if s.hub == nil {
		return
	}
	// Delivery is opportunistic; the dashboard also polls notifications.
	_ = s.hub.SendToUser(userID, notification)
}

func (s *AffiliateService) loadProducts(ctx context.Context, items []models.OrderItemRequest) (map[string]models.Product, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, ErrProductNotFound
		}
		ids = append(ids, id)
	}

	cursor, err := s.db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	byID := make(map[string]models.Product, len(products))
	for _, product := range products {
		byID[product.ID.Hex()] = product
	}
	return byID, nil
}

// payoutChange describes the balance movement for a payout toggle.
type payoutChange struct {
	PendingDelta float64
	TotalDelta   float64
	PaidAt       *time.Time
}

// payoutTransition computes the state change for setting a commission's paid
// flag. Returns ok=false when the commission is already in the requested
// state, in which case no balances move.
func payoutTransition(commission models.Commission, wantPaid bool, now time.Time) (payoutChange, bool) {
	if commission.IsPaid == wantPaid {
		return payoutChange{}, false
	}
	if wantPaid {
		return payoutChange{
			PendingDelta: -commission.Amount,
			TotalDelta:   commission.Amount,
			PaidAt:       &now,
		}, true
	}
	return payoutChange{
		PendingDelta: commission.Amount,
		TotalDelta:   -commission.Amount,
	}, true
}

// conversionCutoff is the oldest click creation time still eligible for
// conversion marking.
func conversionCutoff(now time.Time) time.Time {
	return now.Add(-AttributionWindow)
}

// buildOrderItems snapshots current product prices into order items and
// returns the order total. The total equals the sum of item price x quantity
// at creation time, decoupled from later price changes.
func buildOrderItems(items []models.OrderItemRequest, products map[string]models.Product) ([]models.OrderItem, float64, error) {
	orderItems := make([]models.OrderItem, 0, len(items))
	total := 0.0
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, 0, ErrProductNotFound
		}
		if product.Stock < item.Quantity {
			return nil, 0, &InsufficientStockError{ProductName: product.Name}
		}
		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}
	return orderItems, utils.RoundMoney(total), nil
}
