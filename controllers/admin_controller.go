package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DavidAtikpo/firsty/models"
	"github.com/DavidAtikpo/firsty/services"
)

// AdminController serves the back office: merchant roster and the commission
// ledger with its payout toggle.
type AdminController struct {
	db        *mongo.Database
	affiliate *services.AffiliateService
}

func NewAdminController(db *mongo.Database, affiliate *services.AffiliateService) *AdminController {
	return &AdminController{db: db, affiliate: affiliate}
}

// GetMerchants lists all merchants with their account info and referred-order
// counts, newest first.
func (ac *AdminController) GetMerchants(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ac.db.Collection("merchants").Find(ctx, bson.M{}, opts)
	if err != nil {
		return ac.merchantsError(c)
	}
	merchants := []models.Merchant{}
	if err := cursor.All(ctx, &merchants); err != nil {
		return ac.merchantsError(c)
	}

	userIDs := make([]primitive.ObjectID, 0, len(merchants))
	for _, merchant := range merchants {
		userIDs = append(userIDs, merchant.UserID)
	}
	users, err := ac.usersByID(ctx, userIDs)
	if err != nil {
		return ac.merchantsError(c)
	}

	referralCounts, err := ac.referralCounts(ctx)
	if err != nil {
		return ac.merchantsError(c)
	}

	result := make([]bson.M, 0, len(merchants))
	for _, merchant := range merchants {
		user := users[merchant.UserID.Hex()]
		result = append(result, bson.M{
			"id":              merchant.ID.Hex(),
			"name":            user.Name,
			"email":           user.Email,
			"affiliateCode":   merchant.AffiliateCode,
			"commissionRate":  merchant.CommissionRate,
			"totalEarnings":   merchant.TotalEarnings,
			"pendingEarnings": merchant.PendingEarnings,
			"totalOrders":     referralCounts[merchant.ID.Hex()],
			"createdAt":       merchant.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status: http.StatusOK,
		Data:   result,
	})
}

func (ac *AdminController) merchantsError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Erreur lors de la récupération des commerçants",
	})
}

// referralCounts counts attributed orders per merchant in one aggregation.
func (ac *AdminController) referralCounts(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"merchantId": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{"_id": "$merchantId", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := ac.db.Collection("orders").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Count int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID.Hex()] = row.Count
	}
	return counts, nil
}

// GetCommissions lists the full commission ledger with order and merchant
// context, newest first.
func (ac *AdminController) GetCommissions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ac.db.Collection("commissions").Find(ctx, bson.M{}, opts)
	if err != nil {
		return ac.commissionsError(c)
	}
	commissions := []models.Commission{}
	if err := cursor.All(ctx, &commissions); err != nil {
		return ac.commissionsError(c)
	}

	orderIDs := make([]primitive.ObjectID, 0, len(commissions))
	merchantIDs := make([]primitive.ObjectID, 0, len(commissions))
	for _, commission := range commissions {
		orderIDs = append(orderIDs, commission.OrderID)
		merchantIDs = append(merchantIDs, commission.MerchantID)
	}

	orders, err := ac.ordersByID(ctx, orderIDs)
	if err != nil {
		return ac.commissionsError(c)
	}
	merchants, err := ac.merchantsByID(ctx, merchantIDs)
	if err != nil {
		return ac.commissionsError(c)
	}

	userIDs := make([]primitive.ObjectID, 0, len(merchants))
	for _, merchant := range merchants {
		userIDs = append(userIDs, merchant.UserID)
	}
	users, err := ac.usersByID(ctx, userIDs)
	if err != nil {
		return ac.commissionsError(c)
	}

	result := make([]bson.M, 0, len(commissions))
	for _, commission := range commissions {
		order := orders[commission.OrderID.Hex()]
		merchant := merchants[commission.MerchantID.Hex()]
		user := users[merchant.UserID.Hex()]
		result = append(result, bson.M{
			"id":             commission.ID.Hex(),
			"amount":         commission.Amount,
			"commissionRate": commission.CommissionRate,
			"isPaid":         commission.IsPaid,
			"paidAt":         commission.PaidAt,
			"createdAt":      commission.CreatedAt,
			"order": bson.M{
				"orderNumber":  order.OrderNumber,
				"totalAmount":  order.TotalAmount,
				"customerName": order.CustomerName,
				"status":       order.Status,
			},
			"merchant": bson.M{
				"name":          user.Name,
				"email":         user.Email,
				"affiliateCode": merchant.AffiliateCode,
			},
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status: http.StatusOK,
		Data:   result,
	})
}

func (ac *AdminController) commissionsError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Erreur lors de la récupération des commissions",
	})
}

// SetCommissionPaid toggles a commission's payout state. Repeating a request
// with the current state is a no-op.
func (ac *AdminController) SetCommissionPaid(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Commission non trouvée",
		})
	}

	var req models.CommissionPaidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Requête invalide",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Le champ isPaid est requis",
		})
	}

	if err := ac.affiliate.SetCommissionPaid(ctx, id, *req.IsPaid); err != nil {
		if err == services.ErrCommissionNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Commission non trouvée",
			})
		}
		c.Logger().Errorf("commission payout toggle failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la mise à jour de la commission",
		})
	}

	var commission models.Commission
	if err := ac.db.Collection("commissions").FindOne(ctx, bson.M{"_id": id}).Decode(&commission); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la mise à jour de la commission",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status: http.StatusOK,
		Data:   commission,
	})
}

func (ac *AdminController) ordersByID(ctx context.Context, ids []primitive.ObjectID) (map[string]models.Order, error) {
	result := make(map[string]models.Order, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	cursor, err := ac.db.Collection("orders").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	for _, order := range orders {
		result[order.ID.Hex()] = order
	}
	return result, nil
}

func (ac *AdminController) merchantsByID(ctx context.Context, ids []primitive.ObjectID) (map[string]models.Merchant, error) {
	result := make(map[string]models.Merchant, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	cursor, err := ac.db.Collection("merchants").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	merchants := []models.Merchant{}
	if err := cursor.All(ctx, &merchants); err != nil {
		return nil, err
	}
	for _, merchant := range merchants {
		result[merchant.ID.Hex()] = merchant
	}
	return result, nil
}

func (ac *AdminController) usersByID(ctx context.Context, ids []primitive.ObjectID) (map[string]models.User, error) {
	result := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	cursor, err := ac.db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, user := range users {
		result[user.ID.Hex()] = user
	}
	return result, nil
}
