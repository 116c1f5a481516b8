package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DavidAtikpo/firsty/middleware"
	"github.com/DavidAtikpo/firsty/models"
	"github.com/DavidAtikpo/firsty/utils"
)

// MerchantController serves the merchant dashboard: stats, chart data,
// notifications, payment history and CSV exports. Every endpoint is scoped to
// the session merchant's own data.
type MerchantController struct {
	db *mongo.Database
}

func NewMerchantController(db *mongo.Database) *MerchantController {
	return &MerchantController{db: db}
}

// merchantFromSession loads the merchant profile backing the session user.
func (mc *MerchantController) merchantFromSession(ctx context.Context, c echo.Context) (*models.Merchant, error) {
	user := middleware.CurrentUser(c)

	var filter bson.M
	if user.MerchantID != "" {
		id, err := primitive.ObjectIDFromHex(user.MerchantID)
		if err != nil {
			return nil, err
		}
		filter = bson.M{"_id": id}
	} else {
		userID, err := primitive.ObjectIDFromHex(user.ID)
		if err != nil {
			return nil, err
		}
		filter = bson.M{"userId": userID}
	}

	var merchant models.Merchant
	if err := mc.db.Collection("merchants").FindOne(ctx, filter).Decode(&merchant); err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (mc *MerchantController) merchantNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, models.Response{
		Status:  http.StatusNotFound,
		Message: "Commerçant non trouvé",
	})
}

// GetStats returns the dashboard summary: earnings, referred orders, revenue
// and pending commissions.
func (mc *MerchantController) GetStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	merchant, err := mc.merchantFromSession(ctx, c)
	if err != nil {
		return mc.merchantNotFound(c)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := mc.db.Collection("orders").Find(ctx, bson.M{"merchantId": merchant.ID}, opts)
	if err != nil {
		return mc.statsError(c)
	}
	referrals := []models.Order{}
	if err := cursor.All(ctx, &referrals); err != nil {
		return mc.statsError(c)
	}

	cursor, err = mc.db.Collection("commissions").Find(ctx, bson.M{"merchantId": merchant.ID, "isPaid": false})
	if err != nil {
		return mc.statsError(c)
	}
	pendingCommissions := []models.Commission{}
	if err := cursor.All(ctx, &pendingCommissions); err != nil {
		return mc.statsError(c)
	}

	totalRevenue := 0.0
	for _, order := range referrals {
		totalRevenue += order.TotalAmount
	}

	recentOrders := referrals
	if len(recentOrders) > 10 {
		recentOrders = recentOrders[:10]
	}

	return c.JSON(http.StatusOK, models.Response{
		Status: http.StatusOK,
		Data: bson.M{
			"affiliateCode":      merchant.AffiliateCode,
			"commissionRate":     merchant.CommissionRate,
			"totalEarnings":      merchant.TotalEarnings,
			"pendingEarnings":    merchant.PendingEarnings,
			"totalOrders":        len(referrals),
			"totalRevenue":       totalRevenue,
			"recentOrders":       recentOrders,
			"pendingCommissions": pendingCommissions,
		},
	})
}

func (mc *MerchantController) statsError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Erreur lors de la récupération des statistiques",
	})
}

// GetChartData returns the last 30 days of referred orders bucketed per day.
func (mc *MerchantController) GetChartData(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	merchant, err := mc.merchantFromSession(ctx, c)
	if err != nil {
		return mc.merchantNotFound(c)
	}

	since := time.Now().AddDate(0, 0, -30)
	cursor, err := mc.db.Collection("orders").Find(ctx, bson.M{
		"merchantId": merchant.ID,
		"createdAt":  bson.M{"$gte": since},
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la récupération des données",
		})
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la récupération des données",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status: http.StatusOK,
		Data:   utils.DailyChartData(orders, merchant.CommissionRate, time.Now()),
	})
}

// GetNotifications formats the merchant's commissions from the last 7 days as
// dashboard notifications, 10 most recent first.
func (mc *MerchantController) GetNotifications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	merchant, err := mc.merchantFromSession(ctx, c)
	if err != nil {
		return mc.merchantNotFound(c)
	}

	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(10)
	cursor, err := mc.db.Collection("commissions").Find(ctx, bson.M{
		"merchantId": merchant.ID,
		"createdAt":  bson.M{"$gte": sevenDaysAgo},
	}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la récupération des notifications",
		})
	}
	commissions := []models.Commission{}
	if err := cursor.All(ctx, &commissions); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la récupération des notifications",
		})
	}

	orders, err := mc.ordersByID(ctx, commissionOrderIDs(commissions))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la récupération des notifications",
		})
	}

	notifications := make([]bson.M, 0, len(commissions))
	for _, commission := range commissions {
		order := orders[commission.OrderID.Hex()]
		notificationType := "new_commission"
		message := fmt.Sprintf("Nouvelle commission de %.2f€ pour la commande %s", commission.Amount, order.OrderNumber)
		if commission.IsPaid {
			notificationType = "paid"
			message = fmt.Sprintf("Commission de %.2f€ payée pour la commande %s", commission.Amount, order.OrderNumber)
		}
		notifications = append(notifications, bson.M{
			"id":          commission.ID.Hex(),
			"type":        notificationType,
			"message":     message,
			"amount":      commission.Amount,
			"orderNumber": order.OrderNumber,
			"createdAt":   commission.CreatedAt,
			"isPaid":      commission.IsPaid,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status: http.StatusOK,
		Data:   notifications,
	})
}

// GetPayments lists paid commissions, most recently paid first.
func (mc *MerchantController) GetPayments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	merchant, err := mc.merchantFromSession(ctx, c)
	if err != nil {
		return mc.merchantNotFound(c)
	}

	opts := options.Find().SetSort(bson.D{{Key: "paidAt", Value: -1}})
	cursor, err := mc.db.Collection("commissions").Find(ctx, bson.M{
		"merchantId": merchant.ID,
		"isPaid":     true,
	}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la récupération des paiements",
		})
	}
	commissions := []models.Commission{}
	if err := cursor.All(ctx, &commissions); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la récupération des paiements",
		})
	}

	orders, err := mc.ordersByID(ctx, commissionOrderIDs(commissions))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la récupération des paiements",
		})
	}

	payments := make([]bson.M, 0, len(commissions))
	for _, commission := range commissions {
		order := orders[commission.OrderID.Hex()]
		payments = append(payments, bson.M{
			"id":             commission.ID.Hex(),
			"amount":         commission.Amount,
			"commissionRate": commission.CommissionRate,
			"paidAt":         commission.PaidAt,
			"createdAt":      commission.CreatedAt,
			"order": bson.M{
				"orderNumber":  order.OrderNumber,
				"totalAmount":  order.TotalAmount,
				"customerName": order.CustomerName,
			},
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status: http.StatusOK,
		Data:   payments,
	})
}

// Export streams a CSV of the merchant's orders, commissions, clicks or
// summary stats depending on ?type=.
func (mc *MerchantController) Export(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	merchant, err := mc.merchantFromSession(ctx, c)
	if err != nil {
		return mc.merchantNotFound(c)
	}

	exportType := c.QueryParam("type")
	if exportType == "" {
		exportType = "stats"
	}

	desc := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := mc.db.Collection("orders").Find(ctx, bson.M{"merchantId": merchant.ID}, desc)
	if err != nil {
		return mc.exportError(c)
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return mc.exportError(c)
	}

	var content string
	switch exportType {
	case "orders":
		productNames, err := mc.productNames(ctx, orders)
		if err != nil {
			return mc.exportError(c)
		}
		content = utils.OrdersCSV(orders, productNames)
	case "commissions":
		cursor, err := mc.db.Collection("commissions").Find(ctx, bson.M{"merchantId": merchant.ID}, desc)
		if err != nil {
			return mc.exportError(c)
		}
		commissions := []models.Commission{}
		if err := cursor.All(ctx, &commissions); err != nil {
			return mc.exportError(c)
		}
		orderMap, err := mc.ordersByID(ctx, commissionOrderIDs(commissions))
		if err != nil {
			return mc.exportError(c)
		}
		content = utils.CommissionsCSV(commissions, orderMap)
	case "clicks":
		clicks, err := mc.merchantClicks(ctx, merchant.ID)
		if err != nil {
			return mc.exportError(c)
		}
		content = utils.ClicksCSV(clicks)
	default:
		clicks, err := mc.merchantClicks(ctx, merchant.ID)
		if err != nil {
			return mc.exportError(c)
		}
		content = utils.StatsCSV(*merchant, orders, clicks)
	}

	filename := utils.ExportFilename(exportType, time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "text/csv;charset=utf-8", []byte(content))
}

func (mc *MerchantController) exportError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Erreur lors de l'export",
	})
}

func (mc *MerchantController) merchantClicks(ctx context.Context, merchantID primitive.ObjectID) ([]models.AffiliateClick, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := mc.db.Collection("affiliateClicks").Find(ctx, bson.M{"merchantId": merchantID}, opts)
	if err != nil {
		return nil, err
	}
	clicks := []models.AffiliateClick{}
	if err := cursor.All(ctx, &clicks); err != nil {
		return nil, err
	}
	return clicks, nil
}

// ordersByID fetches the referenced orders keyed by hex ID.
func (mc *MerchantController) ordersByID(ctx context.Context, ids []primitive.ObjectID) (map[string]models.Order, error) {
	result := make(map[string]models.Order, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	cursor, err := mc.db.Collection("orders").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
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

func (mc *MerchantController) productNames(ctx context.Context, orders []models.Order) (map[string]string, error) {
	seen := make(map[string]bool)
	ids := []primitive.ObjectID{}
	for _, order := range orders {
		for _, item := range order.Items {
			if !seen[item.ProductID.Hex()] {
				seen[item.ProductID.Hex()] = true
				ids = append(ids, item.ProductID)
			}
		}
	}

	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	cursor, err := mc.db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	for _, product := range products {
		names[product.ID.Hex()] = product.Name
	}
	return names, nil
}

func commissionOrderIDs(commissions []models.Commission) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(commissions))
	for _, commission := range commissions {
		ids = append(ids, commission.OrderID)
	}
	return ids
}
