package controllers

import (
	"context"
	"errors"
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
	"github.com/DavidAtikpo/firsty/repositories"
	"github.com/DavidAtikpo/firsty/services"
)

// OrderController handles order listing, checkout and status updates.
// Checkout delegates the transactional part (stock, order, commission) to the
// affiliate service.
type OrderController struct {
	db        *mongo.Database
	userRepo  *repositories.UserRepository
	affiliate *services.AffiliateService
}

func NewOrderController(db *mongo.Database, userRepo *repositories.UserRepository, affiliate *services.AffiliateService) *OrderController {
	return &OrderController{db: db, userRepo: userRepo, affiliate: affiliate}
}

// GetOrders lists orders scoped by role: admins see everything, merchants
// their referred orders, customers their own.
func (oc *OrderController) GetOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user := middleware.CurrentUser(c)

	filter, err := oc.orderFilter(ctx, user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la récupération des commandes",
		})
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := oc.db.Collection("orders").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la récupération des commandes",
		})
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la récupération des commandes",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status: http.StatusOK,
		Data:   orders,
	})
}

func (oc *OrderController) orderFilter(ctx context.Context, user *models.AuthUser) (bson.M, error) {
	switch user.Role {
	case models.RoleAdmin:
		return bson.M{}, nil
	case models.RoleMerchant:
		merchantID, err := oc.merchantID(ctx, user)
		if err != nil {
			return nil, err
		}
		return bson.M{"merchantId": merchantID}, nil
	default:
		customerID, err := primitive.ObjectIDFromHex(user.ID)
		if err != nil {
			return nil, err
		}
		return bson.M{"customerId": customerID}, nil
	}
}

func (oc *OrderController) merchantID(ctx context.Context, user *models.AuthUser) (primitive.ObjectID, error) {
	if user.MerchantID != "" {
		return primitive.ObjectIDFromHex(user.MerchantID)
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	merchant, err := oc.userRepo.MerchantByUserID(ctx, userID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return merchant.ID, nil
}

// CreateOrder runs checkout: validates the cart, reads the attribution cookie
// and places the order through the settlement pipeline.
func (oc *OrderController) CreateOrder(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user := middleware.CurrentUser(c)

	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Données de commande invalides",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Données de commande invalides",
		})
	}

	affiliateCode := ""
	if cookie, err := c.Cookie(services.AffiliateCookieName); err == nil {
		affiliateCode = cookie.Value
	}

	order, err := oc.affiliate.PlaceOrder(ctx, *user, req, affiliateCode)
	if err != nil {
		var stockErr *services.InsufficientStockError
		if errors.As(err, &stockErr) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: fmt.Sprintf("Stock insuffisant pour %s", stockErr.ProductName),
			})
		}
		if errors.Is(err, services.ErrProductNotFound) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Produit introuvable",
			})
		}
		c.Logger().Errorf("order creation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la création de la commande",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status: http.StatusOK,
		Data:   order,
	})
}

// UpdateOrderStatus lets an admin move an order through its lifecycle.
func (oc *OrderController) UpdateOrderStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Commande non trouvée",
		})
	}

	var req models.OrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Requête invalide",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Statut invalide",
		})
	}

	res, err := oc.db.Collection("orders").UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": req.Status}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la mise à jour de la commande",
		})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Commande non trouvée",
		})
	}

	var order models.Order
	if err := oc.db.Collection("orders").FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la mise à jour de la commande",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status: http.StatusOK,
		Data:   order,
	})
}
