package controllers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DavidAtikpo/firsty/models"
	"github.com/DavidAtikpo/firsty/services"
)

// AffiliateController handles inbound referral-link visits.
type AffiliateController struct {
	db        *mongo.Database
	affiliate *services.AffiliateService
}

func NewAffiliateController(db *mongo.Database, affiliate *services.AffiliateService) *AffiliateController {
	return &AffiliateController{db: db, affiliate: affiliate}
}

// Track resolves the referral code, records the click and plants the 30-day
// attribution cookie. The storefront fires this on page load whenever a ?ref
// parameter is present.
func (ac *AffiliateController) Track(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Code d'affiliation requis",
		})
	}

	merchant, err := ac.affiliate.MerchantByCode(ctx, code)
	if err == services.ErrCodeNotFound {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Code d'affiliation invalide",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors du tracking",
		})
	}

	// The click is a side effect of the visit; a failed insert is logged and
	// must not block the page load.
	if err := ac.affiliate.RecordClick(ctx, merchant.ID,
		c.RealIP(),
		c.Request().UserAgent(),
		c.Request().Referer(),
	); err != nil {
		c.Logger().Errorf("click recording failed for code %s: %v", code, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     services.AffiliateCookieName,
		Value:    code,
		Path:     "/",
		MaxAge:   services.AffiliateCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   os.Getenv("ENV") == "production",
	})

	merchantName := ""
	var user models.User
	if err := ac.db.Collection("users").FindOne(ctx, bson.M{"_id": merchant.UserID}).Decode(&user); err == nil {
		merchantName = user.Name
	}

	return c.JSON(http.StatusOK, models.Response{
		Status: http.StatusOK,
		Data:   bson.M{"merchant": bson.M{"name": merchantName}},
	})
}
