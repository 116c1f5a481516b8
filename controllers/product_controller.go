package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DavidAtikpo/firsty/models"
)

// ProductController handles catalog CRUD. Reads are public; mutations are
// registered behind the admin role gate.
type ProductController struct {
	db *mongo.Database
}

func NewProductController(db *mongo.Database) *ProductController {
	return &ProductController{db: db}
}

// GetProducts lists the catalog, newest first. Supports ?active=true,
// ?category= and ?limit= filters.
func (pc *ProductController) GetProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if c.QueryParam("active") == "true" {
		filter["isActive"] = true
	}
	if category := c.QueryParam("category"); category != "" {
		filter["categoryId"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if limit, err := strconv.ParseInt(limitParam, 10, 64); err == nil && limit > 0 {
			opts.SetLimit(limit)
		}
	}

	cursor, err := pc.db.Collection("products").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la récupération des produits",
		})
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la récupération des produits",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status: http.StatusOK,
		Data:   products,
	})
}

// GetProduct returns one product by ID.
func (pc *ProductController) GetProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Produit non trouvé",
		})
	}

	var product models.Product
	err = pc.db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Produit non trouvé",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la récupération du produit",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status: http.StatusOK,
		Data:   product,
	})
}

// CreateProduct adds a product to the catalog.
func (pc *ProductController) CreateProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Requête invalide",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Tous les champs sont requis",
		})
	}

	now := time.Now()
	product := models.Product{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Stock:       req.Stock,
		IsActive:    true,
		CategoryID:  req.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := pc.db.Collection("products").InsertOne(ctx, product); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la création du produit",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status: http.StatusOK,
		Data:   product,
	})
}

// UpdateProduct applies a partial update; absent fields are left untouched.
func (pc *ProductController) UpdateProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Produit non trouvé",
		})
	}

	var req models.ProductUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Requête invalide",
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Price != nil {
		update["price"] = *req.Price
	}
	if req.Image != nil {
		update["image"] = *req.Image
	}
	if req.Stock != nil {
		update["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		update["isActive"] = *req.IsActive
	}

	res, err := pc.db.Collection("products").UpdateByID(ctx, id, bson.M{"$set": update})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la mise à jour du produit",
		})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Produit non trouvé",
		})
	}

	var product models.Product
	if err := pc.db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la mise à jour du produit",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status: http.StatusOK,
		Data:   product,
	})
}

// DeleteProduct removes a product from the catalog.
func (pc *ProductController) DeleteProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Produit non trouvé",
		})
	}

	res, err := pc.db.Collection("products").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Erreur lors de la suppression du produit",
		})
	}
	if res.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Produit non trouvé",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Produit supprimé",
	})
}
