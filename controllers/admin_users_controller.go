package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kvbsystems/kvbbackend/database"
	"github.com/kvbsystems/kvbbackend/dto"
	"github.com/kvbsystems/kvbbackend/models"
	"github.com/kvbsystems/kvbbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Admin-side account management for the three managed principal types:
// customers, workers and sales users. Admin accounts themselves are seeded
// at startup and not managed over HTTP.

func listPrincipals[T any](c *gin.Context, collection string) {
	ctx := c.Request.Context()
	col := database.OpenCollection(collection)

	maxLimit, defaultLimit := utils.GetDefaultQueryLimits()
	page := utils.ParseIntDefault(c.Query("page"), 1)
	limit := utils.ParseIntDefault(c.Query("limit"), defaultLimit)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	skip := int64((page - 1) * limit)

	filter := bson.M{}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": q, "$options": "i"}},
			{"email": bson.M{"$regex": q, "$options": "i"}},
		}
	}
	if active, err := utils.ParseBoolQuery(strings.TrimSpace(c.Query("isActive"))); err == nil && active != nil {
		filter["isActive"] = *active
	}

	opts := options.Find().
		SetSkip(skip).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"page":  page,
		"limit": limit,
		"total": total,
	})
}

func getPrincipal[T any](c *gin.Context, collection string) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	col := database.OpenCollection(collection)
	var item T
	if err := col.FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&item); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func deletePrincipal(c *gin.Context, collection string) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	col := database.OpenCollection(collection)
	res, err := col.DeleteOne(c.Request.Context(), bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ====== Customers ===========================================================

func GetCustomers() gin.HandlerFunc {
	return func(c *gin.Context) { listPrincipals[models.Customer](c, "customers") }
}

func GetCustomer() gin.HandlerFunc {
	return func(c *gin.Context) { getPrincipal[models.Customer](c, "customers") }
}

// POST /api/admin/customers — admin-opened account, e.g. for a phone-in
// customer who never self-registered.
func CreateCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterCustomerDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		now := time.Now().UTC()
		customer := models.Customer{
			ID:           bson.NewObjectID(),
			Name:         strings.TrimSpace(body.Name),
			Email:        strings.ToLower(strings.TrimSpace(body.Email)),
			Phone:        strings.TrimSpace(body.Phone),
			Address:      strings.TrimSpace(body.Address),
			Region:       strings.TrimSpace(body.Region),
			PasswordHash: hash,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		col := database.OpenCollection("customers")
		if _, err := col.InsertOne(c.Request.Context(), customer); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, customer)
	}
}

func UpdateCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var body dto.UpdateCustomerDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.Name != nil {
			set["name"] = strings.TrimSpace(*body.Name)
		}
		if body.Phone != nil {
			set["phone"] = strings.TrimSpace(*body.Phone)
		}
		if body.Address != nil {
			set["address"] = strings.TrimSpace(*body.Address)
		}
		if body.Region != nil {
			set["region"] = strings.TrimSpace(*body.Region)
		}
		if body.IsActive != nil {
			set["isActive"] = *body.IsActive
		}

		col := database.OpenCollection("customers")
		res, err := col.UpdateByID(c.Request.Context(), id, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func DeleteCustomer() gin.HandlerFunc {
	return func(c *gin.Context) { deletePrincipal(c, "customers") }
}

// ====== Workers =============================================================

func GetWorkers() gin.HandlerFunc {
	return func(c *gin.Context) { listPrincipals[models.Worker](c, "workers") }
}

func GetWorker() gin.HandlerFunc {
	return func(c *gin.Context) { getPrincipal[models.Worker](c, "workers") }
}

func CreateWorker() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateStaffDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		now := time.Now().UTC()
		worker := models.Worker{
			ID:           bson.NewObjectID(),
			Name:         strings.TrimSpace(body.Name),
			Email:        strings.ToLower(strings.TrimSpace(body.Email)),
			Phone:        strings.TrimSpace(body.Phone),
			Skills:       body.Skills,
			PasswordHash: hash,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		col := database.OpenCollection("workers")
		if _, err := col.InsertOne(c.Request.Context(), worker); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, worker)
	}
}

func UpdateWorker() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var body dto.UpdateStaffDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.Name != nil {
			set["name"] = strings.TrimSpace(*body.Name)
		}
		if body.Phone != nil {
			set["phone"] = strings.TrimSpace(*body.Phone)
		}
		if body.Skills != nil {
			set["skills"] = *body.Skills
		}
		if body.IsActive != nil {
			set["isActive"] = *body.IsActive
		}

		col := database.OpenCollection("workers")
		res, err := col.UpdateByID(c.Request.Context(), id, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func DeleteWorker() gin.HandlerFunc {
	return func(c *gin.Context) { deletePrincipal(c, "workers") }
}

// ====== Sales users =========================================================

func GetSalesUsers() gin.HandlerFunc {
	return func(c *gin.Context) { listPrincipals[models.SalesUser](c, "sales_users") }
}

func GetSalesUser() gin.HandlerFunc {
	return func(c *gin.Context) { getPrincipal[models.SalesUser](c, "sales_users") }
}

func CreateSalesUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateStaffDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		now := time.Now().UTC()
		user := models.SalesUser{
			ID:           bson.NewObjectID(),
			Name:         strings.TrimSpace(body.Name),
			Email:        strings.ToLower(strings.TrimSpace(body.Email)),
			Phone:        strings.TrimSpace(body.Phone),
			Region:       strings.TrimSpace(body.Region),
			PasswordHash: hash,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		col := database.OpenCollection("sales_users")
		if _, err := col.InsertOne(c.Request.Context(), user); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, user)
	}
}

func UpdateSalesUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var body dto.UpdateStaffDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.Name != nil {
			set["name"] = strings.TrimSpace(*body.Name)
		}
		if body.Phone != nil {
			set["phone"] = strings.TrimSpace(*body.Phone)
		}
		if body.Region != nil {
			set["region"] = strings.TrimSpace(*body.Region)
		}
		if body.IsActive != nil {
			set["isActive"] = *body.IsActive
		}

		col := database.OpenCollection("sales_users")
		res, err := col.UpdateByID(c.Request.Context(), id, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func DeleteSalesUser() gin.HandlerFunc {
	return func(c *gin.Context) { deletePrincipal(c, "sales_users") }
}
