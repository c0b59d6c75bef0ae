package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/kvbsystems/kvbbackend/database"
	"github.com/kvbsystems/kvbbackend/dto"
	"github.com/kvbsystems/kvbbackend/models"
	"github.com/kvbsystems/kvbbackend/utils"
	"github.com/kvbsystems/kvbbackend/workflow"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ====== GetProducts (public) ================================================
// GET /products
// Unauthenticated catalogue view: trimmed fields only, disabled products
// excluded.
func GetProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("products")

		filter := bson.M{"isDisabled": false}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			filter["name"] = bson.M{"$regex": q, "$options": "i"}
		}

		opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		items := make([]workflow.PublicProduct, 0)
		for cursor.Next(ctx) {
			var p models.Product
			if err := cursor.Decode(&p); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, workflow.PublicProductView(p))
		}
		if err := cursor.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// ====== GetProduct (public) =================================================
// GET /products/:id
func GetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("products")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		var p models.Product
		if err := col.FindOne(ctx, bson.M{"_id": id, "isDisabled": false}).Decode(&p); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		c.JSON(http.StatusOK, workflow.PublicProductView(p))
	}
}

// ====== GetProductsAdmin (admin) ============================================
// GET /api/admin/products — full documents, disabled included.
func GetProductsAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("products")

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
			filter["name"] = bson.M{"$regex": q, "$options": "i"}
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

		items := make([]models.Product, 0)
		for cursor.Next(ctx) {
			var p models.Product
			if err := cursor.Decode(&p); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, p)
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
}

// ====== AddProduct (admin) ==================================================
// POST /api/admin/products
// multipart/form-data: "data" JSON field + 1-4 "images" file parts.
func AddProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("products")

		raw := c.PostForm("data")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing data field"})
			return
		}
		var body dto.CreateProductDTO
		if err := json.Unmarshal([]byte(raw), &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data payload"})
			return
		}
		if len(strings.TrimSpace(body.Name)) < 3 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name too short"})
			return
		}
		if body.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be greater than zero"})
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
			return
		}
		images := form.File["images"]
		if len(images) < 1 || len(images) > 4 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "images must be 1 to 4"})
			return
		}

		slug := strings.TrimSpace(body.Slug)
		if slug == "" {
			slug = utils.GenerateSlug(body.Name)
		}

		gcs, bucket, err := utils.NewGCSClient(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create storage client"})
			return
		}
		defer gcs.Close()

		urls, err := utils.UploadImagesToGCSAndGetPublicURLs(ctx, gcs, bucket, slug, images)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := time.Now().UTC()
		product := models.Product{
			ID:             bson.NewObjectID(),
			Name:           strings.TrimSpace(body.Name),
			Slug:           slug,
			Description:    strings.TrimSpace(body.Description),
			Specifications: strings.TrimSpace(body.Specifications),
			Price:          body.Price,
			Stock:          body.Stock,
			ImageUrls:      urls,
			IsDisabled:     body.IsDisabled,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if _, err := col.InsertOne(ctx, product); err != nil {
			// orphaned uploads are cleaned up best effort
			objects := make([]string, 0, len(urls))
			for _, u := range urls {
				if obj, oerr := utils.ObjectNameFromGCSPublicURL(bucket, u); oerr == nil {
					objects = append(objects, obj)
				}
			}
			if derr := utils.DeleteGCSObjects(ctx, gcs, bucket, objects); derr != nil {
				log.Print("gcs cleanup failed: ", derr)
			}
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "product slug already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}

// ====== UpdateProduct (admin) ===============================================
// PUT /api/admin/products/:id
// multipart/form-data: "data" JSON field, optional new "images" parts,
// removedImagesUrls in the body lists urls to drop (and delete from storage).
func UpdateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("products")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		var existing models.Product
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		raw := c.PostForm("data")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing data field"})
			return
		}
		var body dto.UpdateProductDTO
		if err := json.Unmarshal([]byte(raw), &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data payload"})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.Name != nil {
			set["name"] = strings.TrimSpace(*body.Name)
		}
		if body.Slug != nil {
			set["slug"] = strings.TrimSpace(*body.Slug)
		}
		if body.Description != nil {
			set["description"] = strings.TrimSpace(*body.Description)
		}
		if body.Specifications != nil {
			set["specifications"] = strings.TrimSpace(*body.Specifications)
		}
		if body.Price != nil {
			if *body.Price <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must be greater than zero"})
				return
			}
			set["price"] = *body.Price
		}
		if body.Stock != nil {
			if *body.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stock cannot be negative"})
				return
			}
			set["stock"] = *body.Stock
		}
		if body.IsDisabled != nil {
			set["isDisabled"] = *body.IsDisabled
		}

		var newUrls []string
		var gcsClient *gcsHandle
		form, formErr := c.MultipartForm()
		needStorage := len(body.RemovedImagesUrls) > 0 || (formErr == nil && len(form.File["images"]) > 0)
		if needStorage {
			client, bucket, err := utils.NewGCSClient(c)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create storage client"})
				return
			}
			defer client.Close()
			gcsClient = &gcsHandle{client: client, bucket: bucket}
		}

		if formErr == nil && gcsClient != nil {
			images := form.File["images"]
			if len(images) > 0 {
				slug := existing.Slug
				if s, ok := set["slug"].(string); ok && s != "" {
					slug = s
				}
				urls, err := utils.UploadImagesToGCSAndGetPublicURLs(ctx, gcsClient.client, gcsClient.bucket, slug, images)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				newUrls = urls
			}
		}

		if len(body.RemovedImagesUrls) > 0 || len(newUrls) > 0 {
			merged := utils.MergeImageUrlsArrays(existing.ImageUrls, body.RemovedImagesUrls, newUrls)
			if len(merged) == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "product must keep at least one image"})
				return
			}
			set["imageUrls"] = merged
		}

		res, err := col.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		// Removed images are deleted after the document is updated so a
		// storage failure never loses catalogue data.
		if gcsClient != nil && len(body.RemovedImagesUrls) > 0 {
			objects := make([]string, 0, len(body.RemovedImagesUrls))
			for _, u := range body.RemovedImagesUrls {
				if obj, oerr := utils.ObjectNameFromGCSPublicURL(gcsClient.bucket, u); oerr == nil {
					objects = append(objects, obj)
				}
			}
			if derr := utils.DeleteGCSObjects(ctx, gcsClient.client, gcsClient.bucket, objects); derr != nil {
				log.Print("gcs cleanup failed: ", derr)
			}
		}

		var updated models.Product
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

type gcsHandle struct {
	client *storage.Client
	bucket string
}

// ====== DeleteProduct (admin) ===============================================
// DELETE /api/admin/products/:id — removes the document and its images.
func DeleteProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("products")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		var existing models.Product
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		if len(existing.ImageUrls) > 0 {
			gcs, bucket, err := utils.NewGCSClient(c)
			if err == nil {
				defer gcs.Close()
				objects := make([]string, 0, len(existing.ImageUrls))
				for _, u := range existing.ImageUrls {
					if obj, oerr := utils.ObjectNameFromGCSPublicURL(bucket, u); oerr == nil {
						objects = append(objects, obj)
					}
				}
				if derr := utils.DeleteGCSObjects(ctx, gcs, bucket, objects); derr != nil {
					log.Print("gcs cleanup failed: ", derr)
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
