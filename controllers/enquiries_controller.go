package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kvbsystems/kvbbackend/database"
	"github.com/kvbsystems/kvbbackend/dto"
	"github.com/kvbsystems/kvbbackend/models"
	"github.com/kvbsystems/kvbbackend/utils"
	"github.com/kvbsystems/kvbbackend/workflow"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ====== CreateEnquiry (customer) ============================================
// POST /api/customer/enquiries
// multipart/form-data: "data" field carries the JSON body, optional "files"
// parts are stored alongside. A failed attachment upload fails the whole
// request; the enquiry is only inserted once every file is stored.
func CreateEnquiry(v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("enquiries")

		customerID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		raw := c.PostForm("data")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing data field"})
			return
		}
		var body dto.CreateEnquiryDTO
		if err := json.Unmarshal([]byte(raw), &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data payload"})
			return
		}
		if len(strings.TrimSpace(body.Message)) < 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message too short"})
			return
		}

		productID, err := bson.ObjectIDFromHex(body.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		productsCol := database.OpenCollection("products")
		var product models.Product
		if err := productsCol.FindOne(ctx, bson.M{"_id": productID, "isDisabled": false}).Decode(&product); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		enquiryID := bson.NewObjectID()
		attachments := []models.EnquiryAttachment{}

		if form, err := c.MultipartForm(); err == nil {
			files := form.File["files"]
			for _, fh := range files {
				if _, err := v.ValidateFile(fh); err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "file": fh.Filename})
					return
				}
			}
			if len(files) > 0 {
				r2, err := utils.NewR2Client(ctx)
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create storage client"})
					return
				}
				uploaded := make([]string, 0, len(files))
				for _, fh := range files {
					att, err := r2.UploadEnquiryAttachment(ctx, enquiryID.Hex(), fh)
					if err != nil {
						_ = r2.DeleteR2Objects(ctx, uploaded)
						c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "file": fh.Filename})
						return
					}
					attachments = append(attachments, *att)
					uploaded = append(uploaded, att.ObjectName)
				}
			}
		}

		now := time.Now().UTC()
		enquiry := models.Enquiry{
			ID:          enquiryID,
			CustomerID:  customerID,
			ProductID:   productID,
			Message:     strings.TrimSpace(body.Message),
			Status:      models.EnquiryStatusNew,
			Attachments: attachments,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if _, err := col.InsertOne(ctx, enquiry); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, enquiry)
	}
}

// ====== GetMyEnquiries (customer) ===========================================
// GET /api/customer/enquiries
func GetMyEnquiries() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("enquiries")

		customerID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := col.Find(ctx, workflow.CustomerEnquiryFilter(customerID), opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Enquiry, 0)
		for cursor.Next(ctx) {
			var e models.Enquiry
			if err := cursor.Decode(&e); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, e)
		}
		if err := cursor.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// ====== GetEnquiries (admin) ================================================
// GET /api/admin/enquiries?page=&limit=&status=
func GetEnquiries() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("enquiries")

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
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
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

		items := make([]models.Enquiry, 0)
		for cursor.Next(ctx) {
			var e models.Enquiry
			if err := cursor.Decode(&e); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, e)
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

// ====== UpdateEnquiryStatus (admin) =========================================
// PUT /api/admin/enquiries/:id/status
func UpdateEnquiryStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("enquiries")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid enquiry id"})
			return
		}

		var body dto.UpdateEnquiryStatusDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		next := models.EnquiryStatus(strings.TrimSpace(body.Status))
		if !workflow.ValidEnquiryStatus(next) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid status value",
				"allowed": workflow.AllowedEnquiryStatuses(),
			})
			return
		}

		res, err := col.UpdateByID(ctx, id, bson.M{
			"$set": bson.M{"status": next, "updatedAt": time.Now().UTC()},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "enquiry not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
