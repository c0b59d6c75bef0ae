package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kvbsystems/kvbbackend/database"
	"github.com/kvbsystems/kvbbackend/dto"
	"github.com/kvbsystems/kvbbackend/models"
	"github.com/kvbsystems/kvbbackend/notify"
	"github.com/kvbsystems/kvbbackend/utils"
	"github.com/kvbsystems/kvbbackend/workflow"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ====== CreateQuotation (sales/admin) =======================================
// POST /api/sales/quotations
func CreateQuotation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.CreateQuotationDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		customerID, err := bson.ObjectIDFromHex(body.CustomerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
			return
		}
		productID, err := bson.ObjectIDFromHex(body.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		now := time.Now().UTC()
		quotation := models.Quotation{
			ID:         bson.NewObjectID(),
			CustomerID: customerID,
			ProductID:  productID,
			Details:    strings.TrimSpace(body.Details),
			Price:      body.Price,
			Status:     models.QuotationStatusNew,
			Region:     strings.TrimSpace(body.Region),
			CreatedBy:  currentStaffRef(c),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		col := database.OpenCollection("quotations")
		if _, err := col.InsertOne(ctx, quotation); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, quotation)
	}
}

// ====== RequestQuotation (customer) =========================================
// POST /api/customer/quotations — the customer asks for a price; the record
// starts in "new" for sales to pick up.
func RequestQuotation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.RequestQuotationDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		customerID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}
		productID, err := bson.ObjectIDFromHex(body.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		customersCol := database.OpenCollection("customers")
		var customer models.Customer
		if err := customersCol.FindOne(ctx, bson.M{"_id": customerID}).Decode(&customer); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "customer not found"})
			return
		}

		now := time.Now().UTC()
		quotation := models.Quotation{
			ID:         bson.NewObjectID(),
			CustomerID: customerID,
			ProductID:  productID,
			Details:    strings.TrimSpace(body.Details),
			Status:     models.QuotationStatusNew,
			Region:     customer.Region,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		col := database.OpenCollection("quotations")
		if _, err := col.InsertOne(ctx, quotation); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, quotation)
	}
}

// ====== GetQuotations (sales/admin) =========================================
// GET /api/sales/quotations?page=&limit=&status=&region=
func GetQuotations() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("quotations")

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
		if region := strings.TrimSpace(c.Query("region")); region != "" {
			filter["region"] = region
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

		items := make([]models.Quotation, 0)
		for cursor.Next(ctx) {
			var q models.Quotation
			if err := cursor.Decode(&q); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, q)
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

// ====== GetMyQuotations (customer) ==========================================
// GET /api/customer/quotations
func GetMyQuotations() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("quotations")

		customerID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := col.Find(ctx, workflow.CustomerQuotationFilter(customerID), opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Quotation, 0)
		for cursor.Next(ctx) {
			var q models.Quotation
			if err := cursor.Decode(&q); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, q)
		}
		if err := cursor.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// ====== GetQuotation ========================================================
// GET /api/sales/quotations/:id
func GetQuotation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("quotations")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quotation id"})
			return
		}

		var q models.Quotation
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "quotation not found"})
			return
		}

		c.JSON(http.StatusOK, q)
	}
}

// runQuotationSideEffects fires the notifications and the task spawn for a
// status change that already landed. Mail failures are logged by the
// dispatcher; a task insert failure is logged here but the status change
// stands either way.
func runQuotationSideEffects(c *gin.Context, dispatcher *notify.Dispatcher, q models.Quotation, effects workflow.QuotationSideEffects) {
	if !effects.NotifySent && !effects.NotifyAccepted && !effects.SpawnTask {
		return
	}
	ctx := c.Request.Context()

	customersCol := database.OpenCollection("customers")
	var customer models.Customer
	if err := customersCol.FindOne(ctx, bson.M{"_id": q.CustomerID}).Decode(&customer); err != nil {
		log.Printf("quotation %s: customer lookup for side effects failed: %v", q.ID.Hex(), err)
		return
	}

	productName := "your product"
	productsCol := database.OpenCollection("products")
	var product models.Product
	if err := productsCol.FindOne(ctx, bson.M{"_id": q.ProductID}).Decode(&product); err == nil {
		productName = product.Name
	}

	if effects.NotifySent {
		dispatcher.Enqueue(notify.QuotationSentEmail(customer, productName, q.Price))
	}
	if effects.NotifyAccepted {
		dispatcher.Enqueue(notify.QuotationAcceptedEmail(customer, productName))
	}
	if effects.SpawnTask {
		tasksCol := database.OpenCollection("tasks")
		count, err := tasksCol.CountDocuments(ctx, workflow.SpawnGuardFilter(q.ID))
		if err != nil {
			log.Printf("quotation %s: spawn guard query failed: %v", q.ID.Hex(), err)
			return
		}
		if count > 0 {
			return // task already spawned for this quotation
		}
		task := workflow.BuildInstallationTask(q, customer, productName, time.Now().UTC())
		if _, err := tasksCol.InsertOne(ctx, task); err != nil {
			log.Printf("quotation %s: installation task insert failed: %v", q.ID.Hex(), err)
		}
	}
}

// ====== UpdateQuotation (sales/admin) =======================================
// PUT /api/sales/quotations/:id
// Body: { "status": "accepted", "price": 1200 } — both optional.
// Transition to "quotation sent" mails the customer; transition to
// "accepted" mails the customer and spawns the installation task (at most
// once per quotation).
func UpdateQuotation(dispatcher *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("quotations")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quotation id"})
			return
		}

		var body dto.UpdateQuotationDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if body.Status == nil && body.Price == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
			return
		}

		var q models.Quotation
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "quotation not found"})
			return
		}

		now := time.Now().UTC()
		set := bson.M{"updatedAt": now}

		var effects workflow.QuotationSideEffects
		if body.Status != nil {
			next := models.QuotationStatus(strings.TrimSpace(*body.Status))
			if !workflow.ValidQuotationStatus(next) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "invalid status value",
					"allowed": workflow.AllowedQuotationStatuses(),
				})
				return
			}
			set["status"] = next
			if next == models.QuotationStatusSent {
				set["sentAt"] = now
			}
			effects = workflow.QuotationTransition(q.Status, next)
		}
		if body.Price != nil {
			if *body.Price <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
				return
			}
			set["price"] = *body.Price
			q.Price = *body.Price
		}

		res, err := col.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "quotation not found"})
			return
		}

		runQuotationSideEffects(c, dispatcher, q, effects)

		var updated models.Quotation
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// ====== SendQuotationPDF (sales/admin) ======================================
// POST /api/sales/quotations/:id/pdf
// multipart/form-data with a "quotePdf" file. Uploads the document, flips
// the quotation to "quotation sent" and mails the customer.
func SendQuotationPDF(dispatcher *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("quotations")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quotation id"})
			return
		}

		fh, err := c.FormFile("quotePdf")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing quotePdf file"})
			return
		}
		if fh.Size > 10*1024*1024 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quotePdf too large (max 10MB)"})
			return
		}

		var q models.Quotation
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "quotation not found"})
			return
		}

		gcsClient, bucket, err := utils.NewGCSClient(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create storage client"})
			return
		}

		att, err := utils.UploadQuotationPDFToGCS(ctx, gcsClient, bucket, id.Hex(), fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pdf upload failed", "details": err.Error()})
			return
		}

		now := time.Now().UTC()
		res, err := col.UpdateByID(ctx, id, bson.M{
			"$set": bson.M{
				"pdf":       att,
				"status":    models.QuotationStatusSent,
				"sentAt":    now,
				"updatedAt": now,
			},
		})
		if err != nil {
			// cleanup uploaded file best effort
			_ = utils.DeleteGCSObjects(ctx, gcsClient, bucket, []string{att.ObjectName})
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			_ = utils.DeleteGCSObjects(ctx, gcsClient, bucket, []string{att.ObjectName})
			c.JSON(http.StatusNotFound, gin.H{"error": "quotation not found"})
			return
		}

		runQuotationSideEffects(c, dispatcher, q, workflow.QuotationTransition(q.Status, models.QuotationStatusSent))

		c.JSON(http.StatusOK, gin.H{"ok": true, "quotePdfUrl": att.PublicURL})
	}
}
