package controllers

import (
	"net/http"
	"regexp"
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

// ====== CreateLead (sales) ==================================================
// POST /api/sales/leads
func CreateLead() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.CreateLeadDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := time.Now().UTC()
		lead := models.Lead{
			ID:        bson.NewObjectID(),
			Name:      strings.TrimSpace(body.Name),
			Email:     strings.TrimSpace(body.Email),
			Phone:     strings.TrimSpace(body.Phone),
			Region:    strings.TrimSpace(body.Region),
			Source:    strings.TrimSpace(body.Source),
			Message:   strings.TrimSpace(body.Message),
			Status:    models.LeadStatusNew,
			Notes:     []models.LeadNote{},
			CreatedAt: now,
			UpdatedAt: now,
		}

		// The creating sales user picks the lead up by default.
		if uid, ok := currentUserID(c); ok {
			lead.AssignedTo = &uid
		}

		col := database.OpenCollection("leads")
		if _, err := col.InsertOne(ctx, lead); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, lead)
	}
}

// ====== GetLeads (sales/admin) ==============================================
// GET /api/sales/leads?page=1&limit=20&status=new&region=North&q=...
func GetLeads() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("leads")

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

		includeDeleted := strings.TrimSpace(c.Query("includeDeleted")) == "true"
		filter := workflow.SalesLeadFilter(includeDeleted)

		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
		}
		if region := strings.TrimSpace(c.Query("region")); region != "" {
			filter["region"] = region
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			escaped := regexp.QuoteMeta(q)
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": escaped, "$options": "i"}},
				{"email": bson.M{"$regex": escaped, "$options": "i"}},
				{"phone": bson.M{"$regex": escaped, "$options": "i"}},
				{"source": bson.M{"$regex": escaped, "$options": "i"}},
			}
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

		items := make([]models.Lead, 0)
		for cursor.Next(ctx) {
			var l models.Lead
			if err := cursor.Decode(&l); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, l)
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

// ====== GetLead =============================================================
// GET /api/sales/leads/:id
func GetLead() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("leads")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
			return
		}

		var lead models.Lead
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&lead); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
			return
		}

		c.JSON(http.StatusOK, lead)
	}
}

// ====== UpdateLead ==========================================================
// PUT /api/sales/leads/:id
// Body: { "status": "contacted", "note": "called, call back Friday" }
// Status and note are both optional; a note rides along as an append.
func UpdateLead(dispatcher *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("leads")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
			return
		}

		var body dto.UpdateLeadDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if body.Status == nil && body.Note == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
			return
		}

		var lead models.Lead
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&lead); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
			return
		}

		now := time.Now().UTC()
		set := bson.M{"updatedAt": now}
		update := bson.M{"$set": set}

		var effects workflow.LeadSideEffects
		if body.Status != nil {
			next := models.LeadStatus(strings.TrimSpace(*body.Status))
			if !workflow.ValidLeadStatus(next) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "invalid status value",
					"allowed": workflow.AllowedLeadStatuses(),
				})
				return
			}
			set["status"] = next
			effects = workflow.LeadTransition(lead.Status, next)
		}

		if body.Note != nil && strings.TrimSpace(*body.Note) != "" {
			note := models.LeadNote{
				ID:      bson.NewObjectID(),
				Message: strings.TrimSpace(*body.Note),
				AddedBy: currentStaffRef(c),
				AddedAt: now,
			}
			update["$push"] = bson.M{"notes": note}
		}

		res, err := col.UpdateByID(ctx, id, update)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
			return
		}

		if effects.NotifyFollowUp && lead.AssignedTo != nil {
			salesCol := database.OpenCollection("sales_users")
			var sales models.SalesUser
			if err := salesCol.FindOne(ctx, bson.M{"_id": *lead.AssignedTo}).Decode(&sales); err == nil {
				dispatcher.Enqueue(notify.LeadFollowUpEmail(sales.Email, lead))
			}
		}

		var updated models.Lead
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// ====== AddLeadNote =========================================================
// POST /api/sales/leads/:id/notes
func AddLeadNote() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("leads")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
			return
		}

		var body dto.AddLeadNoteDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		now := time.Now().UTC()
		note := models.LeadNote{
			ID:      bson.NewObjectID(),
			Message: strings.TrimSpace(body.Message),
			AddedBy: currentStaffRef(c),
			AddedAt: now,
		}

		res, err := col.UpdateByID(ctx, id, bson.M{
			"$push": bson.M{"notes": note},
			"$set":  bson.M{"updatedAt": now},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
			return
		}

		c.JSON(http.StatusCreated, note)
	}
}

// ====== ConvertLead =========================================================
// POST /api/sales/leads/:id/convert
// Drafts a quotation from the lead and marks the lead converted. The new
// quotation keeps a leadId back-link.
func ConvertLead() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		leadsCol := database.OpenCollection("leads")
		quotationsCol := database.OpenCollection("quotations")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
			return
		}

		var body dto.ConvertLeadDTO
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

		var lead models.Lead
		if err := leadsCol.FindOne(ctx, bson.M{"_id": id}).Decode(&lead); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
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
			Region:     lead.Region,
			LeadID:     &id,
			CreatedBy:  currentStaffRef(c),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if _, err := quotationsCol.InsertOne(ctx, quotation); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		note := models.LeadNote{
			ID:      bson.NewObjectID(),
			Message: "Converted to quotation " + quotation.ID.Hex(),
			AddedBy: currentStaffRef(c),
			AddedAt: now,
		}
		_, err = leadsCol.UpdateByID(ctx, id, bson.M{
			"$set":  bson.M{"status": models.LeadStatusConverted, "updatedAt": now},
			"$push": bson.M{"notes": note},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, quotation)
	}
}

// ====== DeleteLead ==========================================================
// DELETE /api/sales/leads/:id — soft delete; the record keeps its notes.
func DeleteLead() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("leads")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
			return
		}

		res, err := col.UpdateByID(ctx, id, bson.M{
			"$set": bson.M{
				"status":    models.LeadStatusDeleted,
				"updatedAt": time.Now().UTC(),
			},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
