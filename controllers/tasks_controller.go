package controllers

import (
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

// ====== GetAssignedTasks (worker) ===========================================
// GET /api/tasks/worker/assigned
func GetAssignedTasks() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("tasks")

		workerID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		filter := workflow.WorkerTaskFilter(workerID)
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
		}

		opts := options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}})
		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Task, 0)
		for cursor.Next(ctx) {
			var t models.Task
			if err := cursor.Decode(&t); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, t)
		}
		if err := cursor.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// ====== UpdateTaskStatus (worker) ===========================================
// PUT /api/tasks/worker/update-status/:taskId
// Body: { "status": "completed", "comment": "installed and tested" }
// The lookup is scoped to the worker's own tasks, so a task the worker is
// not staffed on reads as not found.
func UpdateTaskStatus(dispatcher *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("tasks")

		taskID, err := bson.ObjectIDFromHex(c.Param("taskId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
			return
		}

		var body dto.UpdateTaskStatusDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		next := models.TaskStatus(strings.TrimSpace(body.Status))
		if !workflow.ValidTaskStatus(next) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid status value",
				"allowed": workflow.AllowedTaskStatuses(),
			})
			return
		}

		workerID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		var task models.Task
		if err := col.FindOne(ctx, workflow.WorkerTaskByIDFilter(taskID, workerID)).Decode(&task); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}

		now := time.Now().UTC()
		set := bson.M{"status": next, "updatedAt": now}
		update := bson.M{"$set": set}

		if comment := strings.TrimSpace(body.Comment); comment != "" {
			update["$push"] = bson.M{"comments": models.TaskComment{
				ID:       bson.NewObjectID(),
				UserID:   workerID,
				UserType: models.RoleWorker,
				Comment:  comment,
				AddedAt:  now,
			}}
		}

		res, err := col.UpdateOne(ctx, workflow.WorkerTaskByIDFilter(taskID, workerID), update)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}

		effects := workflow.TaskTransition(task.Status, next)
		if effects.NotifyCompleted {
			customersCol := database.OpenCollection("customers")
			var customer models.Customer
			if err := customersCol.FindOne(ctx, bson.M{"_id": task.CustomerID}).Decode(&customer); err == nil {
				dispatcher.Enqueue(notify.TaskCompletedEmail(customer, task))
			}
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// ====== AddTaskComment (worker) =============================================
// POST /api/tasks/:taskId/comments
func AddTaskComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("tasks")

		taskID, err := bson.ObjectIDFromHex(c.Param("taskId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
			return
		}

		var body dto.AddTaskCommentDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		workerID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		now := time.Now().UTC()
		comment := models.TaskComment{
			ID:       bson.NewObjectID(),
			UserID:   workerID,
			UserType: models.RoleWorker,
			Comment:  strings.TrimSpace(body.Comment),
			AddedAt:  now,
		}

		res, err := col.UpdateOne(ctx, workflow.WorkerTaskByIDFilter(taskID, workerID), bson.M{
			"$push": bson.M{"comments": comment},
			"$set":  bson.M{"updatedAt": now},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}

		c.JSON(http.StatusCreated, comment)
	}
}

// ====== UploadTaskAttachments (worker) ======================================
// POST /api/tasks/:taskId/upload
// multipart/form-data with one or more "files" parts. Any upload failure
// aborts the request; files already stored are cleaned up best effort so a
// retry starts clean.
func UploadTaskAttachments(v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("tasks")

		taskID, err := bson.ObjectIDFromHex(c.Param("taskId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
			return
		}

		workerID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		var task models.Task
		if err := col.FindOne(ctx, workflow.WorkerTaskByIDFilter(taskID, workerID)).Decode(&task); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
			return
		}
		files := form.File["files"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
			return
		}

		for _, fh := range files {
			if _, err := v.ValidateFile(fh); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "file": fh.Filename})
				return
			}
		}

		r2, err := utils.NewR2Client(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create storage client"})
			return
		}

		attachments := make([]models.TaskAttachment, 0, len(files))
		uploaded := make([]string, 0, len(files))
		for _, fh := range files {
			att, err := r2.UploadTaskAttachment(ctx, taskID.Hex(), fh)
			if err != nil {
				_ = r2.DeleteR2Objects(ctx, uploaded)
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "file": fh.Filename})
				return
			}
			attachments = append(attachments, *att)
			uploaded = append(uploaded, att.PublicID)
		}

		now := time.Now().UTC()
		res, err := col.UpdateOne(ctx, workflow.WorkerTaskByIDFilter(taskID, workerID), bson.M{
			"$push": bson.M{"attachments": bson.M{"$each": attachments}},
			"$set":  bson.M{"updatedAt": now},
		})
		if err != nil {
			_ = r2.DeleteR2Objects(ctx, uploaded)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			_ = r2.DeleteR2Objects(ctx, uploaded)
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"attachments": attachments})
	}
}

// ====== CreateTask (admin) ==================================================
// POST /api/admin/tasks
func CreateTask(dispatcher *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("tasks")

		var body dto.CreateTaskDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		customerID, err := bson.ObjectIDFromHex(body.CustomerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
			return
		}

		priority := models.TaskPriority(body.Priority)
		if priority == "" {
			priority = models.TaskPriorityMedium
		}
		if !workflow.ValidTaskPriority(priority) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority value"})
			return
		}

		assignedTo, err := utils.StringsToObjectIDs(body.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid worker id in assignedTo"})
			return
		}

		now := time.Now().UTC()
		task := models.Task{
			ID:          bson.NewObjectID(),
			Title:       strings.TrimSpace(body.Title),
			Description: strings.TrimSpace(body.Description),
			Priority:    priority,
			Status:      models.TaskStatusPending,
			Location:    strings.TrimSpace(body.Location),
			DueDate:     body.DueDate,
			AssignedTo:  assignedTo,
			AssignedBy:  currentStaffRef(c),
			CustomerID:  customerID,
			Comments:    []models.TaskComment{},
			Attachments: []models.TaskAttachment{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if body.ProductID != "" {
			productID, err := bson.ObjectIDFromHex(body.ProductID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
				return
			}
			task.ProductID = &productID
		}

		if _, err := col.InsertOne(ctx, task); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		notifyAssignedWorkers(c, dispatcher, task, assignedTo)

		c.JSON(http.StatusCreated, task)
	}
}

func notifyAssignedWorkers(c *gin.Context, dispatcher *notify.Dispatcher, task models.Task, workerIDs []bson.ObjectID) {
	if len(workerIDs) == 0 {
		return
	}
	ctx := c.Request.Context()
	workersCol := database.OpenCollection("workers")
	for _, wid := range workerIDs {
		var worker models.Worker
		if err := workersCol.FindOne(ctx, bson.M{"_id": wid}).Decode(&worker); err == nil {
			dispatcher.Enqueue(notify.TaskAssignedEmail(worker, task))
		}
	}
}

// ====== GetTasks (admin) ====================================================
// GET /api/admin/tasks?page=&limit=&status=&priority=
func GetTasks() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("tasks")

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
		if priority := strings.TrimSpace(c.Query("priority")); priority != "" {
			filter["priority"] = priority
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

		items := make([]models.Task, 0)
		for cursor.Next(ctx) {
			var t models.Task
			if err := cursor.Decode(&t); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, t)
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

// ====== GetTask (admin) =====================================================
// GET /api/admin/tasks/:id
func GetTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("tasks")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
			return
		}

		var t models.Task
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}

		c.JSON(http.StatusOK, t)
	}
}

// ====== UpdateTask (admin) ==================================================
// PUT /api/admin/tasks/:id
func UpdateTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("tasks")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
			return
		}

		var body dto.UpdateTaskDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.Title != nil {
			set["title"] = strings.TrimSpace(*body.Title)
		}
		if body.Description != nil {
			set["description"] = strings.TrimSpace(*body.Description)
		}
		if body.Priority != nil {
			priority := models.TaskPriority(*body.Priority)
			if !workflow.ValidTaskPriority(priority) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority value"})
				return
			}
			set["priority"] = priority
		}
		if body.Location != nil {
			set["location"] = strings.TrimSpace(*body.Location)
		}
		if body.DueDate != nil {
			set["dueDate"] = *body.DueDate
		}

		res, err := col.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// ====== AssignTask (admin) ==================================================
// PUT /api/admin/tasks/:id/assign
// Replaces the staffing list and mails each newly listed worker.
func AssignTask(dispatcher *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("tasks")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
			return
		}

		var body dto.AssignTaskDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		assignedTo, err := utils.StringsToObjectIDs(body.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid worker id in assignedTo"})
			return
		}

		var task models.Task
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}

		now := time.Now().UTC()
		_, err = col.UpdateByID(ctx, id, bson.M{
			"$set": bson.M{
				"assignedTo": assignedTo,
				"assignedBy": currentStaffRef(c),
				"updatedAt":  now,
			},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Only workers new to the task get the assignment mail.
		existing := make(map[bson.ObjectID]bool, len(task.AssignedTo))
		for _, wid := range task.AssignedTo {
			existing[wid] = true
		}
		added := make([]bson.ObjectID, 0, len(assignedTo))
		for _, wid := range assignedTo {
			if !existing[wid] {
				added = append(added, wid)
			}
		}
		task.AssignedTo = assignedTo
		notifyAssignedWorkers(c, dispatcher, task, added)

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// ====== DeleteTask (admin) ==================================================
// DELETE /api/admin/tasks/:id — hard delete, no archival.
func DeleteTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("tasks")

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
