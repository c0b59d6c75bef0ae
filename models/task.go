package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type TaskComment struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   bson.ObjectID `bson:"userId" json:"userId"`
	UserType Role          `bson:"userType" json:"userType"`
	Comment  string        `bson:"comment" json:"comment"`
	AddedAt  time.Time     `bson:"addedAt" json:"addedAt"`
}

type TaskAttachment struct {
	FileName  string    `bson:"fileName" json:"fileName"`
	URL       string    `bson:"url" json:"url"`
	PublicID  string    `bson:"publicId" json:"publicId"`
	MimeType  string    `bson:"mimeType,omitempty" json:"mimeType,omitempty"`
	SizeBytes int64     `bson:"sizeBytes,omitempty" json:"sizeBytes,omitempty"`
	AddedAt   time.Time `bson:"addedAt" json:"addedAt"`
}

type Task struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"id"`

	Title       string       `bson:"title" json:"title"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
	Priority    TaskPriority `bson:"priority" json:"priority"`
	Status      TaskStatus   `bson:"status" json:"status"`

	Location string     `bson:"location,omitempty" json:"location,omitempty"`
	DueDate  *time.Time `bson:"dueDate,omitempty" json:"dueDate,omitempty"`

	AssignedTo []bson.ObjectID `bson:"assignedTo" json:"assignedTo"`
	AssignedBy *StaffRef       `bson:"assignedBy,omitempty" json:"assignedBy,omitempty"`

	CustomerID bson.ObjectID  `bson:"customerId" json:"customerId"`
	ProductID  *bson.ObjectID `bson:"productId,omitempty" json:"productId,omitempty"`

	// Back-link to the accepted quotation that spawned this task. Guards
	// against a second task being spawned for the same quotation.
	QuotationID *bson.ObjectID `bson:"quotationId,omitempty" json:"quotationId,omitempty"`

	Comments    []TaskComment    `bson:"comments" json:"comments"`
	Attachments []TaskAttachment `bson:"attachments" json:"attachments"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
