package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type EnquiryStatus string

const (
	EnquiryStatusNew       EnquiryStatus = "new"
	EnquiryStatusResponded EnquiryStatus = "responded"
	EnquiryStatusClosed    EnquiryStatus = "closed"
)

type EnquiryAttachment struct {
	FileName   string    `bson:"fileName" json:"fileName"`
	URL        string    `bson:"url" json:"url"`
	ObjectName string    `bson:"objectName" json:"objectName"`
	MimeType   string    `bson:"mimeType" json:"mimeType"`
	SizeBytes  int64     `bson:"sizeBytes" json:"sizeBytes"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// Enquiry is a customer-submitted request for product information. Distinct
// from a Lead: sales staff may derive a Lead from one.
type Enquiry struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"id"`

	CustomerID bson.ObjectID `bson:"customerId" json:"customerId"`
	ProductID  bson.ObjectID `bson:"productId" json:"productId"`

	Message string        `bson:"message" json:"message"`
	Status  EnquiryStatus `bson:"status" json:"status"`

	Attachments []EnquiryAttachment `bson:"attachments" json:"attachments"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
