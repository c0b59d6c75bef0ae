package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type QuotationStatus string

const (
	QuotationStatusNew       QuotationStatus = "new"
	QuotationStatusContacted QuotationStatus = "contacted"
	QuotationStatusSent      QuotationStatus = "quotation sent"
	QuotationStatusAccepted  QuotationStatus = "accepted"
	QuotationStatusConverted QuotationStatus = "converted"
	QuotationStatusClosed    QuotationStatus = "closed"
)

type QuotationAttachment struct {
	PublicURL  string `bson:"publicUrl" json:"publicUrl"`
	ObjectName string `bson:"objectName" json:"objectName"`
	MimeType   string `bson:"mimeType" json:"mimeType"`
	SizeBytes  int64  `bson:"sizeBytes" json:"sizeBytes"`
}

type Quotation struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"id"`

	CustomerID bson.ObjectID `bson:"customerId" json:"customerId"`
	ProductID  bson.ObjectID `bson:"productId" json:"productId"`

	Details string  `bson:"details,omitempty" json:"details,omitempty"`
	Price   float64 `bson:"price" json:"price"`

	Status QuotationStatus `bson:"status" json:"status"`
	Region string          `bson:"region,omitempty" json:"region,omitempty"`

	// Set when the quotation was drafted from a lead conversion.
	LeadID *bson.ObjectID `bson:"leadId,omitempty" json:"leadId,omitempty"`

	CreatedBy *StaffRef `bson:"createdBy,omitempty" json:"createdBy,omitempty"`

	// The PDF document mailed to the customer, uploaded when the quotation
	// is sent.
	PDF    *QuotationAttachment `bson:"pdf,omitempty" json:"pdf,omitempty"`
	SentAt *time.Time           `bson:"sentAt,omitempty" json:"sentAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
