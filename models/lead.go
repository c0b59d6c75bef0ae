package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type LeadStatus string

const (
	LeadStatusNew             LeadStatus = "new"
	LeadStatusContacted       LeadStatus = "contacted"
	LeadStatusFollowUpPending LeadStatus = "follow-up pending"
	LeadStatusConverted       LeadStatus = "converted"
	LeadStatusClosed          LeadStatus = "closed"
	// Soft delete. The list endpoints exclude this value by default.
	LeadStatusDeleted LeadStatus = "deleted"
)

type LeadNote struct {
	ID      bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Message string        `bson:"message" json:"message"`
	AddedBy *StaffRef     `bson:"addedBy,omitempty" json:"addedBy,omitempty"`
	AddedAt time.Time     `bson:"addedAt" json:"addedAt"`
}

type Lead struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"id"`

	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`

	Region string `bson:"region,omitempty" json:"region,omitempty"`
	Source string `bson:"source,omitempty" json:"source,omitempty"`

	Status  LeadStatus `bson:"status" json:"status"`
	Message string     `bson:"message,omitempty" json:"message,omitempty"`

	Notes      []LeadNote     `bson:"notes" json:"notes"`
	AssignedTo *bson.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
