package workflow

import (
	"github.com/kvbsystems/kvbbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Scope filters: each non-admin principal only ever queries through one of
// these, so a record outside the caller's scope surfaces as a plain miss
// (404), never a 403.

// WorkerTaskFilter scopes task queries to tasks the worker is staffed on.
func WorkerTaskFilter(workerID bson.ObjectID) bson.M {
	return bson.M{"assignedTo": workerID}
}

// WorkerTaskByIDFilter scopes a single-task lookup the same way.
func WorkerTaskByIDFilter(taskID, workerID bson.ObjectID) bson.M {
	return bson.M{"_id": taskID, "assignedTo": workerID}
}

// CustomerQuotationFilter scopes quotation queries to the customer's own.
func CustomerQuotationFilter(customerID bson.ObjectID) bson.M {
	return bson.M{"customerId": customerID}
}

// CustomerEnquiryFilter scopes enquiry queries to the customer's own.
func CustomerEnquiryFilter(customerID bson.ObjectID) bson.M {
	return bson.M{"customerId": customerID}
}

// SalesLeadFilter scopes lead listings for sales staff. Soft-deleted leads
// stay out unless asked for explicitly.
func SalesLeadFilter(includeDeleted bool) bson.M {
	if includeDeleted {
		return bson.M{}
	}
	return bson.M{"status": bson.M{"$ne": string(models.LeadStatusDeleted)}}
}
