package workflow

import (
	"fmt"
	"time"

	"github.com/kvbsystems/kvbbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// InstallationDueIn is the default lead time for a spawned installation task.
const InstallationDueIn = 7 * 24 * time.Hour

// BuildInstallationTask pre-fills the field-service task created when a
// quotation is accepted. Workers are staffed later by an admin, so
// assignedTo starts empty.
func BuildInstallationTask(q models.Quotation, customer models.Customer, productName string, now time.Time) models.Task {
	location := customer.Address
	if location == "" {
		location = "To be confirmed"
	}

	due := now.Add(InstallationDueIn)
	qid := q.ID
	pid := q.ProductID

	return models.Task{
		ID:          bson.NewObjectID(),
		Title:       fmt.Sprintf("Installation for %s", productName),
		Description: q.Details,
		Priority:    models.TaskPriorityMedium,
		Status:      models.TaskStatusPending,
		Location:    location,
		DueDate:     &due,
		AssignedTo:  []bson.ObjectID{},
		CustomerID:  q.CustomerID,
		ProductID:   &pid,
		QuotationID: &qid,
		Comments:    []models.TaskComment{},
		Attachments: []models.TaskAttachment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SpawnGuardFilter matches any task already spawned from the quotation.
// Accepting the same quotation twice must not create a second task.
func SpawnGuardFilter(quotationID bson.ObjectID) bson.M {
	return bson.M{"quotationId": quotationID}
}
