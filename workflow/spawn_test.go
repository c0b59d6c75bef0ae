package workflow

import (
	"testing"
	"time"

	"github.com/kvbsystems/kvbbackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestBuildInstallationTask(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	q := models.Quotation{
		ID:         bson.NewObjectID(),
		CustomerID: bson.NewObjectID(),
		ProductID:  bson.NewObjectID(),
		Details:    "3kW rooftop system",
		Price:      120000,
		Status:     models.QuotationStatusAccepted,
	}
	customer := models.Customer{
		ID:      q.CustomerID,
		Name:    "Asha Nair",
		Email:   "asha@example.com",
		Address: "12 Beach Road, Kochi",
	}

	task := BuildInstallationTask(q, customer, "SolarMax 3000", now)

	assert.Equal(t, "Installation for SolarMax 3000", task.Title)
	assert.Equal(t, "3kW rooftop system", task.Description)
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
	assert.Equal(t, "12 Beach Road, Kochi", task.Location)
	assert.Equal(t, q.CustomerID, task.CustomerID)

	require.NotNil(t, task.ProductID)
	assert.Equal(t, q.ProductID, *task.ProductID)
	require.NotNil(t, task.QuotationID)
	assert.Equal(t, q.ID, *task.QuotationID)

	require.NotNil(t, task.DueDate)
	assert.Equal(t, now.Add(7*24*time.Hour), *task.DueDate)

	// workers are staffed later by an admin
	assert.Empty(t, task.AssignedTo)
	assert.NotNil(t, task.Comments)
	assert.NotNil(t, task.Attachments)
}

func TestBuildInstallationTaskNoAddress(t *testing.T) {
	now := time.Now().UTC()
	q := models.Quotation{ID: bson.NewObjectID(), CustomerID: bson.NewObjectID(), ProductID: bson.NewObjectID()}

	task := BuildInstallationTask(q, models.Customer{ID: q.CustomerID}, "Heat Pump", now)
	assert.Equal(t, "To be confirmed", task.Location)
}

func TestSpawnGuardFilter(t *testing.T) {
	qid := bson.NewObjectID()
	filter := SpawnGuardFilter(qid)
	assert.Equal(t, bson.M{"quotationId": qid}, filter)
}
