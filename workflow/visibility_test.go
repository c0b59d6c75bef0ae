package workflow

import (
	"testing"

	"github.com/kvbsystems/kvbbackend/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestWorkerTaskFilters(t *testing.T) {
	workerID := bson.NewObjectID()
	taskID := bson.NewObjectID()

	assert.Equal(t, bson.M{"assignedTo": workerID}, WorkerTaskFilter(workerID))
	assert.Equal(t, bson.M{"_id": taskID, "assignedTo": workerID}, WorkerTaskByIDFilter(taskID, workerID))
}

func TestCustomerFilters(t *testing.T) {
	customerID := bson.NewObjectID()

	assert.Equal(t, bson.M{"customerId": customerID}, CustomerQuotationFilter(customerID))
	assert.Equal(t, bson.M{"customerId": customerID}, CustomerEnquiryFilter(customerID))
}

func TestSalesLeadFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, SalesLeadFilter(true))
	assert.Equal(t, bson.M{"status": bson.M{"$ne": "deleted"}}, SalesLeadFilter(false))
}

func TestPublicProductView(t *testing.T) {
	p := models.Product{
		ID:             bson.NewObjectID(),
		Name:           "SolarMax 3000",
		Slug:           "solarmax-3000",
		Description:    "3kW rooftop kit",
		Specifications: "should not leak",
		Price:          120000,
		Stock:          4,
		ImageUrls:      []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
	}

	view := PublicProductView(p)
	assert.Equal(t, p.ID.Hex(), view.ID)
	assert.Equal(t, "SolarMax 3000", view.Name)
	assert.Equal(t, "3kW rooftop kit", view.Description)
	assert.Equal(t, "https://cdn.example.com/a.jpg", view.Image)
}

func TestPublicProductViewNoImages(t *testing.T) {
	view := PublicProductView(models.Product{ID: bson.NewObjectID(), Name: "Bare"})
	assert.Empty(t, view.Image)
}
