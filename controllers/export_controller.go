package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kvbsystems/kvbbackend/database"
	"github.com/kvbsystems/kvbbackend/models"
	"github.com/kvbsystems/kvbbackend/utils"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func findAll[T any](c *gin.Context, collection string) ([]T, error) {
	ctx := c.Request.Context()
	col := database.OpenCollection(collection)

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, cursor.Err()
}

// ====== ExportData (admin) ==================================================
// GET /api/admin/export/:type
// type is one of customers, workers, products, tasks, sales. The "sales"
// export is the quotation pipeline. Streams an xlsx attachment.
func ExportData() gin.HandlerFunc {
	return func(c *gin.Context) {
		exportType := c.Param("type")

		var f *excelize.File
		var err error

		switch exportType {
		case "customers":
			var customers []models.Customer
			if customers, err = findAll[models.Customer](c, "customers"); err == nil {
				f, err = utils.BuildCustomersWorkbook(customers)
			}
		case "workers":
			var workers []models.Worker
			if workers, err = findAll[models.Worker](c, "workers"); err == nil {
				f, err = utils.BuildWorkersWorkbook(workers)
			}
		case "products":
			var products []models.Product
			if products, err = findAll[models.Product](c, "products"); err == nil {
				f, err = utils.BuildProductsWorkbook(products)
			}
		case "tasks":
			var tasks []models.Task
			if tasks, err = findAll[models.Task](c, "tasks"); err == nil {
				f, err = utils.BuildTasksWorkbook(tasks)
			}
		case "sales":
			var quotations []models.Quotation
			if quotations, err = findAll[models.Quotation](c, "quotations"); err == nil {
				f, err = utils.BuildSalesWorkbook(quotations)
			}
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown export type", "allowed": []string{"customers", "workers", "products", "tasks", "sales"}})
			return
		}

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()

		filename := fmt.Sprintf("%s-%s.xlsx", exportType, time.Now().UTC().Format("2006-01-02"))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

		if err := f.Write(c.Writer); err != nil {
			// headers already sent; nothing left to do but log via gin
			_ = c.Error(err)
		}
	}
}
