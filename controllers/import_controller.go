package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kvbsystems/kvbbackend/database"
	"github.com/kvbsystems/kvbbackend/utils"
	"github.com/xuri/excelize/v2"
)

// Bulk import endpoints take an xlsx "file" form part, parse the first
// sheet, and insert every valid row. Rows missing required fields are
// counted and reported back, not failed on.

func openWorkbook(c *gin.Context) (*excelize.File, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return nil, false
	}

	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open file"})
		return nil, false
	}
	defer src.Close()

	f, err := excelize.OpenReader(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid xlsx file"})
		return nil, false
	}
	return f, true
}

// POST /api/admin/bulk-import/products
func ImportProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := openWorkbook(c)
		if !ok {
			return
		}
		defer f.Close()

		products, skipped, err := utils.ParseProductRows(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		inserted := 0
		if len(products) > 0 {
			docs := make([]interface{}, 0, len(products))
			for _, p := range products {
				docs = append(docs, p)
			}
			col := database.OpenCollection("products")
			res, err := col.InsertMany(c.Request.Context(), docs)
			if err != nil && !utils.IsDuplicateKey(err) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if res != nil {
				inserted = len(res.InsertedIDs)
			}
		}

		c.JSON(http.StatusOK, gin.H{"inserted": inserted, "skipped": skipped})
	}
}

// POST /api/admin/bulk-import/customers
func ImportCustomers() gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := openWorkbook(c)
		if !ok {
			return
		}
		defer f.Close()

		customers, skipped, err := utils.ParseCustomerRows(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		inserted := 0
		if len(customers) > 0 {
			docs := make([]interface{}, 0, len(customers))
			for _, cu := range customers {
				docs = append(docs, cu)
			}
			col := database.OpenCollection("customers")
			res, err := col.InsertMany(c.Request.Context(), docs)
			if err != nil && !utils.IsDuplicateKey(err) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if res != nil {
				inserted = len(res.InsertedIDs)
			}
		}

		c.JSON(http.StatusOK, gin.H{"inserted": inserted, "skipped": skipped})
	}
}

// POST /api/admin/bulk-import/tasks
func ImportTasks() gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := openWorkbook(c)
		if !ok {
			return
		}
		defer f.Close()

		tasks, skipped, err := utils.ParseTaskRows(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		inserted := 0
		if len(tasks) > 0 {
			docs := make([]interface{}, 0, len(tasks))
			for _, t := range tasks {
				docs = append(docs, t)
			}
			col := database.OpenCollection("tasks")
			res, err := col.InsertMany(c.Request.Context(), docs)
			if err != nil && !utils.IsDuplicateKey(err) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if res != nil {
				inserted = len(res.InsertedIDs)
			}
		}

		c.JSON(http.StatusOK, gin.H{"inserted": inserted, "skipped": skipped})
	}
}
