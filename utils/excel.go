package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kvbsystems/kvbbackend/models"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Excel export/import for the admin bulk endpoints. Exports write one sheet
// with a header row; imports read the first sheet, skip the header, and
// skip (but count) rows missing required fields.

const exportSheet = "Sheet1"

func setRow(f *excelize.File, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func BuildCustomersWorkbook(customers []models.Customer) (*excelize.File, error) {
	f := excelize.NewFile()
	header := []interface{}{"ID", "Name", "Email", "Phone", "Address", "Region", "Active", "Created At"}
	if err := setRow(f, 1, header); err != nil {
		return nil, err
	}
	for i, cu := range customers {
		row := []interface{}{
			cu.ID.Hex(), cu.Name, cu.Email, cu.Phone, cu.Address, cu.Region,
			cu.IsActive, cu.CreatedAt.Format(time.RFC3339),
		}
		if err := setRow(f, i+2, row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func BuildWorkersWorkbook(workers []models.Worker) (*excelize.File, error) {
	f := excelize.NewFile()
	header := []interface{}{"ID", "Name", "Email", "Phone", "Skills", "Active", "Created At"}
	if err := setRow(f, 1, header); err != nil {
		return nil, err
	}
	for i, w := range workers {
		row := []interface{}{
			w.ID.Hex(), w.Name, w.Email, w.Phone, strings.Join(w.Skills, ", "),
			w.IsActive, w.CreatedAt.Format(time.RFC3339),
		}
		if err := setRow(f, i+2, row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func BuildProductsWorkbook(products []models.Product) (*excelize.File, error) {
	f := excelize.NewFile()
	header := []interface{}{"ID", "Name", "Slug", "Description", "Price", "Stock", "Disabled"}
	if err := setRow(f, 1, header); err != nil {
		return nil, err
	}
	for i, p := range products {
		row := []interface{}{
			p.ID.Hex(), p.Name, p.Slug, p.Description, p.Price, p.Stock, p.IsDisabled,
		}
		if err := setRow(f, i+2, row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func BuildTasksWorkbook(tasks []models.Task) (*excelize.File, error) {
	f := excelize.NewFile()
	header := []interface{}{"ID", "Title", "Status", "Priority", "Location", "Due Date", "Customer ID", "Workers", "Created At"}
	if err := setRow(f, 1, header); err != nil {
		return nil, err
	}
	for i, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format(time.RFC3339)
		}
		workers := make([]string, 0, len(t.AssignedTo))
		for _, w := range t.AssignedTo {
			workers = append(workers, w.Hex())
		}
		row := []interface{}{
			t.ID.Hex(), t.Title, string(t.Status), string(t.Priority), t.Location, due,
			t.CustomerID.Hex(), strings.Join(workers, ", "), t.CreatedAt.Format(time.RFC3339),
		}
		if err := setRow(f, i+2, row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// BuildSalesWorkbook exports the quotation pipeline — one row per
// quotation with its status and price.
func BuildSalesWorkbook(quotations []models.Quotation) (*excelize.File, error) {
	f := excelize.NewFile()
	header := []interface{}{"ID", "Customer ID", "Product ID", "Status", "Price", "Region", "Created At"}
	if err := setRow(f, 1, header); err != nil {
		return nil, err
	}
	for i, q := range quotations {
		row := []interface{}{
			q.ID.Hex(), q.CustomerID.Hex(), q.ProductID.Hex(), string(q.Status),
			q.Price, q.Region, q.CreatedAt.Format(time.RFC3339),
		}
		if err := setRow(f, i+2, row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func cellAt(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func firstSheetRows(f *excelize.File) ([][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// ParseProductRows reads rows of (name, description, specifications, price,
// stock). Rows with a missing name or unparseable price are skipped.
func ParseProductRows(f *excelize.File) ([]models.Product, int, error) {
	rows, err := firstSheetRows(f)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()
	products := make([]models.Product, 0, len(rows))
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		name := cellAt(row, 0)
		price, perr := strconv.ParseFloat(cellAt(row, 3), 64)
		if name == "" || perr != nil {
			skipped++
			continue
		}
		stock, _ := strconv.Atoi(cellAt(row, 4))

		products = append(products, models.Product{
			ID:             bson.NewObjectID(),
			Name:           name,
			Slug:           GenerateSlug(name),
			Description:    cellAt(row, 1),
			Specifications: cellAt(row, 2),
			Price:          price,
			Stock:          stock,
			ImageUrls:      []string{},
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	return products, skipped, nil
}

// ParseCustomerRows reads rows of (name, email, phone, address, region).
// Rows missing name or email are skipped. Imported customers start
// inactive with no password; they activate through the register flow.
func ParseCustomerRows(f *excelize.File) ([]models.Customer, int, error) {
	rows, err := firstSheetRows(f)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()
	customers := make([]models.Customer, 0, len(rows))
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			continue
		}
		name := cellAt(row, 0)
		email := strings.ToLower(cellAt(row, 1))
		if name == "" || email == "" {
			skipped++
			continue
		}

		customers = append(customers, models.Customer{
			ID:        bson.NewObjectID(),
			Name:      name,
			Email:     email,
			Phone:     cellAt(row, 2),
			Address:   cellAt(row, 3),
			Region:    cellAt(row, 4),
			IsActive:  false,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return customers, skipped, nil
}

// ParseTaskRows reads rows of (title, description, priority, location,
// due date RFC3339, customer id hex). Rows missing a title or a valid
// customer id are skipped.
func ParseTaskRows(f *excelize.File) ([]models.Task, int, error) {
	rows, err := firstSheetRows(f)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()
	tasks := make([]models.Task, 0, len(rows))
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			continue
		}
		title := cellAt(row, 0)
		customerID, cerr := bson.ObjectIDFromHex(cellAt(row, 5))
		if title == "" || cerr != nil {
			skipped++
			continue
		}

		priority := models.TaskPriority(cellAt(row, 2))
		switch priority {
		case models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh:
		default:
			priority = models.TaskPriorityMedium
		}

		var due *time.Time
		if raw := cellAt(row, 4); raw != "" {
			if d, derr := time.Parse(time.RFC3339, raw); derr == nil {
				due = &d
			}
		}

		tasks = append(tasks, models.Task{
			ID:          bson.NewObjectID(),
			Title:       title,
			Description: cellAt(row, 1),
			Priority:    priority,
			Status:      models.TaskStatusPending,
			Location:    cellAt(row, 3),
			DueDate:     due,
			AssignedTo:  []bson.ObjectID{},
			CustomerID:  customerID,
			Comments:    []models.TaskComment{},
			Attachments: []models.TaskAttachment{},
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	return tasks, skipped, nil
}
