package dto

import "time"

type CreateTaskDTO struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Location    string     `json:"location"`
	DueDate     *time.Time `json:"dueDate"`
	CustomerID  string     `json:"customerId" binding:"required"`
	ProductID   string     `json:"productId"`
	AssignedTo  []string   `json:"assignedTo"`
}

type UpdateTaskDTO struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Location    *string    `json:"location"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateTaskStatusDTO is the worker-side status change, with an optional
// comment recorded in the same call.
type UpdateTaskStatusDTO struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

type AddTaskCommentDTO struct {
	Comment string `json:"comment" binding:"required,min=1,max=5000"`
}

type AssignTaskDTO struct {
	AssignedTo []string `json:"assignedTo" binding:"required,min=1"`
}
