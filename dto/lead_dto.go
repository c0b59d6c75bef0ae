package dto

type CreateLeadDTO struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Region  string `json:"region"`
	Source  string `json:"source"`
	Message string `json:"message"`
}

// UpdateLeadDTO updates the status and/or appends a note in one call.
type UpdateLeadDTO struct {
	Status *string `json:"status"`
	Note   *string `json:"note"`
}

type AddLeadNoteDTO struct {
	Message string `json:"message" binding:"required,min=1,max=5000"`
}

// ConvertLeadDTO drafts a quotation from a lead.
type ConvertLeadDTO struct {
	CustomerID string  `json:"customerId" binding:"required"`
	ProductID  string  `json:"productId" binding:"required"`
	Price      float64 `json:"price" binding:"required,gt=0"`
	Details    string  `json:"details"`
}
