package dto

type CreateQuotationDTO struct {
	CustomerID string  `json:"customerId" binding:"required"`
	ProductID  string  `json:"productId" binding:"required"`
	Price      float64 `json:"price" binding:"required,gt=0"`
	Details    string  `json:"details"`
	Region     string  `json:"region"`
}

// RequestQuotationDTO is the customer-facing variant; the customer comes
// from the session, not the body.
type RequestQuotationDTO struct {
	ProductID string `json:"productId" binding:"required"`
	Details   string `json:"details"`
}

type UpdateQuotationDTO struct {
	Status *string  `json:"status"`
	Price  *float64 `json:"price"`
}
