package dto

// CreateEnquiryDTO is parsed from the "data" multipart field (JSON);
// optional file parts ride alongside it.
type CreateEnquiryDTO struct {
	ProductID string `json:"productId" binding:"required"`
	Message   string `json:"message" binding:"required,min=5,max=8000"`
}

type UpdateEnquiryStatusDTO struct {
	Status string `json:"status" binding:"required"`
}
