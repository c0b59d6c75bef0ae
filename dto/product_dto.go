package dto

type CreateProductDTO struct {
	Name           string  `json:"name" binding:"required,min=3"`
	Slug           string  `json:"slug"` // auto-generated from Name if empty
	Description    string  `json:"description"`
	Specifications string  `json:"specifications"`
	Price          float64 `json:"price" binding:"required,gt=0"`
	Stock          int     `json:"stock" binding:"gte=0"`
	IsDisabled     bool    `json:"isDisabled"`
}

type UpdateProductDTO struct {
	Name              *string  `json:"name,omitempty"`
	Slug              *string  `json:"slug,omitempty"`
	Description       *string  `json:"description,omitempty"`
	Specifications    *string  `json:"specifications,omitempty"`
	Price             *float64 `json:"price,omitempty"`
	Stock             *int     `json:"stock,omitempty"`
	IsDisabled        *bool    `json:"isDisabled,omitempty"`
	RemovedImagesUrls []string `json:"removedImagesUrls,omitempty"`
}
