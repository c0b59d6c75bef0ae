package dto

type LoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterCustomerDTO struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Region   string `json:"region"`
}

// CreateStaffDTO covers admin-created sales users and workers.
type CreateStaffDTO struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Phone    string   `json:"phone"`
	Region   string   `json:"region"`
	Skills   []string `json:"skills"`
}

type UpdateStaffDTO struct {
	Name     *string   `json:"name"`
	Phone    *string   `json:"phone"`
	Region   *string   `json:"region"`
	Skills   *[]string `json:"skills"`
	IsActive *bool     `json:"isActive"`
}

type UpdateCustomerDTO struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Region   *string `json:"region"`
	IsActive *bool   `json:"isActive"`
}
