package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleSales    Role = "SALES"
	RoleWorker   Role = "WORKER"
	RoleCustomer Role = "CUSTOMER"
)

// CollectionForRole maps each principal type to its collection.
func CollectionForRole(r Role) string {
	switch r {
	case RoleAdmin:
		return "admins"
	case RoleSales:
		return "sales_users"
	case RoleWorker:
		return "workers"
	case RoleCustomer:
		return "customers"
	}
	return ""
}

type Admin struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"passwordHash" json:"-"` // never expose
	IsActive     bool          `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

type SalesUser struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Email        string        `bson:"email" json:"email"`
	Phone        string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Region       string        `bson:"region,omitempty" json:"region,omitempty"`
	PasswordHash string        `bson:"passwordHash" json:"-"`
	IsActive     bool          `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

type Worker struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Email        string        `bson:"email" json:"email"`
	Phone        string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Skills       []string      `bson:"skills,omitempty" json:"skills,omitempty"`
	PasswordHash string        `bson:"passwordHash" json:"-"`
	IsActive     bool          `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

type Customer struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Email        string        `bson:"email" json:"email"`
	Phone        string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string        `bson:"address,omitempty" json:"address,omitempty"`
	Region       string        `bson:"region,omitempty" json:"region,omitempty"`
	PasswordHash string        `bson:"passwordHash" json:"-"`
	IsActive     bool          `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// StaffRef tags a staff reference with the principal type that owns it,
// instead of a loose discriminator string next to a bare id.
type StaffRef struct {
	Kind Role          `bson:"kind" json:"kind"`
	ID   bson.ObjectID `bson:"id" json:"id"`
}

type RefreshToken struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	UserID     bson.ObjectID `bson:"userId"`
	Role       Role          `bson:"role"`
	TokenHash  string        `bson:"tokenHash"`
	ExpiresAt  time.Time     `bson:"expiresAt"`
	CreatedAt  time.Time     `bson:"createdAt"`
	RevokedAt  *time.Time    `bson:"revokedAt,omitempty"`
	ReplacedBy *string       `bson:"replacedBy,omitempty"`
}
