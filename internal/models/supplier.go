package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Условия оплаты поставщика.
const (
	PaymentTermsNet15        = "net_15"
	PaymentTermsNet30        = "net_30"
	PaymentTermsNet45        = "net_45"
	PaymentTermsNet60        = "net_60"
	PaymentTermsDueOnReceipt = "due_on_receipt"
	PaymentTermsPrepaid      = "prepaid"
)

// Статусы поставщика.
const (
	SupplierStatusActive   = "active"
	SupplierStatusInactive = "inactive"
	SupplierStatusPending  = "pending"
)

// Supplier представляет поставщика в каталоге организации.
type Supplier struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID string             `bson:"organization_id" json:"organization_id"`
	Name           string             `bson:"name" json:"name"`
	ContactName    string             `bson:"contact_name,omitempty" json:"contact_name,omitempty"`
	Email          string             `bson:"email" json:"email"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	LocationID     string             `bson:"location_id,omitempty" json:"location_id,omitempty"`
	PaymentTerms   string             `bson:"payment_terms" json:"payment_terms"` // net_15 ... prepaid
	LeadTimeDays   int                `bson:"lead_time_days,omitempty" json:"lead_time_days,omitempty"`
	Rating         float64            `bson:"rating,omitempty" json:"rating,omitempty"`
	Status         string             `bson:"status" json:"status"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// SupplierUpdate описывает частичное обновление поставщика.
// Пустые строки и nil-указатели оставляют поле без изменений.
type SupplierUpdate struct {
	Name         string
	ContactName  string
	Email        string
	Phone        string
	LocationID   string
	PaymentTerms string
	LeadTimeDays *int
	Rating       *float64
	Status       string
	Notes        string
}
