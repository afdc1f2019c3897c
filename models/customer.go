package models

import (
	"time"
)

// Customer is deduplicated by the (name, phone, organization) triple.
// The composite unique index is the backstop against concurrent
// creation of the same customer.
type Customer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name           string `gorm:"not null;uniqueIndex:idx_customers_identity" json:"name"`
	Phone          string `gorm:"not null;uniqueIndex:idx_customers_identity" json:"phone"`
	OrganizationID string `gorm:"not null;uniqueIndex:idx_customers_identity" json:"organizationId"`

	ZoneID  string `gorm:"not null" json:"zoneId"`
	StoreID string `gorm:"not null" json:"storeId"`

	CreatedByID uint `gorm:"not null;index" json:"createdBy"`

	// Contact aggregates, maintained once per new session
	TotalSessions   int       `gorm:"default:0" json:"totalSessions"`
	LastContactDate time.Time `gorm:"index" json:"lastContactDate"`

	Notes string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relations
	Sessions []SaleSession `gorm:"foreignKey:CustomerID" json:"sessions,omitempty"`
}
