package models

import (
	"time"
)

// Default tags assigned to salespeople who log in without an explicit
// organization/zone/store assignment.
const (
	DefaultOrganizationID   = "ORG001"
	DefaultOrganizationName = "TechCorp Solutions"
	DefaultZoneID           = "ZONE001"
	DefaultStoreID          = "STORE001"
)

// User represents a salesperson account. There are no passwords; the
// mobile number is the identity and the client keeps the returned
// record locally.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name   string `gorm:"not null" json:"name"`
	Mobile string `gorm:"uniqueIndex;not null" json:"mobile"`

	// Flat scoping tags, no hierarchy enforced
	OrganizationID   string `gorm:"not null" json:"organizationId"`
	OrganizationName string `gorm:"not null" json:"organizationName"`
	ZoneID           string `gorm:"not null" json:"zoneId"`
	StoreID          string `gorm:"not null" json:"storeId"`

	IsActive bool `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relations
	Sessions  []SaleSession `gorm:"foreignKey:SalespersonID" json:"sessions,omitempty"`
	Customers []Customer    `gorm:"foreignKey:CreatedByID" json:"customers,omitempty"`
}
