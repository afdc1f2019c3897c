package models

import (
	"time"
)

// SaleSession records one finished sales conversation. It is immutable
// after creation except for the IsAnalyzed flag, which flips to true
// exactly once when analysis succeeds.
type SaleSession struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SalespersonID uint `gorm:"not null;index:idx_sessions_salesperson_date" json:"salespersonId"`
	CustomerID    uint `gorm:"not null;index" json:"customerId"`

	// Denormalized for display without a join
	CustomerName  string `gorm:"not null" json:"customerName"`
	CustomerPhone string `gorm:"not null" json:"customerPhone"`

	Transcript string `gorm:"type:text;not null" json:"transcript"`
	Duration   int    `gorm:"not null" json:"duration"` // seconds

	SessionDate time.Time `gorm:"not null;index:idx_sessions_salesperson_date,sort:desc" json:"sessionDate"`

	OrganizationID string `gorm:"not null" json:"organizationId"`
	ZoneID         string `gorm:"not null" json:"zoneId"`
	StoreID        string `gorm:"not null" json:"storeId"`

	IsAnalyzed bool `gorm:"default:false" json:"isAnalyzed"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
