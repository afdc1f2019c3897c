package models

import (
	"time"

	"gorm.io/datatypes"
)

// Mistake pairs an exact quote from the transcript with an improvement
// suggestion from the model.
type Mistake struct {
	Statement string `json:"statement"`
	Comment   string `json:"comment"`
}

// Analytics is the structured scoring record produced by analyzing a
// session transcript. The unique index on SessionID enforces at most
// one record per session; only FollowupMessage may change after
// creation.
type Analytics struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SessionID     uint `gorm:"not null;uniqueIndex" json:"sessionId"`
	SalespersonID uint `gorm:"not null;index:idx_analytics_salesperson_date" json:"salespersonId"`
	CustomerID    uint `gorm:"not null;index" json:"customerId"`

	// Scores are clamped into [0,100] before persistence
	PitchScore  int `gorm:"not null" json:"pitchScore"`
	BuyerIntent int `gorm:"not null" json:"buyerIntent"`

	Objections datatypes.JSONSlice[string]  `json:"objections"`
	Mistakes   datatypes.JSONSlice[Mistake] `json:"mistakes"`
	Insights   datatypes.JSONSlice[string]  `json:"insights"`

	FollowupMessage string `gorm:"type:text;not null" json:"followupMessage"`

	AnalysisDate time.Time `gorm:"not null;index:idx_analytics_salesperson_date,sort:desc" json:"analysisDate"`

	OrganizationID string `gorm:"not null" json:"organizationId"`
	ZoneID         string `gorm:"not null" json:"zoneId"`
	StoreID        string `gorm:"not null" json:"storeId"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
