package models

import (
	"gorm.io/datatypes"
)

// Report is a saved reporting view: a name plus the filter document that
// reproduces it. CreatedBy carries the author's email for attribution.
type Report struct {
	BaseModel
	Name      string         `gorm:"not null"`
	Type      string         `gorm:"default:'spend'"`
	Filters   datatypes.JSON `gorm:"type:jsonb"`
	Company   string         `gorm:"index"`
	CreatedBy string
}

// Preference holds one user's dashboard/view preferences as an explicit
// persisted document (replacing ambient browser-global storage).
type Preference struct {
	BaseModel
	UserID    string         `gorm:"uniqueIndex;not null"`
	Dashboard datatypes.JSON `gorm:"type:jsonb"`
}
