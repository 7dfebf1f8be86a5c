package models

// Attachment is a contract/invoice blob stored inline with its metadata.
// Within one subscription no two attachments may share both name and byte
// size (duplicate-submission guard).
type Attachment struct {
	BaseModel
	SubscriptionID string         `gorm:"not null;index"`
	Name           string         `gorm:"not null"` // sanitized, max 200 chars
	Type           AttachmentType `gorm:"default:'other'"`
	Size           int64          `gorm:"not null"`
	MimeType       string
	Data           []byte `gorm:"type:bytea" json:"-"`
}
