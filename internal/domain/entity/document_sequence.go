package entity

import "time"

// DocumentSequence holds the last document number issued for a kind.
type DocumentSequence struct {
	Kind       string    `gorm:"size:50;primary_key" json:"kind" bson:"_id"`
	LastNumber string    `gorm:"size:100;not null" json:"last_number" bson:"last_number"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// TableName returns the table name for the DocumentSequence model
func (DocumentSequence) TableName() string {
	return "document_sequences"
}
