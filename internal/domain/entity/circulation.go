package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Circulation records copies issued to or returned by a member.
type Circulation struct {
	ID         uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	Type       enum.CirculationType `gorm:"not null;uniqueIndex:idx_circulations_type_document" json:"type"`
	DocumentNo string               `gorm:"size:100;not null;uniqueIndex:idx_circulations_type_document" json:"document_no"`
	Date       time.Time            `gorm:"type:date;not null" json:"date"`
	MemberID   uuid.UUID            `gorm:"type:uuid;not null;index" json:"member_id"`
	Quantity   int                  `gorm:"not null" json:"quantity"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
	DeletedAt  gorm.DeletedAt       `gorm:"index" json:"-"`

	// Relationships
	Member  *Member            `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Entries []CirculationEntry `gorm:"foreignKey:CirculationID" json:"entries,omitempty"`
}

// BeforeCreate generates a UUID before creating a new circulation
func (c *Circulation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Circulation model
func (Circulation) TableName() string {
	return "circulations"
}

// CirculationEntry is one copy moved by a circulation.
type CirculationEntry struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CirculationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"circulation_id"`
	BookID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"book_id"`
	BookCopyID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"book_copy_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Book     *Book     `gorm:"foreignKey:BookID" json:"book,omitempty"`
	BookCopy *BookCopy `gorm:"foreignKey:BookCopyID" json:"book_copy,omitempty"`
}

// BeforeCreate generates a UUID before creating a new entry
func (e *CirculationEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CirculationEntry model
func (CirculationEntry) TableName() string {
	return "circulation_entries"
}
