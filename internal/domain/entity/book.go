package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Book is a catalogue title. Physical copies are BookCopy rows.
type Book struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name          string         `gorm:"size:255;not null;index" json:"name"`
	ISBN          *string        `gorm:"size:20" json:"isbn,omitempty"`
	AuthorID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	PublicationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"publication_id"`
	LanguageID    *uuid.UUID     `gorm:"type:uuid;index" json:"language_id,omitempty"`
	BookTypeID    *uuid.UUID     `gorm:"type:uuid;index" json:"book_type_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Author      *BookAuthor      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Publication *BookPublication `gorm:"foreignKey:PublicationID" json:"publication,omitempty"`
	Language    *BookLanguage    `gorm:"foreignKey:LanguageID" json:"language,omitempty"`
	BookType    *BookType        `gorm:"foreignKey:BookTypeID" json:"book_type,omitempty"`
}

// BeforeCreate generates a UUID before creating a new book
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Book model
func (Book) TableName() string {
	return "books"
}

// BookCopy is one physical copy identified by its accession number.
type BookCopy struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BookID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"book_id"`
	AccessionNo string          `gorm:"size:100;unique;not null" json:"accession_no"`
	Rate        decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"rate"`
	Status      enum.CopyStatus `gorm:"default:0;index" json:"status"`
	PurchaseID  *uuid.UUID      `gorm:"type:uuid;index" json:"purchase_id,omitempty"`
	IssuedToID  *uuid.UUID      `gorm:"type:uuid;index" json:"issued_to_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Book     *Book   `gorm:"foreignKey:BookID" json:"book,omitempty"`
	IssuedTo *Member `gorm:"foreignKey:IssuedToID" json:"issued_to,omitempty"`
}

// BeforeCreate generates a UUID before creating a new copy
func (bc *BookCopy) BeforeCreate(tx *gorm.DB) error {
	if bc.ID == uuid.Nil {
		bc.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BookCopy model
func (BookCopy) TableName() string {
	return "book_copies"
}

// IsAvailable reports whether the copy is on the shelf.
func (bc *BookCopy) IsAvailable() bool {
	return bc.Status == enum.CopyStatusAvailable
}
