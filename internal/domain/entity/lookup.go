package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookType is a shelf classification such as "Reference" or "Fiction".
type BookType struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;unique;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *BookType) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (BookType) TableName() string {
	return "book_types"
}

// BookAuthor is an author a book can be filed under.
type BookAuthor struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;unique;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *BookAuthor) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (BookAuthor) TableName() string {
	return "book_authors"
}

// BookPublication is a publishing house.
type BookPublication struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;unique;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *BookPublication) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (BookPublication) TableName() string {
	return "book_publications"
}

// BookLanguage is the language a book is written in.
type BookLanguage struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;unique;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *BookLanguage) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (BookLanguage) TableName() string {
	return "book_languages"
}

// Lookup is the shape shared by the name-only catalogue tables.
type Lookup interface {
	BookType | BookAuthor | BookPublication | BookLanguage
}

// LookupRow is satisfied by a pointer to a Lookup row.
type LookupRow[T Lookup] interface {
	*T
	GetID() uuid.UUID
	GetName() string
	SetName(name string)
}

func (b *BookType) GetID() uuid.UUID    { return b.ID }
func (b *BookType) GetName() string     { return b.Name }
func (b *BookType) SetName(name string) { b.Name = name }

func (b *BookAuthor) GetID() uuid.UUID    { return b.ID }
func (b *BookAuthor) GetName() string     { return b.Name }
func (b *BookAuthor) SetName(name string) { b.Name = name }

func (b *BookPublication) GetID() uuid.UUID    { return b.ID }
func (b *BookPublication) GetName() string     { return b.Name }
func (b *BookPublication) SetName(name string) { b.Name = name }

func (b *BookLanguage) GetID() uuid.UUID    { return b.ID }
func (b *BookLanguage) GetName() string     { return b.Name }
func (b *BookLanguage) SetName(name string) { b.Name = name }
