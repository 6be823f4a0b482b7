package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/application/service"
)

// NameRequest creates or renames a book type, author, publication or language
type NameRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// BookRequest represents a book create/update request
type BookRequest struct {
	Name          string     `json:"name" binding:"required,max=255"`
	ISBN          *string    `json:"isbn" binding:"omitempty,max=20"`
	AuthorID      uuid.UUID  `json:"author_id"`
	PublicationID uuid.UUID  `json:"publication_id"`
	LanguageID    *uuid.UUID `json:"language_id"`
	BookTypeID    *uuid.UUID `json:"book_type_id"`
}

// ToInput converts the request to service input
func (r *BookRequest) ToInput() *service.BookInput {
	return &service.BookInput{
		Name:          r.Name,
		ISBN:          r.ISBN,
		AuthorID:      r.AuthorID,
		PublicationID: r.PublicationID,
		LanguageID:    r.LanguageID,
		BookTypeID:    r.BookTypeID,
	}
}

// LedgerRequest represents a ledger create/update request
type LedgerRequest struct {
	Name    string  `json:"name" binding:"required,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Address *string `json:"address"`
	GSTIN   *string `json:"gstin" binding:"omitempty,len=15"`
}

// ToInput converts the request to service input
func (r *LedgerRequest) ToInput() *service.LedgerInput {
	return &service.LedgerInput{Name: r.Name, Email: r.Email, Phone: r.Phone, Address: r.Address, GSTIN: r.GSTIN}
}

// MemberRequest represents a member create/update request
type MemberRequest struct {
	Username string  `json:"username" binding:"required,max=255"`
	Name     string  `json:"name" binding:"required,max=255"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=50"`
	Address  *string `json:"address"`
}

// ToInput converts the request to service input
func (r *MemberRequest) ToInput() *service.MemberInput {
	return &service.MemberInput{Username: r.Username, Name: r.Name, Email: r.Email, Phone: r.Phone, Address: r.Address}
}

// UserRequest represents a staff user create/update request
type UserRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Username string `json:"username" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

// ToInput converts the request to service input
func (r *UserRequest) ToInput() *service.UserInput {
	return &service.UserInput{Name: r.Name, Username: r.Username, Email: r.Email, Password: r.Password}
}
