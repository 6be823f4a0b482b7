package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/pkg/apperror"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
)

type catalogueFixture struct {
	store        *memStore
	authors      *fakeLookups[entity.BookAuthor, *entity.BookAuthor]
	publications *fakeLookups[entity.BookPublication, *entity.BookPublication]
	languages    *fakeLookups[entity.BookLanguage, *entity.BookLanguage]
	bookTypes    *fakeLookups[entity.BookType, *entity.BookType]
	authorSvc    *AuthorService
	books        *BookService
}

func newCatalogueFixture() *catalogueFixture {
	store := newMemStore()
	f := &catalogueFixture{
		store:        store,
		authors:      &fakeLookups[entity.BookAuthor, *entity.BookAuthor]{},
		publications: &fakeLookups[entity.BookPublication, *entity.BookPublication]{},
		languages:    &fakeLookups[entity.BookLanguage, *entity.BookLanguage]{},
		bookTypes:    &fakeLookups[entity.BookType, *entity.BookType]{},
	}
	bookRepo := fakeBooks{store}
	f.authorSvc = NewLookupService[entity.BookAuthor, *entity.BookAuthor](f.authors, bookRepo, "author_id", "Author")
	f.books = NewBookService(bookRepo, fakeCopies{store},
		f.authorSvc,
		NewLookupService[entity.BookPublication, *entity.BookPublication](f.publications, bookRepo, "publication_id", "Publication"),
		NewLookupService[entity.BookLanguage, *entity.BookLanguage](f.languages, bookRepo, "language_id", "Language"),
		NewLookupService[entity.BookType, *entity.BookType](f.bookTypes, bookRepo, "book_type_id", "Book type"),
	)
	return f
}

func TestLookupCreateAndRename(t *testing.T) {
	ctx := context.Background()
	f := newCatalogueFixture()

	premchand, err := f.authorSvc.Create(ctx, "  Premchand ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if premchand.Name != "Premchand" {
		t.Errorf("name not trimmed: %q", premchand.Name)
	}

	_, err = f.authorSvc.Create(ctx, "premchand")
	assertKind(t, err, apperror.KindConflict)

	_, err = f.authorSvc.Create(ctx, "")
	assertKind(t, err, apperror.KindValidation)

	tagore, _ := f.authorSvc.Create(ctx, "Tagore")
	_, err = f.authorSvc.Update(ctx, tagore.ID, "Premchand")
	assertKind(t, err, apperror.KindConflict)

	renamed, err := f.authorSvc.Update(ctx, premchand.ID, "Munshi Premchand")
	if err != nil || renamed.Name != "Munshi Premchand" {
		t.Errorf("Update = %v, %v", renamed, err)
	}

	found, err := f.authorSvc.FindOrCreate(ctx, "tagore")
	if err != nil || found.ID != tagore.ID {
		t.Errorf("FindOrCreate should match case-insensitively, got %v, %v", found, err)
	}

	_, err = f.authorSvc.Get(ctx, uuid.New())
	assertKind(t, err, apperror.KindNotFound)
}

func TestLookupDeleteInUse(t *testing.T) {
	ctx := context.Background()
	f := newCatalogueFixture()
	author, _ := f.authorSvc.Create(ctx, "R. K. Narayan")
	book := f.store.addBook("Swami and Friends")
	book.AuthorID = author.ID

	assertKind(t, f.authorSvc.Delete(ctx, author.ID), apperror.KindConflict)

	book.AuthorID = uuid.New()
	if err := f.authorSvc.Delete(ctx, author.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(f.authors.items) != 0 {
		t.Error("author not removed")
	}
}

func TestDeleteBookWithCopies(t *testing.T) {
	ctx := context.Background()
	f := newCatalogueFixture()
	book := f.store.addBook("Train to Pakistan")
	f.store.addCopy(book, "ACC1", "199")

	assertKind(t, f.books.DeleteBook(ctx, book.ID), apperror.KindConflict)
}

func xlsxBook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestImportBooks(t *testing.T) {
	ctx := context.Background()
	f := newCatalogueFixture()
	if _, err := f.authorSvc.Create(ctx, "Premchand"); err != nil {
		t.Fatal(err)
	}

	file := xlsxBook(t, [][]interface{}{
		{"Name", "ISBN", "Author", "Publication", "Language", "Book Type"},
		{"Godan", "9788126703012", "premchand", "Rajkamal", "Hindi", "Novel"},
		{"", "", "Someone", "Somewhere", "", ""},
		{},
		{"Nirmala", "", "Premchand", "Rajkamal", "Hindi", ""},
		{"Orphan", "", "", "Rajkamal", "", ""},
	})

	result, err := f.books.ImportBooks(ctx, file)
	if err != nil {
		t.Fatalf("ImportBooks: %v", err)
	}
	if result.Created != 2 || result.Skipped != 2 {
		t.Errorf("created %d skipped %d, want 2 and 2", result.Created, result.Skipped)
	}
	if len(result.Errors) != 2 || result.Errors[0].Row != 3 || result.Errors[1].Row != 6 {
		t.Errorf("errors = %+v, want rows 3 and 6", result.Errors)
	}
	if len(f.authors.items) != 1 {
		t.Errorf("existing author duplicated: %d authors", len(f.authors.items))
	}
	if len(f.publications.items) != 1 || len(f.languages.items) != 1 || len(f.bookTypes.items) != 1 {
		t.Error("missing lookups were not created exactly once")
	}
	if len(f.store.books) != 2 || f.store.books[0].ISBN == nil || *f.store.books[0].ISBN != "9788126703012" {
		t.Errorf("books not stored as expected: %+v", f.store.books)
	}
}

func TestImportBooksRejectsBadFiles(t *testing.T) {
	ctx := context.Background()
	f := newCatalogueFixture()

	_, err := f.books.ImportBooks(ctx, strings.NewReader("name,author\nGodan,Premchand\n"))
	assertKind(t, err, apperror.KindBadRequest)

	_, err = f.books.ImportBooks(ctx, xlsxBook(t, [][]interface{}{{"Title", "Writer"}, {"Godan", "Premchand"}}))
	appErr := assertKind(t, err, apperror.KindValidation)
	if len(appErr.Errors) != 3 {
		t.Errorf("want one error per missing column, got %+v", appErr.Errors)
	}
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewUserService(fakeUsers{store})

	user, err := svc.CreateUser(ctx, &UserInput{Name: "Librarian", Username: "lib", Email: "lib@example.org", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Password == "s3cret-pass" {
		t.Fatal("password stored in clear text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret-pass")); err != nil {
		t.Errorf("stored hash does not match: %v", err)
	}

	tests := []struct {
		name string
		in   UserInput
		kind apperror.Kind
	}{
		{"short password", UserInput{Username: "a", Email: "a@example.org", Password: "short"}, apperror.KindValidation},
		{"bad email", UserInput{Username: "b", Email: "nope", Password: "long-enough"}, apperror.KindValidation},
		{"taken username", UserInput{Username: "lib", Email: "c@example.org", Password: "long-enough"}, apperror.KindConflict},
		{"taken email", UserInput{Username: "d", Email: "lib@example.org", Password: "long-enough"}, apperror.KindConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			_, err := svc.CreateUser(ctx, &in)
			assertKind(t, err, tt.kind)
		})
	}

	hash := user.Password
	updated, err := svc.UpdateUser(ctx, user.ID, &UserInput{Name: "Head Librarian", Username: "lib", Email: "lib@example.org"})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Password != hash {
		t.Error("blank password on update changed the hash")
	}
}

func TestLedgerDeleteWithInvoices(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewLedgerService(fakeLedgers{store})
	ledger := store.addLedger("National Book Trust")
	store.stocks = append(store.stocks, &entity.Stock{ID: uuid.New(), LedgerID: &ledger.ID})

	assertKind(t, svc.DeleteLedger(ctx, ledger.ID), apperror.KindConflict)

	_, err := svc.CreateLedger(ctx, &LedgerInput{Name: "national book trust"})
	assertKind(t, err, apperror.KindConflict)
}

func TestMemberUsernameUnique(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewMemberService(fakeMembers{store})
	store.addMember("asha")

	_, err := svc.CreateMember(ctx, &MemberInput{Username: "asha", Name: "Another Asha"})
	assertKind(t, err, apperror.KindConflict)

	_, err = svc.CreateMember(ctx, &MemberInput{Username: "", Name: ""})
	appErr := assertKind(t, err, apperror.KindValidation)
	if len(appErr.Errors) != 2 {
		t.Errorf("errors = %+v", appErr.Errors)
	}
}
