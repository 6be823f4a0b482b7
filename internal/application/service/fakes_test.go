package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/domain/enum"
	"github.com/sangkips/library-api/internal/domain/repository"
	"github.com/sangkips/library-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// memStore is an in-memory stand-in for the database shared by the fake
// repositories below. Copy moves mirror the conditional updates of the
// gorm repositories.
type memStore struct {
	books        []*entity.Book
	copies       []*entity.BookCopy
	stocks       []*entity.Stock
	circulations []*entity.Circulation
	ledgers      []*entity.Ledger
	members      []*entity.Member
	users        []*entity.User
	sequences    map[string]string

	// duplicates makes the next n document inserts fail as if they lost a
	// race for their number.
	duplicates int
}

func newMemStore() *memStore {
	return &memStore{sequences: make(map[string]string)}
}

func (m *memStore) takeDuplicate() bool {
	if m.duplicates > 0 {
		m.duplicates--
		return true
	}
	return false
}

func (m *memStore) addLedger(name string) *entity.Ledger {
	l := &entity.Ledger{Name: name}
	_ = l.BeforeCreate(nil)
	m.ledgers = append(m.ledgers, l)
	return l
}

func (m *memStore) addMember(username string) *entity.Member {
	mem := &entity.Member{Username: username, Name: strings.ToUpper(username)}
	_ = mem.BeforeCreate(nil)
	m.members = append(m.members, mem)
	return mem
}

func (m *memStore) addBook(name string) *entity.Book {
	b := &entity.Book{Name: name}
	_ = b.BeforeCreate(nil)
	m.books = append(m.books, b)
	return b
}

func (m *memStore) addCopy(book *entity.Book, accessionNo string, rate string) *entity.BookCopy {
	c := &entity.BookCopy{
		BookID:      book.ID,
		AccessionNo: accessionNo,
		Rate:        decimal.RequireFromString(rate),
		Status:      enum.CopyStatusAvailable,
	}
	_ = c.BeforeCreate(nil)
	m.copies = append(m.copies, c)
	return c
}

func (m *memStore) copyByID(id uuid.UUID) *entity.BookCopy {
	for _, c := range m.copies {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (m *memStore) copyByNo(no string) *entity.BookCopy {
	for _, c := range m.copies {
		if c.AccessionNo == no {
			return c
		}
	}
	return nil
}

func (m *memStore) bookByID(id uuid.UUID) *entity.Book {
	for _, b := range m.books {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// fakeSequences implements repository.SequenceRepository.
type fakeSequences struct{ *memStore }

func (f fakeSequences) GetLast(_ context.Context, kind string) (string, error) {
	return f.sequences[kind], nil
}

func (f fakeSequences) SetLast(_ context.Context, kind, number string) error {
	f.sequences[kind] = number
	return nil
}

// fakeLedgers implements repository.LedgerRepository.
type fakeLedgers struct{ *memStore }

func (f fakeLedgers) Create(_ context.Context, l *entity.Ledger) error {
	_ = l.BeforeCreate(nil)
	f.ledgers = append(f.memStore.ledgers, l)
	return nil
}

func (f fakeLedgers) GetByID(_ context.Context, id uuid.UUID) (*entity.Ledger, error) {
	for _, l := range f.ledgers {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, nil
}

func (f fakeLedgers) GetByName(_ context.Context, name string) (*entity.Ledger, error) {
	for _, l := range f.ledgers {
		if strings.EqualFold(l.Name, name) {
			return l, nil
		}
	}
	return nil, nil
}

func (f fakeLedgers) Update(context.Context, *entity.Ledger) error { return nil }

func (f fakeLedgers) Delete(_ context.Context, id uuid.UUID) error {
	for i, l := range f.ledgers {
		if l.ID == id {
			f.memStore.ledgers = append(f.ledgers[:i], f.ledgers[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f fakeLedgers) List(context.Context, *pagination.PaginationParams, string) ([]entity.Ledger, int64, error) {
	out := make([]entity.Ledger, len(f.ledgers))
	for i, l := range f.ledgers {
		out[i] = *l
	}
	return out, int64(len(out)), nil
}

func (f fakeLedgers) HasStock(_ context.Context, id uuid.UUID) (bool, error) {
	for _, s := range f.stocks {
		if s.LedgerID != nil && *s.LedgerID == id {
			return true, nil
		}
	}
	return false, nil
}

// fakeMembers implements repository.MemberRepository.
type fakeMembers struct{ *memStore }

func (f fakeMembers) Create(_ context.Context, m *entity.Member) error {
	_ = m.BeforeCreate(nil)
	f.memStore.members = append(f.members, m)
	return nil
}

func (f fakeMembers) GetByID(_ context.Context, id uuid.UUID) (*entity.Member, error) {
	for _, m := range f.members {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (f fakeMembers) GetByUsername(_ context.Context, username string) (*entity.Member, error) {
	for _, m := range f.members {
		if m.Username == username {
			return m, nil
		}
	}
	return nil, nil
}

func (f fakeMembers) Update(context.Context, *entity.Member) error { return nil }
func (f fakeMembers) Delete(context.Context, uuid.UUID) error      { return nil }

func (f fakeMembers) List(context.Context, *pagination.PaginationParams, string) ([]entity.Member, int64, error) {
	return nil, 0, nil
}

func (f fakeMembers) HasCirculation(_ context.Context, id uuid.UUID) (bool, error) {
	for _, c := range f.circulations {
		if c.MemberID == id {
			return true, nil
		}
	}
	return false, nil
}

// fakeUsers implements repository.UserRepository.
type fakeUsers struct{ *memStore }

func (f fakeUsers) Create(_ context.Context, u *entity.User) error {
	_ = u.BeforeCreate(nil)
	f.memStore.users = append(f.users, u)
	return nil
}

func (f fakeUsers) find(match func(*entity.User) bool) (*entity.User, error) {
	for _, u := range f.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, nil
}

func (f fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return f.find(func(u *entity.User) bool { return u.ID == id })
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.find(func(u *entity.User) bool { return u.Email == email })
}

func (f fakeUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return f.find(func(u *entity.User) bool { return u.Username == username })
}

func (f fakeUsers) Update(context.Context, *entity.User) error { return nil }
func (f fakeUsers) Delete(context.Context, uuid.UUID) error    { return nil }

func (f fakeUsers) List(context.Context, *pagination.PaginationParams, string) ([]entity.User, int64, error) {
	return nil, 0, nil
}

// fakeBooks implements repository.BookRepository.
type fakeBooks struct{ *memStore }

func (f fakeBooks) Create(_ context.Context, b *entity.Book) error {
	_ = b.BeforeCreate(nil)
	f.memStore.books = append(f.books, b)
	return nil
}

func (f fakeBooks) CreateBatch(ctx context.Context, books []entity.Book) error {
	for i := range books {
		if err := f.Create(ctx, &books[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f fakeBooks) GetByID(_ context.Context, id uuid.UUID) (*entity.Book, error) {
	return f.bookByID(id), nil
}

func (f fakeBooks) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Book, error) {
	var out []entity.Book
	for _, id := range ids {
		if b := f.bookByID(id); b != nil {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f fakeBooks) Update(context.Context, *entity.Book) error { return nil }
func (f fakeBooks) Delete(context.Context, uuid.UUID) error    { return nil }

func (f fakeBooks) List(context.Context, *repository.BookFilterParams) ([]entity.Book, int64, error) {
	return nil, 0, nil
}

func (f fakeBooks) Count(context.Context) (int64, error) {
	return int64(len(f.books)), nil
}

func (f fakeBooks) ReferencedByLookup(_ context.Context, column string, id uuid.UUID) (bool, error) {
	for _, b := range f.books {
		switch {
		case column == "author_id" && b.AuthorID == id,
			column == "publication_id" && b.PublicationID == id,
			column == "language_id" && b.LanguageID != nil && *b.LanguageID == id,
			column == "book_type_id" && b.BookTypeID != nil && *b.BookTypeID == id:
			return true, nil
		}
	}
	return false, nil
}

// fakeCopies implements repository.BookCopyRepository.
type fakeCopies struct{ *memStore }

func (f fakeCopies) GetByID(_ context.Context, id uuid.UUID) (*entity.BookCopy, error) {
	return f.copyByID(id), nil
}

func (f fakeCopies) GetByAccessionNo(_ context.Context, no string) (*entity.BookCopy, error) {
	return f.copyByNo(no), nil
}

func (f fakeCopies) GetByAccessionNos(_ context.Context, nos []string) ([]entity.BookCopy, error) {
	var out []entity.BookCopy
	for _, c := range f.copies {
		for _, no := range nos {
			if c.AccessionNo == no {
				out = append(out, *c)
				break
			}
		}
	}
	return out, nil
}

func (f fakeCopies) List(context.Context, *repository.CopyFilterParams) ([]entity.BookCopy, int64, error) {
	return nil, 0, nil
}

func (f fakeCopies) ListIssuedTo(_ context.Context, memberID uuid.UUID) ([]entity.BookCopy, error) {
	var out []entity.BookCopy
	for _, c := range f.copies {
		if c.Status == enum.CopyStatusIssued && c.IssuedToID != nil && *c.IssuedToID == memberID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f fakeCopies) ListByPurchase(_ context.Context, purchaseID uuid.UUID) ([]entity.BookCopy, error) {
	var out []entity.BookCopy
	for _, c := range f.copies {
		if c.PurchaseID != nil && *c.PurchaseID == purchaseID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f fakeCopies) CountByBook(_ context.Context, bookID uuid.UUID) (int64, error) {
	var n int64
	for _, c := range f.copies {
		if c.BookID == bookID {
			n++
		}
	}
	return n, nil
}

func (f fakeCopies) LastAccessionNo(context.Context) (string, error) {
	if len(f.copies) == 0 {
		return "", nil
	}
	return f.copies[len(f.copies)-1].AccessionNo, nil
}

func (f fakeCopies) AccessionReport(_ context.Context, filter repository.AccessionFilter) ([]entity.BookCopy, error) {
	var out []entity.BookCopy
	for _, c := range f.copies {
		b := f.bookByID(c.BookID)
		if b == nil || filter.AuthorID == nil || b.AuthorID != *filter.AuthorID {
			continue
		}
		row := *c
		row.Book = b
		out = append(out, row)
	}
	return out, nil
}

// fakeStocks implements repository.StockRepository.
type fakeStocks struct{ *memStore }

func (f fakeStocks) insert(stock *entity.Stock) error {
	if f.takeDuplicate() {
		return gorm.ErrDuplicatedKey
	}
	for _, s := range f.stocks {
		if s.Type == stock.Type && s.InvoiceNo == stock.InvoiceNo {
			return gorm.ErrDuplicatedKey
		}
	}
	_ = stock.BeforeCreate(nil)
	for i := range stock.Details {
		_ = stock.Details[i].BeforeCreate(nil)
		stock.Details[i].StockID = stock.ID
	}
	f.memStore.stocks = append(f.stocks, stock)
	return nil
}

func (f fakeStocks) insertCopies(stock *entity.Stock, copies []entity.BookCopy) error {
	for _, c := range copies {
		if f.copyByNo(c.AccessionNo) != nil {
			return gorm.ErrDuplicatedKey
		}
	}
	for i := range copies {
		c := copies[i]
		_ = c.BeforeCreate(nil)
		c.PurchaseID = &stock.ID
		f.memStore.copies = append(f.memStore.copies, &c)
	}
	return nil
}

// purchaseCopies fails with ErrCopyStateChanged if a copy of the purchase
// has left the shelf.
func (f fakeStocks) purchaseCopies(id uuid.UUID) error {
	for _, c := range f.copies {
		if c.PurchaseID != nil && *c.PurchaseID == id && c.Status != enum.CopyStatusAvailable {
			return repository.ErrCopyStateChanged
		}
	}
	return nil
}

func (f fakeStocks) dropCopies(purchaseID uuid.UUID) {
	kept := f.copies[:0]
	for _, c := range f.copies {
		if c.PurchaseID == nil || *c.PurchaseID != purchaseID {
			kept = append(kept, c)
		}
	}
	f.memStore.copies = kept
}

func (f fakeStocks) dropStock(id uuid.UUID) {
	for i, s := range f.stocks {
		if s.ID == id {
			f.memStore.stocks = append(f.stocks[:i], f.stocks[i+1:]...)
			return
		}
	}
}

func (f fakeStocks) CreatePurchase(_ context.Context, stock *entity.Stock, copies []entity.BookCopy) error {
	for _, c := range copies {
		if f.copyByNo(c.AccessionNo) != nil {
			return gorm.ErrDuplicatedKey
		}
	}
	if err := f.insert(stock); err != nil {
		return err
	}
	return f.insertCopies(stock, copies)
}

func (f fakeStocks) ReplacePurchase(_ context.Context, stock *entity.Stock, copies []entity.BookCopy) error {
	if err := f.purchaseCopies(stock.ID); err != nil {
		return err
	}
	f.dropCopies(stock.ID)
	for i := range stock.Details {
		_ = stock.Details[i].BeforeCreate(nil)
		stock.Details[i].StockID = stock.ID
	}
	return f.insertCopies(stock, copies)
}

func (f fakeStocks) DeletePurchase(_ context.Context, id uuid.UUID) error {
	if err := f.purchaseCopies(id); err != nil {
		return err
	}
	f.dropCopies(id)
	f.dropStock(id)
	return nil
}

func (f fakeStocks) CreateScrap(_ context.Context, stock *entity.Stock) error {
	for _, d := range stock.Details {
		if c := f.copyByID(*d.BookCopyID); c == nil || c.Status != enum.CopyStatusAvailable {
			return repository.ErrCopyStateChanged
		}
	}
	if err := f.insert(stock); err != nil {
		return err
	}
	for _, d := range stock.Details {
		f.copyByID(*d.BookCopyID).Status = enum.CopyStatusScrapped
	}
	return nil
}

func (f fakeStocks) DeleteScrap(_ context.Context, id uuid.UUID) error {
	stock, _ := f.GetByID(context.Background(), id)
	for _, d := range stock.Details {
		if c := f.copyByID(*d.BookCopyID); c != nil && c.Status == enum.CopyStatusScrapped {
			c.Status = enum.CopyStatusAvailable
		}
	}
	f.dropStock(id)
	return nil
}

func (f fakeStocks) GetByID(_ context.Context, id uuid.UUID) (*entity.Stock, error) {
	for _, s := range f.stocks {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (f fakeStocks) GetByInvoiceNo(_ context.Context, t enum.StockType, invoiceNo string) (*entity.Stock, error) {
	for _, s := range f.stocks {
		if s.Type == t && s.InvoiceNo == invoiceNo {
			return s, nil
		}
	}
	return nil, nil
}

func (f fakeStocks) LastInvoiceNo(_ context.Context, t enum.StockType) (string, error) {
	for i := len(f.stocks) - 1; i >= 0; i-- {
		if f.stocks[i].Type == t {
			return f.stocks[i].InvoiceNo, nil
		}
	}
	return "", nil
}

func (f fakeStocks) List(_ context.Context, params *repository.StockFilterParams) ([]entity.Stock, int64, error) {
	var out []entity.Stock
	for _, s := range f.stocks {
		if s.Type == params.Type {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (f fakeStocks) ListDetailRows(_ context.Context, params *repository.StockFilterParams) ([]repository.StockDetailRow, error) {
	var rows []repository.StockDetailRow
	for i := len(f.stocks) - 1; i >= 0; i-- {
		s := f.stocks[i]
		if s.Type != params.Type {
			continue
		}
		for _, d := range s.Details {
			row := repository.StockDetailRow{
				StockID:     s.ID,
				InvoiceNo:   s.InvoiceNo,
				InvoiceDate: s.InvoiceDate,
				GrandTotal:  s.GrandTotal,
				DetailID:    d.ID,
				BookID:      d.BookID,
				Quantity:    d.Quantity,
				Rate:        d.Rate,
				Amount:      d.Amount,
			}
			if d.BookCopyID != nil {
				if c := f.copyByID(*d.BookCopyID); c != nil {
					no := c.AccessionNo
					row.AccessionNo = &no
				}
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// fakeCirculations implements repository.CirculationRepository.
type fakeCirculations struct{ *memStore }

func (f fakeCirculations) create(c *entity.Circulation, ok func(*entity.BookCopy) bool, move func(*entity.BookCopy)) error {
	if f.takeDuplicate() {
		return gorm.ErrDuplicatedKey
	}
	for _, existing := range f.circulations {
		if existing.Type == c.Type && existing.DocumentNo == c.DocumentNo {
			return gorm.ErrDuplicatedKey
		}
	}
	for _, e := range c.Entries {
		if bc := f.copyByID(e.BookCopyID); bc == nil || !ok(bc) {
			return repository.ErrCopyStateChanged
		}
	}
	_ = c.BeforeCreate(nil)
	for i := range c.Entries {
		_ = c.Entries[i].BeforeCreate(nil)
		c.Entries[i].CirculationID = c.ID
		move(f.copyByID(c.Entries[i].BookCopyID))
	}
	f.memStore.circulations = append(f.circulations, c)
	return nil
}

func (f fakeCirculations) CreateIssue(_ context.Context, c *entity.Circulation) error {
	memberID := c.MemberID
	return f.create(c,
		func(bc *entity.BookCopy) bool { return bc.Status == enum.CopyStatusAvailable },
		func(bc *entity.BookCopy) {
			bc.Status = enum.CopyStatusIssued
			bc.IssuedToID = &memberID
		})
}

func (f fakeCirculations) CreateReturn(_ context.Context, c *entity.Circulation) error {
	return f.create(c,
		func(bc *entity.BookCopy) bool {
			return bc.Status == enum.CopyStatusIssued && bc.IssuedToID != nil && *bc.IssuedToID == c.MemberID
		},
		func(bc *entity.BookCopy) {
			bc.Status = enum.CopyStatusAvailable
			bc.IssuedToID = nil
		})
}

func (f fakeCirculations) Delete(_ context.Context, id uuid.UUID) error {
	for i, c := range f.circulations {
		if c.ID != id {
			continue
		}
		for _, e := range c.Entries {
			bc := f.copyByID(e.BookCopyID)
			if bc == nil {
				continue
			}
			switch {
			case c.Type == enum.CirculationTypeIssue && bc.Status == enum.CopyStatusIssued &&
				bc.IssuedToID != nil && *bc.IssuedToID == c.MemberID:
				bc.Status = enum.CopyStatusAvailable
				bc.IssuedToID = nil
			case c.Type == enum.CirculationTypeReturn && bc.Status == enum.CopyStatusAvailable:
				memberID := c.MemberID
				bc.Status = enum.CopyStatusIssued
				bc.IssuedToID = &memberID
			}
		}
		f.memStore.circulations = append(f.circulations[:i], f.circulations[i+1:]...)
		return nil
	}
	return nil
}

func (f fakeCirculations) GetByID(_ context.Context, id uuid.UUID) (*entity.Circulation, error) {
	for _, c := range f.circulations {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f fakeCirculations) GetByDocumentNo(_ context.Context, t enum.CirculationType, no string) (*entity.Circulation, error) {
	for _, c := range f.circulations {
		if c.Type == t && c.DocumentNo == no {
			return c, nil
		}
	}
	return nil, nil
}

func (f fakeCirculations) LastDocumentNo(_ context.Context, t enum.CirculationType) (string, error) {
	for i := len(f.circulations) - 1; i >= 0; i-- {
		if f.circulations[i].Type == t {
			return f.circulations[i].DocumentNo, nil
		}
	}
	return "", nil
}

func (f fakeCirculations) ListEntryRows(_ context.Context, params *repository.CirculationFilterParams) ([]repository.CirculationEntryRow, error) {
	var rows []repository.CirculationEntryRow
	for i := len(f.circulations) - 1; i >= 0; i-- {
		c := f.circulations[i]
		if params.Type != nil && c.Type != *params.Type {
			continue
		}
		for _, e := range c.Entries {
			row := repository.CirculationEntryRow{
				CirculationID: c.ID,
				Type:          c.Type,
				DocumentNo:    c.DocumentNo,
				Date:          c.Date,
				BookID:        e.BookID,
			}
			if bc := f.copyByID(e.BookCopyID); bc != nil {
				row.AccessionNo = bc.AccessionNo
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// fakeLookups implements repository.LookupRepository for any lookup table.
type fakeLookups[T entity.Lookup, P entity.LookupRow[T]] struct {
	items []*T
}

func (f *fakeLookups[T, P]) Create(_ context.Context, item *T) error {
	if hook, ok := any(item).(interface{ BeforeCreate(*gorm.DB) error }); ok {
		_ = hook.BeforeCreate(nil)
	}
	f.items = append(f.items, item)
	return nil
}

func (f *fakeLookups[T, P]) GetByID(_ context.Context, id uuid.UUID) (*T, error) {
	for _, it := range f.items {
		if P(it).GetID() == id {
			return it, nil
		}
	}
	return nil, nil
}

func (f *fakeLookups[T, P]) GetByName(_ context.Context, name string) (*T, error) {
	for _, it := range f.items {
		if strings.EqualFold(P(it).GetName(), name) {
			return it, nil
		}
	}
	return nil, nil
}

func (f *fakeLookups[T, P]) Update(context.Context, *T) error { return nil }

func (f *fakeLookups[T, P]) Delete(_ context.Context, id uuid.UUID) error {
	for i, it := range f.items {
		if P(it).GetID() == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeLookups[T, P]) List(context.Context, *pagination.PaginationParams, string) ([]T, int64, error) {
	out, _ := f.All(context.Background())
	return out, int64(len(out)), nil
}

func (f *fakeLookups[T, P]) All(context.Context) ([]T, error) {
	out := make([]T, len(f.items))
	for i, it := range f.items {
		out[i] = *it
	}
	sort.Slice(out, func(i, j int) bool { return P(&out[i]).GetName() < P(&out[j]).GetName() })
	return out, nil
}

func testPrefixes() map[string]string {
	return map[string]string{
		KindPurchase:  "TIN",
		KindScrap:     "BSN",
		KindIssue:     "ISS",
		KindReturn:    "RET",
		KindAccession: "ACC",
	}
}

func newTestSequences(m *memStore) *SequenceService {
	return NewSequenceService(fakeSequences{m}, testPrefixes())
}
