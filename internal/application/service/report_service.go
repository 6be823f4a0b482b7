package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/domain/repository"
	"github.com/sangkips/library-api/internal/infrastructure/report"
	"github.com/sangkips/library-api/internal/infrastructure/storage"
	"github.com/sangkips/library-api/pkg/apperror"
	"github.com/sangkips/library-api/pkg/metrics"
)

// Document is a rendered report ready for download.
type Document struct {
	FileName    string
	ContentType string
	Body        []byte
	// ArchiveKey is set when the document was also stored in the archive.
	ArchiveKey string
}

// ReportService renders accession and stock invoice PDFs
type ReportService struct {
	copyRepo     repository.BookCopyRepository
	stockRepo    repository.StockRepository
	authorRepo   repository.LookupRepository[entity.BookAuthor]
	languageRepo repository.LookupRepository[entity.BookLanguage]
	renderer     report.Renderer
	archive      storage.Archive
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewReportService creates a new report service. archive may be nil.
func NewReportService(
	copyRepo repository.BookCopyRepository,
	stockRepo repository.StockRepository,
	authorRepo repository.LookupRepository[entity.BookAuthor],
	languageRepo repository.LookupRepository[entity.BookLanguage],
	renderer report.Renderer,
	archive storage.Archive,
	m *metrics.Metrics,
) *ReportService {
	return &ReportService{
		copyRepo:     copyRepo,
		stockRepo:    stockRepo,
		authorRepo:   authorRepo,
		languageRepo: languageRepo,
		renderer:     renderer,
		archive:      archive,
		metrics:      m,
		now:          time.Now,
	}
}

// AccessionByAuthor renders the accession status of every copy by an author
func (s *ReportService) AccessionByAuthor(ctx context.Context, authorID uuid.UUID) (*Document, error) {
	author, err := s.authorRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load author: %w", err)
	}
	if author == nil {
		return nil, apperror.NewNotFoundError("Author")
	}
	return s.accession(ctx, repository.AccessionFilter{AuthorID: &authorID},
		"Author: "+author.Name, "accession-author-"+slug(author.Name))
}

// AccessionByPublication renders the accession status of a publication's copies
func (s *ReportService) AccessionByPublication(ctx context.Context, name string) (*Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.NewBadRequestError("Publication name is required")
	}
	return s.accession(ctx, repository.AccessionFilter{PublicationName: name},
		"Publication: "+name, "accession-publication-"+slug(name))
}

// AccessionByLanguage renders the accession status of copies in a language
func (s *ReportService) AccessionByLanguage(ctx context.Context, languageID uuid.UUID) (*Document, error) {
	language, err := s.languageRepo.GetByID(ctx, languageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load language: %w", err)
	}
	if language == nil {
		return nil, apperror.NewNotFoundError("Language")
	}
	return s.accession(ctx, repository.AccessionFilter{LanguageID: &languageID},
		"Language: "+language.Name, "accession-language-"+slug(language.Name))
}

func (s *ReportService) accession(ctx context.Context, filter repository.AccessionFilter, subtitle, name string) (*Document, error) {
	copies, err := s.copyRepo.AccessionReport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load copies: %w", err)
	}
	model := report.NewAccessionReport("Accession Status", subtitle, copies, s.now())
	body, err := s.renderer.Accession(ctx, model)
	s.metrics.ReportRendered("accession", err)
	if err != nil {
		return nil, apperror.NewInternalError("Failed to render report", err)
	}
	return s.finish(ctx, name+".pdf", body), nil
}

// StockInvoice renders a purchase invoice or scrap note
func (s *ReportService) StockInvoice(ctx context.Context, stockID uuid.UUID) (*Document, error) {
	stock, err := s.stockRepo.GetByID(ctx, stockID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}
	if stock == nil {
		return nil, apperror.NewNotFoundError("Stock")
	}
	inv := report.NewStockInvoice(stock)
	body, err := s.renderer.StockInvoice(ctx, inv)
	s.metrics.ReportRendered("stock_invoice", err)
	if err != nil {
		return nil, apperror.NewInternalError("Failed to render invoice", err)
	}
	return s.finish(ctx, inv.FileName(), body), nil
}

// finish archives the document when an archive is configured. Upload
// failures are logged and never fail the download.
func (s *ReportService) finish(ctx context.Context, name string, body []byte) *Document {
	doc := &Document{FileName: name, ContentType: report.ContentType, Body: body}
	if s.archive == nil {
		return doc
	}
	key, err := s.archive.Put(ctx, name, body, report.ContentType)
	if err != nil {
		slog.Warn("Failed to archive report", "file", name, "error", err)
		return doc
	}
	doc.ArchiveKey = key
	return doc
}

// slug lowercases name and keeps letters and digits, joining the rest with dashes.
func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
