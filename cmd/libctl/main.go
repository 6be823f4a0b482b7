// Command libctl runs maintenance tasks against the library database:
// migrations, seeding, sequence repair and offline report generation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/application/service"
	"github.com/sangkips/library-api/internal/config"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/infrastructure/database"
	"github.com/sangkips/library-api/internal/infrastructure/report"
	"github.com/sangkips/library-api/internal/infrastructure/repository"
	"github.com/sangkips/library-api/pkg/logging"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

// env carries the connections a command needs. Commands open only what
// they use.
type env struct {
	cfg *config.Config
	db  *gorm.DB
}

func openEnv() (*env, error) {
	cfg := config.Load()
	logging.Setup(cfg.Log.Level)
	db, err := database.NewPostgresDB(&cfg.Database, false)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, db: db}, nil
}

func (e *env) close() {
	if err := database.Close(e.db); err != nil {
		slog.Warn("failed to close database", "error", err)
	}
}

// withEnv wraps a command action with database setup and teardown.
func withEnv(action func(c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := openEnv()
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		defer e.close()
		return action(c, e)
	}
}

func (e *env) sequences(ctx context.Context) (*service.SequenceService, func(context.Context) error, error) {
	repo, closeFn, err := repository.OpenSequenceRepository(ctx, e.cfg, e.db)
	if err != nil {
		return nil, nil, err
	}
	prefixes := make(map[string]string, len(config.SequenceKinds))
	for _, kind := range config.SequenceKinds {
		prefixes[kind] = e.cfg.Sequence.Prefix(kind)
	}
	return service.NewSequenceService(repo, prefixes), closeFn, nil
}

func main() {
	app := &cli.App{
		Name:  "libctl",
		Usage: "library maintenance commands",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "create or update database tables",
				Action: withEnv(func(c *cli.Context, e *env) error {
					return database.AutoMigrate(e.db)
				}),
			},
			{
				Name:  "seed",
				Usage: "insert default lookups and the admin user",
				Action: withEnv(func(c *cli.Context, e *env) error {
					return database.SeedDefaultData(e.db)
				}),
			},
			{
				Name:      "next-number",
				Usage:     "print the next number of a sequence kind",
				ArgsUsage: "<purchase|scrap|issue|return|accession>",
				Action: withEnv(func(c *cli.Context, e *env) error {
					if c.NArg() != 1 {
						return cli.Exit("expected one sequence kind", 2)
					}
					seq, closeFn, err := e.sequences(c.Context)
					if err != nil {
						return err
					}
					defer closeFn(context.Background())
					number, err := seq.Peek(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, number)
					return nil
				}),
			},
			{
				Name:  "sequences",
				Usage: "sequence maintenance",
				Subcommands: []*cli.Command{
					{
						Name:  "rebuild",
						Usage: "reset every sequence from the last saved document",
						Action: withEnv(func(c *cli.Context, e *env) error {
							seq, closeFn, err := e.sequences(c.Context)
							if err != nil {
								return err
							}
							defer closeFn(context.Background())
							sources := service.DocumentSources(
								repository.NewStockRepository(e.db),
								repository.NewCirculationRepository(e.db),
								repository.NewBookCopyRepository(e.db),
							)
							rebuilt, err := seq.Rebuild(c.Context, sources)
							if err != nil {
								return err
							}
							kinds := make([]string, 0, len(rebuilt))
							for kind := range rebuilt {
								kinds = append(kinds, kind)
							}
							sort.Strings(kinds)
							for _, kind := range kinds {
								fmt.Fprintf(c.App.Writer, "%-10s %s\n", kind, rebuilt[kind])
							}
							return nil
						}),
					},
				},
			},
			{
				Name:  "prune-idempotency",
				Usage: "delete expired idempotency keys",
				Action: withEnv(func(c *cli.Context, e *env) error {
					n, err := repository.NewIdempotencyRepository(e.db).DeleteExpired(c.Context)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "deleted %d expired keys\n", n)
					return nil
				}),
			},
			{
				Name:  "report",
				Usage: "render a PDF report to a file",
				Subcommands: []*cli.Command{
					reportCommand("author", "accession status of an author's books", func(c *cli.Context, s *service.ReportService) (*service.Document, error) {
						id, err := uuid.Parse(c.Args().First())
						if err != nil {
							return nil, fmt.Errorf("invalid author id: %w", err)
						}
						return s.AccessionByAuthor(c.Context, id)
					}),
					reportCommand("publication", "accession status of a publication", func(c *cli.Context, s *service.ReportService) (*service.Document, error) {
						return s.AccessionByPublication(c.Context, c.Args().First())
					}),
					reportCommand("language", "accession status of a language", func(c *cli.Context, s *service.ReportService) (*service.Document, error) {
						id, err := uuid.Parse(c.Args().First())
						if err != nil {
							return nil, fmt.Errorf("invalid language id: %w", err)
						}
						return s.AccessionByLanguage(c.Context, id)
					}),
					reportCommand("stock", "purchase or scrap invoice", func(c *cli.Context, s *service.ReportService) (*service.Document, error) {
						id, err := uuid.Parse(c.Args().First())
						if err != nil {
							return nil, fmt.Errorf("invalid stock id: %w", err)
						}
						return s.StockInvoice(c.Context, id)
					}),
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("libctl failed", "error", err)
		os.Exit(1)
	}
}

func reportCommand(name, usage string, render func(*cli.Context, *service.ReportService) (*service.Document, error)) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<id or name>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default: report file name)"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			if c.NArg() != 1 {
				return cli.Exit("expected one argument", 2)
			}
			renderer, err := report.NewRenderer(&e.cfg.Report)
			if err != nil {
				return err
			}
			reports := service.NewReportService(
				repository.NewBookCopyRepository(e.db),
				repository.NewStockRepository(e.db),
				repository.NewLookupRepository[entity.BookAuthor](e.db),
				repository.NewLookupRepository[entity.BookLanguage](e.db),
				renderer, nil, nil,
			)
			doc, err := render(c, reports)
			if err != nil {
				return err
			}
			out := c.String("out")
			if out == "" {
				out = doc.FileName
			}
			if err := os.WriteFile(out, doc.Body, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "wrote %s (%d bytes)\n", out, len(doc.Body))
			return nil
		}),
	}
}
