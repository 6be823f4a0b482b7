package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sangkips/library-api/internal/config"
	domainRepo "github.com/sangkips/library-api/internal/domain/repository"
	"github.com/sangkips/library-api/internal/infrastructure/database"
	"gorm.io/gorm"
)

// OpenSequenceRepository returns the sequence store selected by
// SEQUENCE_STORE. The returned close func releases any extra connection.
func OpenSequenceRepository(ctx context.Context, cfg *config.Config, db *gorm.DB) (domainRepo.SequenceRepository, func(context.Context) error, error) {
	switch cfg.Sequence.Store {
	case "", "postgres":
		return NewSequenceRepository(db), func(context.Context) error { return nil }, nil
	case "mongo":
		mdb, err := database.NewMongoDB(ctx, &cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("document sequences stored in MongoDB")
		return NewMongoSequenceRepository(mdb.Database), mdb.Disconnect, nil
	default:
		return nil, nil, fmt.Errorf("unknown SEQUENCE_STORE %q", cfg.Sequence.Store)
	}
}
