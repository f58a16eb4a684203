package bootstrap

import (
	"fmt"
	"log"

	"anoa.com/dailyguessr/internal/config"
	"anoa.com/dailyguessr/internal/entity"
	leaderboardRepo "anoa.com/dailyguessr/internal/modules/leaderboard/repository"
	"anoa.com/dailyguessr/pkg/database"
)

// OpenLedgerRepository builds the ledger store selected by cfg.StorageDriver.
// The returned close func releases any connection it opened.
func OpenLedgerRepository(cfg *config.Config) (leaderboardRepo.LedgerRepository, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageFile:
		log.Printf("📁 Using file ledger at %s", cfg.ScoresFile)
		return leaderboardRepo.NewFileLedgerRepository(cfg.ScoresFile), func() {}, nil

	case config.StoragePostgres:
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := Migrate(db); err != nil {
			database.Close(db)
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
		return leaderboardRepo.NewPostgresLedgerRepository(db), func() { database.Close(db) }, nil

	case config.StorageMemory:
		log.Println("⚠️ Using in-memory ledger, scores are lost on restart")
		return leaderboardRepo.NewMemoryLedgerRepository(entity.NewLedger()), func() {}, nil
	}

	return nil, nil, fmt.Errorf("invalid storage driver %q", cfg.StorageDriver)
}
