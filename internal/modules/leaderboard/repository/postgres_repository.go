package repository

import (
	"context"
	"fmt"

	"anoa.com/dailyguessr/internal/entity"
	"anoa.com/dailyguessr/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const saveBatchSize = 500

type postgresLedgerRepository struct {
	db *gorm.DB
}

// NewPostgresLedgerRepository stores the ledger as one participant_scores row
// per participant. Run bootstrap.Migrate before first use.
func NewPostgresLedgerRepository(db *gorm.DB) LedgerRepository {
	return &postgresLedgerRepository{db: db}
}

func (r *postgresLedgerRepository) Load(ctx context.Context) (entity.Ledger, error) {
	var rows []entity.ParticipantScore
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return entity.Ledger{}, fmt.Errorf("load participant scores: %w", err)
	}

	records := make([]entity.ParticipantRecord, 0, len(rows))
	for _, row := range rows {
		if row.TotalGames < 0 {
			return entity.Ledger{}, &apperror.StorageCorruptError{
				Source: entity.ParticipantScore{}.TableName(),
				Err:    fmt.Errorf("participant %q has negative total_games %d", row.ParticipantID, row.TotalGames),
			}
		}
		records = append(records, entity.ParticipantRecord{
			ID:          row.ParticipantID,
			DisplayName: row.DisplayName,
			BestScore:   row.BestScore,
			TotalGames:  row.TotalGames,
			TodayScore:  row.TodayScore,
		})
	}

	return entity.NewLedger(records...), nil
}

// Save upserts every record inside one transaction. Records are never
// deleted from a ledger, so an upsert of the full set equals a rewrite.
func (r *postgresLedgerRepository) Save(ctx context.Context, ledger entity.Ledger) error {
	records := ledger.Records()
	if len(records) == 0 {
		return nil
	}

	rows := make([]entity.ParticipantScore, 0, len(records))
	for i, rec := range records {
		rows = append(rows, entity.ParticipantScore{
			ParticipantID: rec.ID,
			Position:      i,
			DisplayName:   rec.DisplayName,
			BestScore:     rec.BestScore,
			TotalGames:    rec.TotalGames,
			TodayScore:    rec.TodayScore,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "participant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"position", "display_name", "best_score", "total_games", "today_score", "updated_at",
			}),
		}).CreateInBatches(rows, saveBatchSize).Error
	})
	if err != nil {
		return &apperror.StorageWriteError{Source: entity.ParticipantScore{}.TableName(), Err: err}
	}
	return nil
}
