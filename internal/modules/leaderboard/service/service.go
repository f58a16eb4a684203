package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"anoa.com/dailyguessr/internal/entity"
	leaderboardRepo "anoa.com/dailyguessr/internal/modules/leaderboard/repository"
	"anoa.com/dailyguessr/pkg/apperror"
)

// LeaderboardService is the score ledger: the committed in-memory ledger plus
// its write-through persistence.
type LeaderboardService interface {
	// Load replaces the committed ledger with the persisted one.
	Load(ctx context.Context) error
	// SubmitScore records one submission and persists the full ledger before
	// returning. On error nothing is committed.
	SubmitScore(ctx context.Context, participantID, displayName string, points int64) (entity.ParticipantRecord, error)
	GetLeaderboard(limit int) []entity.ParticipantRecord
	GetParticipant(participantID string) (entity.ParticipantRecord, error)
	Snapshot() entity.Ledger
}

type leaderboardService struct {
	mu     sync.RWMutex
	repo   leaderboardRepo.LedgerRepository
	ledger entity.Ledger
}

func NewLeaderboardService(repo leaderboardRepo.LedgerRepository) LeaderboardService {
	return &leaderboardService{
		repo:   repo,
		ledger: entity.NewLedger(),
	}
}

func (s *leaderboardService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	s.ledger = ledger
	log.Printf("📒 Ledger loaded with %d participants", ledger.Len())
	return nil
}

// SubmitScore holds the write lock across mutate, persist and commit so two
// submissions can never both build on the same snapshot.
func (s *leaderboardService) SubmitScore(ctx context.Context, participantID, displayName string, points int64) (entity.ParticipantRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, record := s.ledger.Submit(participantID, displayName, points)

	if err := s.repo.Save(ctx, next); err != nil {
		if !errors.Is(err, apperror.ErrStorageWrite) {
			err = &apperror.StorageWriteError{Source: "ledger", Err: err}
		}
		log.Printf("❌ Failed to persist score for participant %s: %v", participantID, err)
		return entity.ParticipantRecord{}, err
	}

	s.ledger = next
	return record, nil
}

func (s *leaderboardService) GetLeaderboard(limit int) []entity.ParticipantRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.TopN(limit)
}

func (s *leaderboardService) GetParticipant(participantID string) (entity.ParticipantRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.ledger.Get(participantID)
	if !ok {
		return entity.ParticipantRecord{}, fmt.Errorf("participant %s: %w", participantID, apperror.ErrNotFound)
	}
	return record, nil
}

func (s *leaderboardService) Snapshot() entity.Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger
}
