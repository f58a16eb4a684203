package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anoa.com/dailyguessr/internal/entity"
	leaderboardRepo "anoa.com/dailyguessr/internal/modules/leaderboard/repository"
	leaderboardService "anoa.com/dailyguessr/internal/modules/leaderboard/service"
	"anoa.com/dailyguessr/pkg/apperror"
)

func newLoadedService(t *testing.T, initial entity.Ledger) (leaderboardService.LeaderboardService, *leaderboardRepo.MemoryLedgerRepository) {
	t.Helper()
	repo := leaderboardRepo.NewMemoryLedgerRepository(initial)
	svc := leaderboardService.NewLeaderboardService(repo)
	require.NoError(t, svc.Load(context.Background()))
	return svc, repo
}

func TestSubmitScore_WritesThroughBeforeReturning(t *testing.T) {
	svc, repo := newLoadedService(t, entity.NewLedger())
	ctx := context.Background()

	rec, err := svc.SubmitScore(ctx, "u1", "Alice", 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), rec.BestScore)
	assert.Equal(t, 1, rec.TotalGames)

	stored, ok := repo.Stored().Get("u1")
	require.True(t, ok)
	assert.Equal(t, rec, stored)
	assert.Equal(t, 1, repo.Saves())

	rec, err = svc.SubmitScore(ctx, "u1", "Alice", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(42), rec.BestScore)
	assert.Equal(t, 2, rec.TotalGames)
	require.NotNil(t, rec.TodayScore)
	assert.Equal(t, int64(10), *rec.TodayScore)
	assert.Equal(t, 2, repo.Saves())
}

func TestSubmitScore_FailedSaveIsNotCommitted(t *testing.T) {
	svc, repo := newLoadedService(t, entity.NewLedger())
	ctx := context.Background()

	_, err := svc.SubmitScore(ctx, "u1", "Alice", 42)
	require.NoError(t, err)

	repo.FailSaves(errors.New("disk full"))
	_, err = svc.SubmitScore(ctx, "u1", "Alice", 9000)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrStorageWrite)

	_, err = svc.SubmitScore(ctx, "u2", "Bob", 1)
	require.Error(t, err)

	rec, err := svc.GetParticipant("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), rec.BestScore)
	assert.Equal(t, 1, rec.TotalGames)

	_, err = svc.GetParticipant("u2")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// a retry after recovery applies exactly once
	repo.FailSaves(nil)
	rec, err = svc.SubmitScore(ctx, "u1", "Alice", 9000)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), rec.BestScore)
	assert.Equal(t, 2, rec.TotalGames)
}

type plainFailingRepo struct {
	leaderboardRepo.LedgerRepository
}

func (plainFailingRepo) Save(context.Context, entity.Ledger) error {
	return errors.New("connection reset")
}

func TestSubmitScore_WrapsUntypedSaveErrors(t *testing.T) {
	svc := leaderboardService.NewLeaderboardService(plainFailingRepo{leaderboardRepo.NewMemoryLedgerRepository(entity.NewLedger())})

	_, err := svc.SubmitScore(context.Background(), "u1", "Alice", 1)

	assert.ErrorIs(t, err, apperror.ErrStorageWrite)
}

func TestLoad_PropagatesCorruption(t *testing.T) {
	repo := leaderboardRepo.NewMemoryLedgerRepository(entity.NewLedger())
	repo.FailLoads(&apperror.StorageCorruptError{Source: "scores.json", Err: errors.New("bad json")})
	svc := leaderboardService.NewLeaderboardService(repo)

	err := svc.Load(context.Background())

	assert.ErrorIs(t, err, apperror.ErrStorageCorrupt)
	assert.Equal(t, 0, svc.Snapshot().Len())
}

func TestLoad_UsesPersistedLedger(t *testing.T) {
	initial, _ := entity.Ledger{}.Submit("u9", "Nine", 900)
	svc, _ := newLoadedService(t, initial)

	rec, err := svc.GetParticipant("u9")

	require.NoError(t, err)
	assert.Equal(t, "Nine", rec.DisplayName)
}

func TestGetLeaderboard_StableOrder(t *testing.T) {
	svc, _ := newLoadedService(t, entity.NewLedger())
	ctx := context.Background()
	for _, sub := range []struct {
		id     string
		points int64
	}{{"A", 5}, {"B", 20}, {"C", 20}, {"D", 1}} {
		_, err := svc.SubmitScore(ctx, sub.id, sub.id, sub.points)
		require.NoError(t, err)
	}

	top := svc.GetLeaderboard(2)

	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].ID)
	assert.Equal(t, "C", top[1].ID)
	assert.Empty(t, svc.GetLeaderboard(0))
}

func TestSubmitScore_ConcurrentSubmissionsAreNotLost(t *testing.T) {
	svc, repo := newLoadedService(t, entity.NewLedger())
	ctx := context.Background()

	const participants = 20
	const perParticipant = 15

	var wg sync.WaitGroup
	for p := 0; p < participants; p++ {
		for i := 0; i < perParticipant; i++ {
			wg.Add(1)
			go func(p, i int) {
				defer wg.Done()
				_, err := svc.SubmitScore(ctx, fmt.Sprintf("u%d", p), "player", int64(i))
				assert.NoError(t, err)
			}(p, i)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.GetLeaderboard(10)
		}()
	}
	wg.Wait()

	stored := repo.Stored()
	assert.Equal(t, participants, stored.Len())
	for _, rec := range stored.Records() {
		assert.Equal(t, perParticipant, rec.TotalGames)
		assert.Equal(t, int64(perParticipant-1), rec.BestScore)
	}
	assert.Equal(t, participants*perParticipant, repo.Saves())
}
