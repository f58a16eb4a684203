package dto

import "anoa.com/dailyguessr/internal/entity"

// ParticipantResponse is a participant record as served over the API.
type ParticipantResponse struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	BestScore     int64  `json:"best_score"`
	TotalGames    int    `json:"total_games"`
	TodayScore    *int64 `json:"today_score"`
}

// LeaderboardEntry represents a single participant entry in the leaderboard.
type LeaderboardEntry struct {
	Position int `json:"position"` // 1-based position in leaderboard
	ParticipantResponse
}

type LeaderboardQuery struct {
	Limit int `form:"limit"`
}

func NewParticipantResponse(rec entity.ParticipantRecord) ParticipantResponse {
	return ParticipantResponse{
		ParticipantID: rec.ID,
		DisplayName:   rec.DisplayName,
		BestScore:     rec.BestScore,
		TotalGames:    rec.TotalGames,
		TodayScore:    rec.TodayScore,
	}
}

func NewLeaderboardEntries(records []entity.ParticipantRecord) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(records))
	for i, rec := range records {
		entries = append(entries, LeaderboardEntry{
			Position:            i + 1,
			ParticipantResponse: NewParticipantResponse(rec),
		})
	}
	return entries
}
