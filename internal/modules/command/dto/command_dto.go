package dto

import leaderboardDto "anoa.com/dailyguessr/internal/modules/leaderboard/dto"

// SubmitScoreRequest is the /score command as forwarded by the chat bridge.
// Points is a pointer so that a score of 0 still passes "required".
type SubmitScoreRequest struct {
	ParticipantID string `json:"participant_id" binding:"required,max=64"`
	DisplayName   string `json:"display_name" binding:"required,max=100"`
	Points        *int64 `json:"points" binding:"required"`
}

// Embed is a rich message block rendered by the chat bridge.
type Embed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	Color       int    `json:"color"`
}

// Reply is what the chat bridge posts back to the channel.
type Reply struct {
	Content string                              `json:"content,omitempty"`
	Embed   *Embed                              `json:"embed,omitempty"`
	Record  *leaderboardDto.ParticipantResponse `json:"record,omitempty"`
}
