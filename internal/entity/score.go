package entity

import (
	"sort"
	"time"
)

// ParticipantRecord is the stored score state of one participant.
// The json tags are the on-disk contract of the scores file; ID is the key of
// the enclosing object and is not repeated inside the value.
type ParticipantRecord struct {
	ID          string `json:"-"`
	DisplayName string `json:"name"`
	BestScore   int64  `json:"best"`
	TotalGames  int    `json:"totalGames"`
	TodayScore  *int64 `json:"today"`
}

func (r ParticipantRecord) clone() ParticipantRecord {
	if r.TodayScore != nil {
		today := *r.TodayScore
		r.TodayScore = &today
	}
	return r
}

// Ledger maps participant ids to their records and remembers the order in
// which ids were first seen. A Ledger is a value: operations return a new
// Ledger and never modify the receiver. The zero Ledger is empty and usable.
type Ledger struct {
	order   []string
	records map[string]ParticipantRecord
}

// NewLedger builds a Ledger from records in the given order. A repeated id
// keeps its first position and takes the last value.
func NewLedger(records ...ParticipantRecord) Ledger {
	l := Ledger{
		order:   make([]string, 0, len(records)),
		records: make(map[string]ParticipantRecord, len(records)),
	}
	for _, rec := range records {
		if _, ok := l.records[rec.ID]; !ok {
			l.order = append(l.order, rec.ID)
		}
		l.records[rec.ID] = rec.clone()
	}
	return l
}

func (l Ledger) Len() int {
	return len(l.order)
}

// Get returns a copy of the record stored for id.
func (l Ledger) Get(id string) (ParticipantRecord, bool) {
	rec, ok := l.records[id]
	if !ok {
		return ParticipantRecord{}, false
	}
	return rec.clone(), true
}

// Records returns copies of all records in insertion order.
func (l Ledger) Records() []ParticipantRecord {
	out := make([]ParticipantRecord, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.records[id].clone())
	}
	return out
}

// Submit applies one score submission and returns the updated ledger together
// with the updated record. The record is created on first submission with a
// zero best score, then updated like any other: the display name is replaced,
// the submission count grows by one, today's score becomes points and the best
// score only ever rises.
func (l Ledger) Submit(id, displayName string, points int64) (Ledger, ParticipantRecord) {
	next := l.cloneWithRoom(1)

	rec, ok := next.records[id]
	if !ok {
		rec = ParticipantRecord{ID: id}
		next.order = append(next.order, id)
	}

	rec.DisplayName = displayName
	rec.TotalGames++
	today := points
	rec.TodayScore = &today
	if points > rec.BestScore {
		rec.BestScore = points
	}

	next.records[id] = rec
	return next, rec.clone()
}

// TopN returns up to n records ordered by best score, highest first. Records
// with equal best scores keep their insertion order. n <= 0 yields an empty
// slice.
func (l Ledger) TopN(n int) []ParticipantRecord {
	if n <= 0 {
		return []ParticipantRecord{}
	}

	ranked := l.Records()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].BestScore > ranked[j].BestScore
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

func (l Ledger) cloneWithRoom(extra int) Ledger {
	next := Ledger{
		order:   make([]string, len(l.order), len(l.order)+extra),
		records: make(map[string]ParticipantRecord, len(l.records)+extra),
	}
	copy(next.order, l.order)
	for id, rec := range l.records {
		next.records[id] = rec
	}
	return next
}

// ParticipantScore is the relational row of a ParticipantRecord. Position
// keeps the ledger's insertion order across loads.
type ParticipantScore struct {
	ParticipantID string    `gorm:"primaryKey;size:64" json:"participant_id"`
	Position      int       `gorm:"not null;index" json:"position"`
	DisplayName   string    `gorm:"size:255;not null" json:"display_name"`
	BestScore     int64     `gorm:"not null;default:0" json:"best_score"`
	TotalGames    int       `gorm:"not null;default:0" json:"total_games"`
	TodayScore    *int64    `json:"today_score"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ParticipantScore) TableName() string {
	return "participant_scores"
}
