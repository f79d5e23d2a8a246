package main

import "time"

type contextKey string

// GameItem is a single matchable entry in the catalog.
type GameItem struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Category string `json:"category"`
	Display  string `json:"display"`
}

// CatalogEntry is one curated item in the catalog data file.
type CatalogEntry struct {
	Value   string `yaml:"value"`
	Display string `yaml:"display"`
}

// CatalogFile is the YAML structure for the curated animal and color sets.
type CatalogFile struct {
	Animals []CatalogEntry `yaml:"animals"`
	Colors  []CatalogEntry `yaml:"colors"`
}

// Round is one target plus the candidate tiles it was drawn from.
// Target is nil when the active category has no items.
type Round struct {
	Tiles  []GameItem `json:"tiles"`
	Target *GameItem  `json:"target"`
}

// MoveLogEntry records a single answer submission. The log is kept
// newest first and capped at HistoryLimit entries.
type MoveLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Item      string    `json:"item"`
	Correct   bool      `json:"correct"`
}

// AchievementRule ties an unlock id to a score or streak threshold.
// A zero threshold means the condition does not apply.
type AchievementRule struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	ScoreThreshold  int    `json:"scoreThreshold,omitempty"`
	StreakThreshold int    `json:"streakThreshold,omitempty"`
}

// EvaluationResult reports the outcome of one submitted answer.
type EvaluationResult struct {
	Correct   bool   `json:"correct"`
	Feedback  string `json:"feedback"`
	Utterance string `json:"utterance"`
}

// PlayerState holds one player's full in-memory game state.
type PlayerState struct {
	Score          int
	Streak         int
	HighScore      int
	TimeRemaining  int
	Active         bool
	Category       string
	Items          []GameItem
	Round          *Round
	History        []MoveLogEntry
	Achievements   []string
	LastFeedback   string    // FeedbackCorrect, FeedbackWrong, or empty
	FeedbackUntil  time.Time // Feedback auto-clears after this instant
	Utterance      string    // Last text handed to the speech collaborator
	LastAccessTime time.Time

	// stopCountdown cancels the running countdown goroutine. At most one
	// countdown runs per player; starting a new session closes the old
	// channel first.
	stopCountdown chan struct{}
}

// PersistedState is the durable snapshot mirrored to disk after every
// change to any of its fields. Absent fields default to zero values on
// load.
type PersistedState struct {
	Score        int            `json:"score"`
	Streak       int            `json:"streak"`
	HighScore    int            `json:"highScore"`
	Achievements []string       `json:"achievements"`
	Items        []GameItem     `json:"items"`
	History      []MoveLogEntry `json:"history"`
}
