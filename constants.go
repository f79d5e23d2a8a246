package main

import "time"

// Game configuration constants
const (
	TileCount    = 4  // Candidate tiles per round
	GameDuration = 60 // Seconds on the clock per session
	HistoryLimit = 50 // Most recent moves kept in the log
)

// Category constants
const (
	CategoryAlphabets = "Alphabets"
	CategoryNumbers   = "Numbers"
	CategoryAnimals   = "Animals"
	CategoryColors    = "Colors"
)

// Categories is the fixed set of item groupings, in display order.
var Categories = []string{CategoryAlphabets, CategoryNumbers, CategoryAnimals, CategoryColors}

// Feedback signal constants
const (
	FeedbackCorrect = "correct"
	FeedbackWrong   = "wrong"

	FeedbackCorrectDuration = 800 * time.Millisecond
	FeedbackWrongDuration   = 500 * time.Millisecond
)

// Utterance constants, handed to the speech collaborator verbatim
const (
	UtteranceCorrectPrefix = "Great job! "
	UtteranceWrong         = "Oops! Try again."
	UtteranceItemAdded     = "Item added!"
	UtterancePromptPrefix  = "Find the "
)

// Session configuration constants
const (
	SessionCookieName = "session_id"
)

// Route constants
const (
	RouteHome     = "/"
	RouteState    = "/state"
	RouteStart    = "/start"
	RouteCategory = "/category"
	RouteAnswer   = "/answer"
	RouteItems    = "/items"
	RouteReset    = "/reset"
	RouteHealthz  = "/healthz"
)

// Error message constants
const (
	ErrorNoActiveRound   = "No active round."
	ErrorEmptyItemFields = "Item name and display are both required."
	ErrorUnknownCategory = "Unknown category."
	ErrorBadRequest      = "Invalid request body."
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)
