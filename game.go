package main

import (
	"errors"
	"time"
)

// startGame transitions a player from Idle to Active: score and streak go
// back to zero, the clock resets, and a fresh round is generated for the
// current category. Any countdown already running is cancelled first so
// two tickers can never decrement the same clock.
func (app *App) startGame(sessionID string, p *PlayerState) {
	app.PlayerMutex.Lock()
	if p.stopCountdown != nil {
		close(p.stopCountdown)
		p.stopCountdown = nil
	}
	p.Score = 0
	p.Streak = 0
	p.TimeRemaining = app.GameDuration
	p.Active = true
	p.Round = app.generateRound(p.Items, p.Category)
	p.LastFeedback = ""
	p.LastAccessTime = time.Now()

	stop := make(chan struct{})
	p.stopCountdown = stop
	category := p.Category
	snapshot := persistedSnapshot(p)
	app.PlayerMutex.Unlock()

	logInfo("Session %s started a game in category %s", sessionID, category)
	app.persistPlayer(sessionID, snapshot)
	go app.runCountdown(sessionID, p, stop)
}

// runCountdown decrements the player's clock once per tick until it hits
// zero or the handle is cancelled. It owns the Active -> Idle transition on
// timeout; the final score and streak are left frozen for display.
func (app *App) runCountdown(sessionID string, p *PlayerState, stop chan struct{}) {
	ticker := time.NewTicker(app.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			app.PlayerMutex.Lock()
			if p.stopCountdown != stop {
				// Superseded by a newer countdown.
				app.PlayerMutex.Unlock()
				return
			}
			p.TimeRemaining--
			if p.TimeRemaining <= 0 {
				p.TimeRemaining = 0
				p.Active = false
				p.stopCountdown = nil
				score := p.Score
				app.PlayerMutex.Unlock()
				logInfo("Session %s timed out with final score %d", sessionID, score)
				return
			}
			app.PlayerMutex.Unlock()
		}
	}
}

// switchCategory changes the active category in any state. While a game is
// running the round regenerates immediately; score, streak and clock are
// untouched.
func (app *App) switchCategory(sessionID string, p *PlayerState, category string) error {
	if !isKnownCategory(category) {
		return errors.New(ErrorUnknownCategory)
	}

	app.PlayerMutex.Lock()
	p.Category = category
	if p.Active {
		p.Round = app.generateRound(p.Items, category)
	}
	p.LastAccessTime = time.Now()
	app.PlayerMutex.Unlock()

	logInfo("Session %s switched category to %s", sessionID, category)
	return nil
}

// submitAnswer evaluates one answer against the live target. The move is
// logged, stats update, achievements unlock, and the durable snapshot is
// mirrored to disk. A correct answer regenerates the round for the same
// category; a wrong one leaves the question standing.
func (app *App) submitAnswer(sessionID string, p *PlayerState, value string) (EvaluationResult, error) {
	app.PlayerMutex.Lock()
	if !p.Active || p.Round == nil || p.Round.Target == nil {
		app.PlayerMutex.Unlock()
		logWarn("Session %s submitted an answer with no active round", sessionID)
		return EvaluationResult{}, errors.New(ErrorNoActiveRound)
	}

	target := *p.Round.Target
	correct := value == target.Value

	entry := MoveLogEntry{Timestamp: time.Now(), Item: target.Display, Correct: correct}
	p.History = append([]MoveLogEntry{entry}, p.History...)
	if len(p.History) > HistoryLimit {
		p.History = p.History[:HistoryLimit]
	}

	result := EvaluationResult{Correct: correct}
	if correct {
		p.Score++
		p.Streak++
		if p.Score > p.HighScore {
			p.HighScore = p.Score
		}
		p.LastFeedback = FeedbackCorrect
		p.FeedbackUntil = time.Now().Add(FeedbackCorrectDuration)
		result.Utterance = UtteranceCorrectPrefix + target.Value
		p.Round = app.generateRound(p.Items, p.Category)
	} else {
		p.Streak = 0
		p.LastFeedback = FeedbackWrong
		p.FeedbackUntil = time.Now().Add(FeedbackWrongDuration)
		result.Utterance = UtteranceWrong
	}
	result.Feedback = p.LastFeedback
	p.Utterance = result.Utterance
	p.LastAccessTime = time.Now()

	if newly := evaluateAchievements(p); len(newly) > 0 {
		p.Achievements = append(p.Achievements, newly...)
		logInfo("Session %s unlocked achievements: %v", sessionID, newly)
	}

	snapshot := persistedSnapshot(p)
	app.PlayerMutex.Unlock()

	logInfo("Session %s answered %q against %q: correct=%v", sessionID, value, target.Value, correct)
	app.persistPlayer(sessionID, snapshot)
	return result, nil
}

// addCustomItem validates and appends a user item to the player's catalog,
// then mirrors the snapshot so the item survives reloads.
func (app *App) addCustomItem(sessionID string, p *PlayerState, value, display, category string) (GameItem, error) {
	item, err := newCustomItem(value, display, category)
	if err != nil {
		return GameItem{}, err
	}

	app.PlayerMutex.Lock()
	p.Items = append(p.Items, item)
	p.Utterance = UtteranceItemAdded
	p.LastAccessTime = time.Now()
	snapshot := persistedSnapshot(p)
	app.PlayerMutex.Unlock()

	logInfo("Session %s added custom item %q to %s", sessionID, item.Value, item.Category)
	app.persistPlayer(sessionID, snapshot)
	return item, nil
}

// resetPlayer wipes the player's durable snapshot and reinitializes the
// in-memory state to the built-in catalog and zeroed stats. The only
// destructive operation; callers confirm before invoking.
func (app *App) resetPlayer(sessionID string, p *PlayerState) {
	app.PlayerMutex.Lock()
	if p.stopCountdown != nil {
		close(p.stopCountdown)
		p.stopCountdown = nil
	}
	p.Score = 0
	p.Streak = 0
	p.HighScore = 0
	p.TimeRemaining = app.GameDuration
	p.Active = false
	p.Category = CategoryAlphabets
	p.Items = append([]GameItem{}, app.BuiltinItems...)
	p.Round = nil
	p.History = []MoveLogEntry{}
	p.Achievements = []string{}
	p.LastFeedback = ""
	p.Utterance = ""
	p.LastAccessTime = time.Now()
	app.PlayerMutex.Unlock()

	app.removePlayerSnapshot(sessionID)
	logInfo("Session %s reset all progress", sessionID)
}

// clearExpiredFeedback drops the feedback signal once its display window
// has passed. Called while building state snapshots; callers hold the lock.
func clearExpiredFeedback(p *PlayerState) {
	if p.LastFeedback != "" && time.Now().After(p.FeedbackUntil) {
		p.LastFeedback = ""
	}
}

// persistedSnapshot copies the durable fields out of a player state.
// Callers hold the player lock.
func persistedSnapshot(p *PlayerState) *PersistedState {
	return &PersistedState{
		Score:        p.Score,
		Streak:       p.Streak,
		HighScore:    p.HighScore,
		Achievements: append([]string{}, p.Achievements...),
		Items:        append([]GameItem{}, p.Items...),
		History:      append([]MoveLogEntry{}, p.History...),
	}
}
