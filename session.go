package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.IsProduction
		c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", secure, true)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// getPlayerState retrieves or creates the PlayerState for a session. New
// players start from the built-in catalog, then restore any durable
// snapshot found on disk.
func (app *App) getPlayerState(sessionID string) *PlayerState {
	app.PlayerMutex.RLock()
	p, exists := app.Players[sessionID]
	app.PlayerMutex.RUnlock()
	if exists {
		app.PlayerMutex.Lock()
		p.LastAccessTime = time.Now()
		app.PlayerMutex.Unlock()
		return p
	}

	logInfo("Creating player state for session: %s", sessionID)
	return app.createPlayerState(sessionID)
}

// createPlayerState builds an Idle player state and registers it.
func (app *App) createPlayerState(sessionID string) *PlayerState {
	p := &PlayerState{
		TimeRemaining:  app.GameDuration,
		Category:       CategoryAlphabets,
		Items:          append([]GameItem{}, app.BuiltinItems...),
		History:        []MoveLogEntry{},
		Achievements:   []string{},
		LastAccessTime: time.Now(),
	}

	snapshot, err := app.loadPlayerSnapshot(sessionID)
	if err == nil {
		app.applySnapshot(p, snapshot)
	} else if !os.IsNotExist(err) {
		logWarn("Could not load snapshot for session %s: %v", sessionID, err)
	}

	app.PlayerMutex.Lock()
	if existing, ok := app.Players[sessionID]; ok {
		// Another request registered this session first; keep its state.
		app.PlayerMutex.Unlock()
		return existing
	}
	app.Players[sessionID] = p
	app.PlayerMutex.Unlock()
	return p
}

// cleanupIdlePlayers evicts in-memory players idle longer than maxAge so
// the registry cannot grow without bound. Durable snapshots stay on disk;
// high scores survive eviction and are restored on the next visit.
func (app *App) cleanupIdlePlayers(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	evicted := 0

	app.PlayerMutex.Lock()
	for sessionID, p := range app.Players {
		if p.LastAccessTime.Before(cutoff) {
			if p.stopCountdown != nil {
				close(p.stopCountdown)
				p.stopCountdown = nil
			}
			delete(app.Players, sessionID)
			evicted++
		}
	}
	app.PlayerMutex.Unlock()

	if evicted > 0 {
		logInfo("Player cleanup completed: evicted %d idle session%s", evicted, plural(evicted))
	}
	return evicted
}

// startPlayerCleanup runs idle-player eviction on a fixed interval.
func (app *App) startPlayerCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			app.cleanupIdlePlayers(app.SessionTimeout)
		}
	}()
}
