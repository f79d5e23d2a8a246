package main

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
)

// categoryRequest is the body for the category-switch intent.
type categoryRequest struct {
	Category string `json:"category"`
}

// answerRequest is the body for the answer-submission intent.
type answerRequest struct {
	Value string `json:"value"`
}

// itemRequest is the body for the add-custom-item intent.
type itemRequest struct {
	Value    string `json:"value"`
	Display  string `json:"display"`
	Category string `json:"category"`
}

// buildStateResponse assembles the full snapshot the presentation layer
// redraws from: session stats, the live round, recent history,
// achievements, and any pending feedback signal with its utterance.
func (app *App) buildStateResponse(p *PlayerState) gin.H {
	app.PlayerMutex.Lock()
	defer app.PlayerMutex.Unlock()

	clearExpiredFeedback(p)

	var round gin.H
	var prompt string
	if p.Round != nil && p.Round.Target != nil {
		round = gin.H{
			"tiles":  p.Round.Tiles,
			"target": p.Round.Target,
		}
		prompt = UtterancePromptPrefix + p.Round.Target.Value
	}

	return gin.H{
		"session": gin.H{
			"score":         p.Score,
			"streak":        p.Streak,
			"highScore":     p.HighScore,
			"timeRemaining": p.TimeRemaining,
			"active":        p.Active,
			"category":      p.Category,
		},
		"round":        round,
		"history":      p.History,
		"achievements": p.Achievements,
		"feedback":     p.LastFeedback,
		"utterance":    p.Utterance,
		"prompt":       prompt,
		"date":         time.Now().Format("January 2, 2006"),
		"shareText":    fmt.Sprintf("Hey! I just scored %d points on ABC 123 Learning! High score: %d", p.Score, p.HighScore),
	}
}

// homeHandler serves the static front-end when present, otherwise a small
// JSON index of the API.
func (app *App) homeHandler(c *gin.Context) {
	index := filepath.Join("static", "index.html")
	if dirExists("static") {
		c.File(index)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":   "kidmatch",
		"routes": []string{RouteState, RouteStart, RouteCategory, RouteAnswer, RouteItems, RouteReset, RouteHealthz},
	})
}

// stateHandler returns the current snapshot for the session.
func (app *App) stateHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	p := app.getPlayerState(sessionID)
	c.JSON(http.StatusOK, app.buildStateResponse(p))
}

// startHandler starts a new timed game for the session.
func (app *App) startHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	p := app.getPlayerState(sessionID)
	app.startGame(sessionID, p)
	c.JSON(http.StatusOK, app.buildStateResponse(p))
}

// categoryHandler switches the active category for the session.
func (app *App) categoryHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	p := app.getPlayerState(sessionID)

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorBadRequest})
		return
	}
	if err := app.switchCategory(sessionID, p, req.Category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.buildStateResponse(p))
}

// answerHandler evaluates a submitted answer against the live target.
func (app *App) answerHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	p := app.getPlayerState(sessionID)

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorBadRequest})
		return
	}

	result, err := app.submitAnswer(sessionID, p, req.Value)
	if err != nil {
		// No live target: signalled, state untouched.
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	response := app.buildStateResponse(p)
	response["result"] = result
	c.JSON(http.StatusOK, response)
}

// itemsHandler appends a user-defined catalog item for the session.
func (app *App) itemsHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	p := app.getPlayerState(sessionID)

	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorBadRequest})
		return
	}

	item, err := app.addCustomItem(sessionID, p, req.Value, req.Display, req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"item":      item,
		"utterance": UtteranceItemAdded,
	})
}

// resetHandler wipes the session's durable progress. Destructive; the
// front-end confirms with the player before calling.
func (app *App) resetHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	p := app.getPlayerState(sessionID)
	app.resetPlayer(sessionID, p)
	c.JSON(http.StatusOK, app.buildStateResponse(p))
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	app.PlayerMutex.RLock()
	players := len(app.Players)
	app.PlayerMutex.RUnlock()
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"env":           map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"catalog_items": len(app.BuiltinItems),
		"players":       players,
		"uptime":        formatUptime(uptime),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}
