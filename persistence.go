package main

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// persistPlayer mirrors a player's durable snapshot to disk. Failures are
// logged and swallowed: losing persistence never interrupts play.
func (app *App) persistPlayer(sessionID string, snapshot *PersistedState) {
	if err := app.savePlayerSnapshot(sessionID, snapshot); err != nil {
		logWarn("Persistence unavailable for session %s: %v", sessionID, err)
	}
}

// savePlayerSnapshot writes the full snapshot for a session, last write
// wins. One JSON file per player under the player data directory.
func (app *App) savePlayerSnapshot(sessionID string, snapshot *PersistedState) error {
	if sessionID == "" || len(sessionID) < 10 {
		logWarn("Skipping save for invalid session ID: %s", sessionID)
		return nil
	}

	if err := os.MkdirAll(app.PlayerDir, 0755); err != nil {
		logWarn("Failed to create player data directory: %v", err)
		return err
	}

	snapshotFile := filepath.Join(app.PlayerDir, sessionID+".json")
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		logWarn("Failed to marshal snapshot for session %s: %v", sessionID, err)
		return err
	}

	if err := os.WriteFile(snapshotFile, data, 0644); err != nil {
		logWarn("Failed to write snapshot file %s: %v", snapshotFile, err)
		return err
	}
	logInfo("Saved snapshot file: %s", snapshotFile)
	return nil
}

// loadPlayerSnapshot reads a session's durable snapshot. Missing files
// surface as os.ErrNotExist; corrupt files are removed and treated as
// absent so startup never fails on bad data. Fields missing from the JSON
// default to zero values.
func (app *App) loadPlayerSnapshot(sessionID string) (*PersistedState, error) {
	if sessionID == "" || len(sessionID) < 10 {
		logWarn("Invalid session ID for loading: %s", sessionID)
		return nil, os.ErrNotExist
	}

	snapshotFile := filepath.Join(app.PlayerDir, sessionID+".json")
	data, err := os.ReadFile(snapshotFile)
	if err != nil {
		return nil, err
	}

	var snapshot PersistedState
	if err := json.Unmarshal(data, &snapshot); err != nil {
		logWarn("Failed to unmarshal snapshot file %s (corrupted), removing: %v", snapshotFile, err)
		os.Remove(snapshotFile)
		return nil, os.ErrNotExist
	}

	logInfo("Loaded snapshot from file: %s (highScore: %d, history: %d)", snapshotFile, snapshot.HighScore, len(snapshot.History))
	return &snapshot, nil
}

// applySnapshot restores durable fields onto a fresh player state. Score
// and streak are session-scoped and intentionally not restored. The item
// catalog is taken from the snapshot only when it is strictly larger than
// the built-in catalog, guarding against a stale or empty snapshot
// clobbering the built-ins.
func (app *App) applySnapshot(p *PlayerState, snapshot *PersistedState) {
	p.HighScore = snapshot.HighScore
	if snapshot.History != nil {
		history := snapshot.History
		if len(history) > HistoryLimit {
			history = history[:HistoryLimit]
		}
		p.History = history
	}
	if snapshot.Achievements != nil {
		p.Achievements = snapshot.Achievements
	}
	if len(snapshot.Items) > len(app.BuiltinItems) {
		p.Items = snapshot.Items
	}
}

// removePlayerSnapshot deletes a session's durable snapshot, if any.
func (app *App) removePlayerSnapshot(sessionID string) {
	if sessionID == "" || len(sessionID) < 10 {
		return
	}
	snapshotFile := filepath.Join(app.PlayerDir, sessionID+".json")
	if err := os.Remove(snapshotFile); err != nil && !os.IsNotExist(err) {
		logWarn("Failed to remove snapshot file %s: %v", snapshotFile, err)
	}
}
