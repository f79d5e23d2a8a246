package main

import "github.com/samber/lo"

// achievementRules is the static unlock table. Extend by appending rows;
// unlocked ids are persisted, so ids must stay stable.
var achievementRules = []AchievementRule{
	{ID: "newbie", Name: "Smart Start", Description: "Score your first 5 points", ScoreThreshold: 5},
	{ID: "streak5", Name: "Unstoppable", Description: "Get a streak of 5", StreakThreshold: 5},
	{ID: "master", Name: "Genius Kid", Description: "Reach a score of 50", ScoreThreshold: 50},
}

// evaluateAchievements returns the ids newly unlocked by the player's
// current score and streak. Already unlocked ids are never returned, so
// the unlocked set only ever grows.
func evaluateAchievements(p *PlayerState) []string {
	var unlocked []string
	for _, rule := range achievementRules {
		if lo.Contains(p.Achievements, rule.ID) {
			continue
		}
		if rule.ScoreThreshold > 0 && p.Score >= rule.ScoreThreshold {
			unlocked = append(unlocked, rule.ID)
			continue
		}
		if rule.StreakThreshold > 0 && p.Streak >= rule.StreakThreshold {
			unlocked = append(unlocked, rule.ID)
		}
	}
	return unlocked
}

// achievementByID looks up a rule for presentation purposes.
func achievementByID(id string) (AchievementRule, bool) {
	return lo.Find(achievementRules, func(rule AchievementRule) bool {
		return rule.ID == id
	})
}
