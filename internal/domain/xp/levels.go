// Package xp implements the experience-point and leveling system: the level
// threshold curve, the CEFR band mapping, and the fixed reward table.
package xp

import (
	"math"

	"github.com/phrazzld/lernbuddy/internal/domain"
)

// MaxLevel caps progression at the end of the B2 band.
const MaxLevel = 70

// ThresholdForLevel returns the cumulative XP required to hold the given
// level. The curve is 100 * N^1.5, with level 1 free; it is strictly
// increasing in N, which is the invariant LevelForXP depends on.
func ThresholdForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return int(100 * math.Pow(float64(level), 1.5))
}

// LevelForXP returns the greatest level whose threshold is at or below the
// given XP total, capped at MaxLevel.
func LevelForXP(totalXP int) int {
	level := 1
	for level < MaxLevel && ThresholdForLevel(level+1) <= totalXP {
		level++
	}
	return level
}

// CEFRForLevel maps a numeric level to its proficiency band:
// 1-10 A1, 11-25 A2, 26-45 B1, 46-70 B2.
func CEFRForLevel(level int) domain.CEFRLevel {
	switch {
	case level <= 10:
		return domain.CEFRLevelA1
	case level <= 25:
		return domain.CEFRLevelA2
	case level <= 45:
		return domain.CEFRLevelB1
	default:
		return domain.CEFRLevelB2
	}
}

// AddResult describes the effect of granting XP.
type AddResult struct {
	XPGained  int
	NewTotal  int
	OldLevel  int
	NewLevel  int
	LeveledUp bool
}

// Add grants XP on top of a running total and recomputes the level.
// Negative amounts are a programmer error.
func Add(totalXP, amount int) (AddResult, error) {
	if amount < 0 {
		return AddResult{}, domain.ErrNegativeAmount
	}

	oldLevel := LevelForXP(totalXP)
	newTotal := totalXP + amount
	newLevel := LevelForXP(newTotal)

	return AddResult{
		XPGained:  amount,
		NewTotal:  newTotal,
		OldLevel:  oldLevel,
		NewLevel:  newLevel,
		LeveledUp: newLevel > oldLevel,
	}, nil
}

// LevelInfo describes progress within the current level, for display.
type LevelInfo struct {
	Level              int              `json:"level"`
	TotalXP            int              `json:"total_xp"`
	XPForCurrentLevel  int              `json:"xp_for_current_level"`
	XPForNextLevel     int              `json:"xp_for_next_level"`
	ProgressPercentage float64          `json:"progress_percentage"`
	CEFRLevel          domain.CEFRLevel `json:"cefr_level"`
}

// InfoForXP computes display information for an XP total.
func InfoForXP(totalXP int) LevelInfo {
	level := LevelForXP(totalXP)
	current := ThresholdForLevel(level)
	next := ThresholdForLevel(level + 1)

	progress := 100.0
	if level < MaxLevel && next > current {
		progress = float64(totalXP-current) / float64(next-current) * 100
	}

	return LevelInfo{
		Level:              level,
		TotalXP:            totalXP,
		XPForCurrentLevel:  current,
		XPForNextLevel:     next,
		ProgressPercentage: math.Round(progress*10) / 10,
		CEFRLevel:          CEFRForLevel(level),
	}
}
