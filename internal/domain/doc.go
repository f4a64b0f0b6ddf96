// Package domain defines the core business entities of the learning tool:
// vocabulary items with their spaced-repetition state, the learner's
// aggregate statistics, the daily activity ledger, and achievements.
//
// Entities are plain structs with validation methods. All state transitions
// (review scheduling, XP, streaks, achievement unlocks) live in the domain
// subpackages and the service layer; this package holds no persistence logic.
package domain
