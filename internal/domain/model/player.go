// Package model contains domain models passed between layers.
package model

import "time"

// PlayerRecord is a scored challenge run as stored and served.
// Field names mirror the wire format of /api/players.
type PlayerRecord struct {
	ID         string    `json:"id"              bson:"_id,omitempty"`
	Name       string    `json:"name"            bson:"name"`
	Department string    `json:"department"      bson:"department"`
	Email      string    `json:"email,omitempty" bson:"email,omitempty"`
	TimeTaken  float64   `json:"timeTaken"       bson:"timeTaken"`
	Score      int       `json:"score"           bson:"score"`
	CreatedAt  time.Time `json:"createdAt"       bson:"createdAt"`
}

// RankedEntry is a leaderboard row: a record annotated with its 1-based rank.
// The embedded record flattens, so the JSON shape is {rank, id, name, ...}.
type RankedEntry struct {
	Rank int `json:"rank"`
	PlayerRecord
}
