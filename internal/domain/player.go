package domain

import "time"

// Player represents an osu! player referenced by scores.
// Players are created on first reference during materialization; profile data is
// filled in by collaborators outside this pipeline.
type Player struct {
	ID       int64 // PRIMARY KEY
	OsuID    int64 // osu! user id, unique
	Username string

	Created time.Time
}
