package domain

import "time"

// Beatmap represents one osu! beatmap difficulty referenced by games.
// Corresponds to the beatmaps table. Immutable once stored; the osu! id is the
// natural dedup key and a second fetch of the same id is a no-op.
type Beatmap struct {
	ID    int64 // PRIMARY KEY
	OsuID int64 // osu! beatmap id, unique

	Artist         string
	Title          string
	DifficultyName string
	MapperName     string
	MapperOsuID    int64

	Ruleset    Ruleset
	StarRating float64
	BPM        float64
	CS         float64
	AR         float64
	OD         float64
	HP         float64
	LengthSec  int

	Created time.Time
}
