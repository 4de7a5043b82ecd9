package osuapi

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// timeLayout is the timestamp format used by osu! API v1.
const timeLayout = "2006-01-02 15:04:05"

// Time wraps time.Time to decode the osu! API v1 timestamp format.
type Time struct {
	time.Time
}

// UnmarshalJSON decodes "2006-01-02 15:04:05" timestamps; null and empty
// strings decode to the zero time.
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("unquote timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(timeLayout, s)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.Time = parsed.UTC()
	return nil
}

// OptionalInt decodes osu! API v1 numeric fields that arrive as quoted
// numbers, bare numbers or null.
type OptionalInt struct {
	Value int64
	Set   bool
}

// UnmarshalJSON decodes null, "123" and 123 forms.
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*o = OptionalInt{}
		return nil
	}
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	if s == "" {
		*o = OptionalInt{}
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parse optional int %q: %w", s, err)
	}
	*o = OptionalInt{Value: v, Set: true}
	return nil
}

// MatchPayload is the osu! API v1 get_match response: one multiplayer lobby
// with its games and per-game scores.
type MatchPayload struct {
	Match MatchInfo     `json:"match"`
	Games []GamePayload `json:"games"`
}

// MatchInfo is the lobby header of a match payload.
type MatchInfo struct {
	MatchID   int64  `json:"match_id,string"`
	Name      string `json:"name"`
	StartTime Time   `json:"start_time"`
	EndTime   *Time  `json:"end_time"`
}

// GamePayload is one map played inside a lobby.
type GamePayload struct {
	GameID      int64          `json:"game_id,string"`
	StartTime   Time           `json:"start_time"`
	EndTime     *Time          `json:"end_time"`
	BeatmapID   int64          `json:"beatmap_id,string"`
	PlayMode    int            `json:"play_mode,string"`
	ScoringType int            `json:"scoring_type,string"`
	TeamType    int            `json:"team_type,string"`
	Mods        OptionalInt    `json:"mods"`
	Scores      []ScorePayload `json:"scores"`
}

// ScorePayload is one player's result on one game.
type ScorePayload struct {
	Slot        int         `json:"slot,string"`
	Team        int         `json:"team,string"`
	UserID      int64       `json:"user_id,string"`
	Score       int64       `json:"score,string"`
	MaxCombo    int         `json:"maxcombo,string"`
	Count50     int         `json:"count50,string"`
	Count100    int         `json:"count100,string"`
	Count300    int         `json:"count300,string"`
	CountMiss   int         `json:"countmiss,string"`
	CountGeki   int         `json:"countgeki,string"`
	CountKatu   int         `json:"countkatu,string"`
	Perfect     int         `json:"perfect,string"`
	Pass        int         `json:"pass,string"`
	EnabledMods OptionalInt `json:"enabled_mods"`
}

// BeatmapPayload is one entry of the osu! API v1 get_beatmaps response.
type BeatmapPayload struct {
	BeatmapID        int64   `json:"beatmap_id,string"`
	Artist           string  `json:"artist"`
	Title            string  `json:"title"`
	Version          string  `json:"version"`
	Creator          string  `json:"creator"`
	CreatorID        int64   `json:"creator_id,string"`
	Mode             int     `json:"mode,string"`
	DifficultyRating float64 `json:"difficultyrating,string"`
	BPM              float64 `json:"bpm,string"`
	CS               float64 `json:"diff_size,string"`
	AR               float64 `json:"diff_approach,string"`
	OD               float64 `json:"diff_overall,string"`
	HP               float64 `json:"diff_drain,string"`
	TotalLength      int     `json:"total_length,string"`
}
