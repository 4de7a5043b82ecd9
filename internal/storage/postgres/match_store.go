package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"otr-data-worker/internal/domain"
	"otr-data-worker/internal/storage"
)

// MatchStore implements storage.MatchStore using PostgreSQL.
type MatchStore struct {
	pool *Pool
}

// NewMatchStore creates a new MatchStore.
func NewMatchStore(pool *Pool) *MatchStore {
	return &MatchStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MatchStore = (*MatchStore)(nil)

const matchColumns = `id, osu_id, name, start_time, end_time, tournament_id,
	processing_status, verification_status, rejection_reason, created`

// Enqueue inserts a pending match link. Returns ErrDuplicateKey if the osu! id exists.
func (s *MatchStore) Enqueue(ctx context.Context, osuID, tournamentID int64, verification domain.VerificationStatus) error {
	if osuID == 0 {
		return storage.ErrInvalidInput
	}
	if verification == "" {
		verification = domain.VerificationPending
	}

	query := `
		INSERT INTO matches (osu_id, tournament_id, processing_status, verification_status, rejection_reason)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		osuID,
		tournamentID,
		string(domain.ProcessingNotProcessed),
		string(verification),
		string(domain.RejectionNone),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("enqueue match: %w", err)
	}
	return nil
}

// ClaimNextPending claims the oldest NotProcessed match, moving it to
// Materialized. The conditional update with SKIP LOCKED keeps the claim atomic
// when several workers poll the same database. Returns ErrNotFound when nothing
// is eligible.
func (s *MatchStore) ClaimNextPending(ctx context.Context) (*domain.Match, error) {
	query := `
		UPDATE matches SET processing_status = $1
		WHERE id = (
			SELECT id FROM matches
			WHERE processing_status = $2
			ORDER BY id ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + matchColumns

	row := s.pool.QueryRow(ctx, query,
		string(domain.ProcessingMaterialized),
		string(domain.ProcessingNotProcessed),
	)
	m, err := scanMatch(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("claim next pending match: %w", err)
	}
	return m, nil
}

// GetByOsuID retrieves a match with its full game/score graph.
// Returns ErrNotFound if not exists.
func (s *MatchStore) GetByOsuID(ctx context.Context, osuID int64) (*domain.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE osu_id = $1`

	row := s.pool.QueryRow(ctx, query, osuID)
	m, err := scanMatch(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get match by osu id: %w", err)
	}

	if err := s.loadGames(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// loadGames attaches the ordered games and scores of a match.
func (s *MatchStore) loadGames(ctx context.Context, m *domain.Match) error {
	query := `
		SELECT id, osu_id, match_osu_id, beatmap_osu_id, ruleset, scoring_type,
			team_type, mods, start_time, end_time, verification_status, rejection_reason
		FROM games
		WHERE match_osu_id = $1
		ORDER BY id ASC
	`

	rows, err := s.pool.Query(ctx, query, m.OsuID)
	if err != nil {
		return fmt.Errorf("get games for match: %w", err)
	}
	defer rows.Close()

	byOsuID := make(map[int64]*domain.Game)
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return err
		}
		m.Games = append(m.Games, g)
		byOsuID[g.OsuID] = g
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate game rows: %w", err)
	}

	if len(m.Games) == 0 {
		return nil
	}

	gameIDs := make([]int64, 0, len(m.Games))
	for _, g := range m.Games {
		gameIDs = append(gameIDs, g.OsuID)
	}

	scoreQuery := `
		SELECT id, game_osu_id, player_osu_id, ruleset, total_score, accuracy,
			max_combo, count_miss, mods, is_valid, rejection_reason
		FROM scores
		WHERE game_osu_id = ANY($1)
		ORDER BY id ASC
	`

	scoreRows, err := s.pool.Query(ctx, scoreQuery, gameIDs)
	if err != nil {
		return fmt.Errorf("get scores for match: %w", err)
	}
	defer scoreRows.Close()

	for scoreRows.Next() {
		sc, err := scanScore(scoreRows)
		if err != nil {
			return err
		}
		byOsuID[sc.GameOsuID].Scores = append(byOsuID[sc.GameOsuID].Scores, sc)
	}
	if err := scoreRows.Err(); err != nil {
		return fmt.Errorf("iterate score rows: %w", err)
	}

	return nil
}

// PersistMatchGraph upserts the match graph by natural keys in one transaction.
// Existing rows keep their identity; nothing is ever duplicated.
func (s *MatchStore) PersistMatchGraph(ctx context.Context, m *domain.Match) (*domain.Match, error) {
	if m == nil || m.OsuID == 0 {
		return nil, storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin persist match graph: %w", err)
	}
	defer tx.Rollback(ctx)

	matchQuery := `
		INSERT INTO matches (osu_id, name, start_time, end_time, tournament_id,
			processing_status, verification_status, rejection_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (osu_id) DO UPDATE SET
			name = EXCLUDED.name,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			tournament_id = EXCLUDED.tournament_id,
			processing_status = EXCLUDED.processing_status,
			verification_status = EXCLUDED.verification_status,
			rejection_reason = EXCLUDED.rejection_reason
	`

	_, err = tx.Exec(ctx, matchQuery,
		m.OsuID,
		m.Name,
		m.StartTime,
		m.EndTime,
		m.TournamentID,
		string(m.ProcessingStatus),
		string(m.VerificationStatus),
		string(m.RejectionReason),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert match: %w", err)
	}

	gameQuery := `
		INSERT INTO games (osu_id, match_osu_id, beatmap_osu_id, ruleset, scoring_type,
			team_type, mods, start_time, end_time, verification_status, rejection_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (osu_id) DO UPDATE SET
			beatmap_osu_id = EXCLUDED.beatmap_osu_id,
			ruleset = EXCLUDED.ruleset,
			scoring_type = EXCLUDED.scoring_type,
			team_type = EXCLUDED.team_type,
			mods = EXCLUDED.mods,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			verification_status = EXCLUDED.verification_status,
			rejection_reason = EXCLUDED.rejection_reason
	`

	scoreQuery := `
		INSERT INTO scores (game_osu_id, player_osu_id, ruleset, total_score,
			accuracy, max_combo, count_miss, mods, is_valid, rejection_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (game_osu_id, player_osu_id) DO UPDATE SET
			ruleset = EXCLUDED.ruleset,
			total_score = EXCLUDED.total_score,
			accuracy = EXCLUDED.accuracy,
			max_combo = EXCLUDED.max_combo,
			count_miss = EXCLUDED.count_miss,
			mods = EXCLUDED.mods,
			is_valid = EXCLUDED.is_valid,
			rejection_reason = EXCLUDED.rejection_reason
	`

	for _, g := range m.Games {
		_, err = tx.Exec(ctx, gameQuery,
			g.OsuID,
			m.OsuID,
			g.BeatmapOsuID,
			int16(g.Ruleset),
			int16(g.ScoringType),
			int16(g.TeamType),
			int64(g.Mods),
			g.StartTime,
			g.EndTime,
			string(g.VerificationStatus),
			string(g.RejectionReason),
		)
		if err != nil {
			return nil, fmt.Errorf("upsert game %d: %w", g.OsuID, err)
		}

		for _, sc := range g.Scores {
			_, err = tx.Exec(ctx, scoreQuery,
				g.OsuID,
				sc.PlayerOsuID,
				int16(sc.Ruleset),
				sc.TotalScore,
				sc.Accuracy,
				sc.MaxCombo,
				sc.CountMiss,
				int64(sc.Mods),
				sc.IsValid,
				string(sc.RejectionReason),
			)
			if err != nil {
				return nil, fmt.Errorf("upsert score for player %d in game %d: %w", sc.PlayerOsuID, g.OsuID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit persist match graph: %w", err)
	}

	return s.GetByOsuID(ctx, m.OsuID)
}

// UpdateVerificationState sets the processing and verification state of a match.
func (s *MatchStore) UpdateVerificationState(ctx context.Context, osuID int64, processing domain.ProcessingStatus, verification domain.VerificationStatus, reason domain.RejectionReason) error {
	query := `
		UPDATE matches
		SET processing_status = $2, verification_status = $3, rejection_reason = $4
		WHERE osu_id = $1
	`

	tag, err := s.pool.Exec(ctx, query, osuID, string(processing), string(verification), string(reason))
	if err != nil {
		return fmt.Errorf("update verification state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Requeue resets a match back to NotProcessed/Pending.
func (s *MatchStore) Requeue(ctx context.Context, osuID int64) error {
	return s.UpdateVerificationState(ctx, osuID,
		domain.ProcessingNotProcessed, domain.VerificationPending, domain.RejectionNone)
}

// scanMatch scans a single row into a Match.
func scanMatch(row pgx.Row) (*domain.Match, error) {
	var m domain.Match
	var processing, verification, reason string

	err := row.Scan(
		&m.ID,
		&m.OsuID,
		&m.Name,
		&m.StartTime,
		&m.EndTime,
		&m.TournamentID,
		&processing,
		&verification,
		&reason,
		&m.Created,
	)
	if err != nil {
		return nil, err
	}

	m.ProcessingStatus = domain.ProcessingStatus(processing)
	m.VerificationStatus = domain.VerificationStatus(verification)
	m.RejectionReason = domain.RejectionReason(reason)
	return &m, nil
}

// scanGame scans a single row into a Game.
func scanGame(row pgx.Row) (*domain.Game, error) {
	var g domain.Game
	var ruleset, scoringType, teamType int16
	var mods int64
	var verification, reason string

	err := row.Scan(
		&g.ID,
		&g.OsuID,
		&g.MatchOsuID,
		&g.BeatmapOsuID,
		&ruleset,
		&scoringType,
		&teamType,
		&mods,
		&g.StartTime,
		&g.EndTime,
		&verification,
		&reason,
	)
	if err != nil {
		return nil, fmt.Errorf("scan game row: %w", err)
	}

	g.Ruleset = domain.Ruleset(ruleset)
	g.ScoringType = domain.ScoringType(scoringType)
	g.TeamType = domain.TeamType(teamType)
	g.Mods = domain.Mods(mods)
	g.VerificationStatus = domain.VerificationStatus(verification)
	g.RejectionReason = domain.RejectionReason(reason)
	return &g, nil
}

// scanScore scans a single row into a Score.
func scanScore(row pgx.Row) (*domain.Score, error) {
	var sc domain.Score
	var ruleset int16
	var mods int64
	var reason string

	err := row.Scan(
		&sc.ID,
		&sc.GameOsuID,
		&sc.PlayerOsuID,
		&ruleset,
		&sc.TotalScore,
		&sc.Accuracy,
		&sc.MaxCombo,
		&sc.CountMiss,
		&mods,
		&sc.IsValid,
		&reason,
	)
	if err != nil {
		return nil, fmt.Errorf("scan score row: %w", err)
	}

	sc.Ruleset = domain.Ruleset(ruleset)
	sc.Mods = domain.Mods(mods)
	sc.RejectionReason = domain.RejectionReason(reason)
	return &sc, nil
}
