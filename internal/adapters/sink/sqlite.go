// Package sink persists season results.
package sink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite" // database/sql driver "sqlite"

	"github.com/okian/hbelo/internal/domain/engine"
	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/rating"
	"github.com/okian/hbelo/pkg/logger"
	"github.com/okian/hbelo/pkg/metrics"
)

// Sink stores the output of a season run.
type Sink interface {
	Write(ctx context.Context, res *engine.SeasonResult) error
	Close() error
}

// Table names, also used as metric labels.
const (
	tableSeasons   = "seasons"
	tablePlayers   = "player_ratings"
	tableTeams     = "team_ratings"
	tableDeltas    = "match_deltas"
	tableCarryover = "carryover"
	tableSkips     = "skipped_matches"
)

var schema = []string{ //nolint:gochecknoglobals // migration list
	`CREATE TABLE IF NOT EXISTS seasons (
		league     TEXT NOT NULL,
		season     TEXT NOT NULL,
		registry   TEXT NOT NULL,
		processed  INTEGER NOT NULL,
		written_at INTEGER NOT NULL,
		PRIMARY KEY (league, season)
	)`,
	`CREATE TABLE IF NOT EXISTS player_ratings (
		league                  TEXT NOT NULL,
		season                  TEXT NOT NULL,
		player_name             TEXT NOT NULL,
		rating                  REAL NOT NULL,
		games_played            INTEGER NOT NULL,
		primary_role            TEXT,
		elite_tier              TEXT,
		is_confirmed_goalkeeper INTEGER NOT NULL,
		momentum_value          REAL NOT NULL,
		team_id                 TEXT,
		PRIMARY KEY (league, season, player_name)
	)`,
	`CREATE TABLE IF NOT EXISTS team_ratings (
		league       TEXT NOT NULL,
		season       TEXT NOT NULL,
		team_id      TEXT NOT NULL,
		rating       REAL NOT NULL,
		games_played INTEGER NOT NULL,
		PRIMARY KEY (league, season, team_id)
	)`,
	`CREATE TABLE IF NOT EXISTS match_deltas (
		league             TEXT NOT NULL,
		season             TEXT NOT NULL,
		seq                INTEGER NOT NULL,
		match_id           TEXT NOT NULL,
		home_team_id       TEXT NOT NULL,
		away_team_id       TEXT NOT NULL,
		home_rating_before REAL NOT NULL,
		home_rating_after  REAL NOT NULL,
		away_rating_before REAL NOT NULL,
		away_rating_after  REAL NOT NULL,
		home_expected      REAL NOT NULL,
		PRIMARY KEY (league, season, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS carryover (
		league          TEXT NOT NULL,
		season          TEXT NOT NULL,
		player_name     TEXT NOT NULL,
		starting_rating REAL NOT NULL,
		PRIMARY KEY (league, season, player_name)
	)`,
	`CREATE TABLE IF NOT EXISTS skipped_matches (
		league   TEXT NOT NULL,
		season   TEXT NOT NULL,
		match_id TEXT NOT NULL,
		reason   TEXT NOT NULL,
		detail   TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_skipped_season ON skipped_matches(league, season)`,
}

// SQLiteSink writes season results into one SQLite database. A season is
// replaced as a whole on every write.
type SQLiteSink struct {
	db  *sql.DB
	mu  sync.Mutex
	log logger.Logger
}

// NewSQLiteSink opens (or creates) the database at path and migrates it.
func NewSQLiteSink(path string, opts ...Option) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Readers (the API) and the refresh writer share the file.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	s := &SQLiteSink{db: db, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteSink) migrate() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Write replaces the stored tables of res.League/res.Season in one
// transaction.
func (s *SQLiteSink) Write(ctx context.Context, res *engine.SeasonResult) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{tablePlayers, tableTeams, tableDeltas, tableCarryover, tableSkips, tableSeasons} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE league = ? AND season = ?", //nolint:gosec // fixed table names
			res.League, res.Season); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO seasons (league, season, registry, processed, written_at)
		VALUES (?,?,?,?,?)`, res.League, res.Season, res.Registry, res.Processed, time.Now().Unix()); err != nil {
		return fmt.Errorf("insert season: %w", err)
	}

	for _, p := range res.Players {
		if _, err = tx.ExecContext(ctx, `INSERT INTO player_ratings
			(league, season, player_name, rating, games_played, primary_role, elite_tier,
			 is_confirmed_goalkeeper, momentum_value, team_id)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			res.League, res.Season, p.Player, p.Rating, p.Games, string(p.PrimaryRole), string(p.EliteTier),
			p.ConfirmedGoalkeeper, p.Momentum, string(p.Team)); err != nil {
			return fmt.Errorf("insert player %q: %w", p.Player, err)
		}
	}
	for _, t := range res.Teams {
		if _, err = tx.ExecContext(ctx, `INSERT INTO team_ratings (league, season, team_id, rating, games_played)
			VALUES (?,?,?,?,?)`, res.League, res.Season, string(t.Team), t.Rating, t.Games); err != nil {
			return fmt.Errorf("insert team %q: %w", t.Team, err)
		}
	}
	for i, d := range res.Deltas {
		if _, err = tx.ExecContext(ctx, `INSERT INTO match_deltas
			(league, season, seq, match_id, home_team_id, away_team_id,
			 home_rating_before, home_rating_after, away_rating_before, away_rating_after, home_expected)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			res.League, res.Season, i, d.MatchID, string(d.Home), string(d.Away),
			d.HomeBefore, d.HomeAfter, d.AwayBefore, d.AwayAfter, d.Expected); err != nil {
			return fmt.Errorf("insert delta %q: %w", d.MatchID, err)
		}
	}
	names := make([]string, 0, len(res.NextStart))
	for name := range res.NextStart {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err = tx.ExecContext(ctx, `INSERT INTO carryover (league, season, player_name, starting_rating)
			VALUES (?,?,?,?)`, res.League, res.Season, name, res.NextStart[name]); err != nil {
			return fmt.Errorf("insert carryover %q: %w", name, err)
		}
	}
	for _, sk := range res.Skips {
		if _, err = tx.ExecContext(ctx, `INSERT INTO skipped_matches (league, season, match_id, reason, detail)
			VALUES (?,?,?,?,?)`, res.League, res.Season, sk.MatchID, sk.Reason, sk.Error()); err != nil {
			return fmt.Errorf("insert skip %q: %w", sk.MatchID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	metrics.RecordSinkRows(tablePlayers, len(res.Players))
	metrics.RecordSinkRows(tableTeams, len(res.Teams))
	metrics.RecordSinkRows(tableDeltas, len(res.Deltas))
	metrics.RecordSinkRows(tableCarryover, len(names))
	metrics.RecordSinkRows(tableSkips, len(res.Skips))
	s.log.Debug(ctx, "season persisted",
		logger.String("league", res.League),
		logger.String("season", res.Season),
		logger.Int("players", len(res.Players)))
	return nil
}

// LatestSeason returns the last season stored for league, by season id.
func (s *SQLiteSink) LatestSeason(ctx context.Context, league string) (string, error) {
	var season string
	err := s.db.QueryRowContext(ctx,
		`SELECT season FROM seasons WHERE league = ? ORDER BY season DESC LIMIT 1`, league).Scan(&season)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNoSeason, league)
	}
	if err != nil {
		return "", fmt.Errorf("latest season: %w", err)
	}
	return season, nil
}

// Players reads back the stored player table of a season, best first.
func (s *SQLiteSink) Players(ctx context.Context, league, season string) ([]engine.PlayerRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT player_name, rating, games_played, primary_role, elite_tier,
		is_confirmed_goalkeeper, momentum_value, team_id
		FROM player_ratings WHERE league = ? AND season = ?
		ORDER BY rating DESC, player_name ASC`, league, season)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var out []engine.PlayerRow
	for rows.Next() {
		var (
			p          engine.PlayerRow
			role, tier string
			team       sql.NullString
		)
		if err := rows.Scan(&p.Player, &p.Rating, &p.Games, &role, &tier,
			&p.ConfirmedGoalkeeper, &p.Momentum, &team); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.PrimaryRole = m.Role(role)
		p.EliteTier = rating.Tier(tier)
		p.Team = m.TeamID(team.String)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	return out, nil
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
