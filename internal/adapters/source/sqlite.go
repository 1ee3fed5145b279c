package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // database/sql driver "sqlite"

	"github.com/okian/hbelo/internal/domain/engine"
	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/pkg/logger"
)

const (
	matchInfoQuery = `SELECT kamp_id, COALESCE(hold_hjemme, ''), COALESCE(hold_ude, ''),
		COALESCE(resultat, ''), COALESCE(dato, '') FROM match_info LIMIT 1`
	matchEventsQuery = `SELECT COALESCE(tid, ''), COALESCE(maal, ''), COALESCE(hold, ''),
		COALESCE(haendelse_1, ''), COALESCE(pos, ''), COALESCE(navn_1, ''),
		COALESCE(haendelse_2, ''), COALESCE(navn_2, ''), COALESCE(mv, '')
		FROM match_events ORDER BY id`
)

// Date layouts seen in match_info.dato.
var dateLayouts = []string{"02-01-2006", "2006-01-02"} //nolint:gochecknoglobals // fixed layouts

// SQLiteSource reads one match per .db file in the match-report layout:
// a single match_info row plus match_events rows ordered by id.
type SQLiteSource struct {
	root    string
	league  string
	aliases map[string]string
	log     logger.Logger
}

// League returns the league name.
func (s *SQLiteSource) League() string { return s.league }

// Seasons reads every season of the league. Matches of a season are ordered
// by match date, then by file name; undated matches sort last.
func (s *SQLiteSource) Seasons(ctx context.Context) ([]engine.Season, error) {
	dirs, err := seasonDirs(s.root, s.league)
	if err != nil {
		return nil, err
	}
	out := make([]engine.Season, 0, len(dirs))
	for _, id := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		season, err := s.season(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, season)
	}
	return out, nil
}

type datedRecord struct {
	rec  m.MatchRecord
	date time.Time
	file string
}

func (s *SQLiteSource) season(ctx context.Context, id string) (engine.Season, error) {
	dir := filepath.Join(s.root, s.league, id)
	files, err := matchFiles(dir, ".db")
	if err != nil {
		return engine.Season{}, err
	}
	season := engine.Season{League: s.league, ID: id}
	var recs []datedRecord
	for _, f := range files {
		rec, date, err := s.readMatch(ctx, filepath.Join(dir, f))
		if err != nil {
			s.log.Warn(ctx, "unreadable match database",
				logger.String("season", id), logger.String("file", f), logger.Error(err))
			season.Skips = append(season.Skips, unreadable(f, err))
			continue
		}
		rec.SeasonID = id
		recs = append(recs, datedRecord{rec: rec, date: date, file: f})
	}
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.date.IsZero() != b.date.IsZero() {
			return b.date.IsZero()
		}
		if !a.date.Equal(b.date) {
			return a.date.Before(b.date)
		}
		return a.file < b.file
	})
	for _, r := range recs {
		season.Matches = append(season.Matches, r.rec)
	}
	s.log.Debug(ctx, "season loaded",
		logger.String("season", id),
		logger.Int("matches", len(season.Matches)),
		logger.Int("unreadable", len(season.Skips)))
	return season, nil
}

func (s *SQLiteSource) readMatch(ctx context.Context, path string) (rec m.MatchRecord, date time.Time, err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return rec, date, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	var result, dato, home, away string
	row := db.QueryRowContext(ctx, matchInfoQuery)
	if err := row.Scan(&rec.MatchID, &home, &away, &result, &dato); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, date, ErrNoMatchInfo
		}
		return rec, date, fmt.Errorf("match_info: %w", err)
	}
	rec.Home = m.TeamID(strings.TrimSpace(home))
	rec.Away = m.TeamID(strings.TrimSpace(away))
	if rec.FinalScore, err = parseScore(result); err != nil {
		return rec, date, fmt.Errorf("resultat: %w", err)
	}
	date = parseDate(dato)

	rows, err := db.QueryContext(ctx, matchEventsQuery)
	if err != nil {
		return rec, date, fmt.Errorf("match_events: %w", err)
	}
	defer rows.Close()

	var running m.Score
	for rows.Next() {
		var tid, maal, hold, action, pos, name, secondary, name2, keeper string
		if err := rows.Scan(&tid, &maal, &hold, &action, &pos, &name, &secondary, &name2, &keeper); err != nil {
			return rec, date, fmt.Errorf("match_events: %w", err)
		}
		action = strings.TrimSpace(action)
		if action == "" || strings.EqualFold(action, "nan") {
			continue
		}
		if strings.Contains(maal, "-") {
			if sc, err := parseScore(maal); err == nil {
				running = sc
			}
		}
		rec.Events = append(rec.Events, m.MatchEvent{
			Time:            parseTime(tid),
			Score:           running,
			Team:            s.team(hold),
			Action:          m.Action(action),
			Role:            m.Role(strings.TrimSpace(pos)),
			Player:          name,
			SecondaryAction: m.Action(strings.TrimSpace(secondary)),
			SecondaryPlayer: name2,
			Goalkeeper:      keeper,
		})
	}
	if err := rows.Err(); err != nil {
		return rec, date, fmt.Errorf("match_events: %w", err)
	}
	return rec, date, nil
}

func (s *SQLiteSource) team(code string) m.TeamID {
	code = strings.TrimSpace(code)
	if name, ok := s.aliases[code]; ok {
		return m.TeamID(name)
	}
	return m.TeamID(code)
}

// parseScore reads "28-25".
func parseScore(v string) (m.Score, error) {
	h, a, ok := strings.Cut(strings.TrimSpace(v), "-")
	if !ok {
		return m.Score{}, fmt.Errorf("%w: %q", ErrBadScore, v)
	}
	home, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return m.Score{}, fmt.Errorf("%w: %q", ErrBadScore, v)
	}
	away, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return m.Score{}, fmt.Errorf("%w: %q", ErrBadScore, v)
	}
	return m.Score{Home: home, Away: away}, nil
}

// parseTime reads the minute column ("12.36"). Unparseable values become NaN
// so event validation rejects them.
func parseTime(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(v, ",", ".")), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
