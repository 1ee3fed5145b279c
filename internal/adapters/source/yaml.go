package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/okian/hbelo/internal/domain/engine"
	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/pkg/logger"
)

// YAMLSource reads one match record per .yaml/.yml file.
type YAMLSource struct {
	root   string
	league string
	log    logger.Logger
}

// League returns the league name.
func (s *YAMLSource) League() string { return s.league }

// Seasons decodes every season of the league. Files that fail to decode
// become unreadable skips of their season.
func (s *YAMLSource) Seasons(ctx context.Context) ([]engine.Season, error) {
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

func (s *YAMLSource) season(ctx context.Context, id string) (engine.Season, error) {
	dir := filepath.Join(s.root, s.league, id)
	files, err := matchFiles(dir, ".yaml", ".yml")
	if err != nil {
		return engine.Season{}, err
	}
	season := engine.Season{League: s.league, ID: id}
	for _, f := range files {
		rec, err := readYAML(filepath.Join(dir, f))
		if err != nil {
			s.log.Warn(ctx, "unreadable match file",
				logger.String("season", id), logger.String("file", f), logger.Error(err))
			season.Skips = append(season.Skips, unreadable(f, err))
			continue
		}
		if rec.SeasonID == "" {
			rec.SeasonID = id
		}
		season.Matches = append(season.Matches, rec)
	}
	s.log.Debug(ctx, "season loaded",
		logger.String("season", id),
		logger.Int("matches", len(season.Matches)),
		logger.Int("unreadable", len(season.Skips)))
	return season, nil
}

func readYAML(path string) (m.MatchRecord, error) {
	var rec m.MatchRecord
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, fmt.Errorf("read: %w", err)
	}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("parse: %w", err)
	}
	return rec, nil
}

// WriteYAML writes records as <root>/<league>/<season>/NNNN.yaml, numbered in
// slice order so they read back in the same order.
func WriteYAML(root, league, season string, records []m.MatchRecord) error {
	dir := filepath.Join(root, league, season)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec,mnd // data directory
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for i, rec := range records {
		data, err := yaml.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode %s: %w", rec.MatchID, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("%04d.yaml", i+1))
		if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec,mnd // data file
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
