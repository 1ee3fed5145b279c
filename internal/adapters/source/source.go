// Package source reads match records of one league from disk.
//
// Both formats share the layout <root>/<league>/<season>/<match files>.
// Season directories are read in lexical order, which matches the
// "2023-2024" naming used for handball seasons.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/okian/hbelo/internal/domain/engine"
)

// Format names a record encoding.
type Format string

// Supported formats.
const (
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// Source produces the seasons of one league in order.
type Source interface {
	League() string
	Seasons(ctx context.Context) ([]engine.Season, error)
}

// New returns a source for league under root in the given format.
func New(format Format, root, league string, opts ...Option) (Source, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	switch Format(strings.ToLower(string(format))) {
	case FormatYAML:
		return &YAMLSource{root: root, league: league, log: o.log}, nil
	case FormatSQLite:
		return &SQLiteSource{root: root, league: league, aliases: o.aliases, log: o.log}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// seasonDirs lists the season directories of a league in order.
func seasonDirs(root, league string) ([]string, error) {
	dir := filepath.Join(root, league)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoLeague, dir)
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// matchFiles lists files in dir with one of the given extensions, sorted.
func matchFiles(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range exts {
			if ext == want {
				out = append(out, e.Name())
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// stem is a file name without its extension, used as the match id of
// records that could not be decoded.
func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func unreadable(file string, err error) engine.Skip {
	return engine.Skip{MatchID: stem(file), Reason: engine.ReasonUnreadable, Err: err}
}
