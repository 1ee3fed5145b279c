package simulate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/okian/hbelo/internal/domain/engine"
	"github.com/okian/hbelo/internal/domain/types"
	"github.com/okian/hbelo/pkg/logger"
)

// ratingTolerance absorbs the fixed-point ordering key of the leaderboard.
const ratingTolerance = 1e-3

const pollInterval = 250 * time.Millisecond

func sortRows(rows []engine.PlayerRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Rating != rows[j].Rating {
			return rows[i].Rating > rows[j].Rating
		}
		return rows[i].Player < rows[j].Player
	})
}

// Verify fetches every league leaderboard concurrently and compares it
// with expected. Served rows must be sorted and match the local rating of
// the same player.
func Verify(ctx context.Context, cfg *Config, expected map[string][]engine.PlayerRow, stats *Stats) ([]Mismatch, error) {
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := client.health(ctx); err != nil {
		return nil, err
	}

	var (
		mu         sync.Mutex
		mismatches []Mismatch
		errs       []error
		wg         sync.WaitGroup
	)
	for league, rows := range expected {
		wg.Add(1)
		go func(league string, rows []engine.PlayerRow) {
			defer wg.Done()
			served, err := waitLeaderboard(ctx, client, league, cfg.TopN, cfg.Wait)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", league, err))
				return
			}
			stats.Compared += len(served)
			mismatches = append(mismatches, compare(league, served, rows)...)
		}(league, rows)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return mismatches, err
	}
	if len(mismatches) > 0 {
		return mismatches, fmt.Errorf("%w: %d rows", ErrMismatch, len(mismatches))
	}
	return nil, nil
}

// waitLeaderboard polls until the league serves a non-empty leaderboard or
// wait elapses.
func waitLeaderboard(ctx context.Context, c *HTTPClient, league string, n int, wait time.Duration) ([]types.Entry, error) {
	deadline := time.Now().Add(wait)
	for {
		entries, _, err := c.leaderboard(ctx, league, n)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if time.Now().After(deadline) {
			if err == nil {
				err = errors.New("empty leaderboard")
			}
			return nil, fmt.Errorf("%w: %w", ErrNotReady, err)
		}
		logger.Get().Debug(ctx, "waiting for leaderboard", logger.String("league", league))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// compare checks served against the locally rated rows.
func compare(league string, served []types.Entry, rows []engine.PlayerRow) []Mismatch {
	want := make(map[string]engine.PlayerRow, len(rows))
	for _, r := range rows {
		want[r.Player] = r
	}
	var out []Mismatch
	for i, got := range served {
		if i > 0 && got.Rating > served[i-1].Rating+ratingTolerance {
			out = append(out, Mismatch{League: league, Got: got, Detail: fmt.Sprintf("row %d rated above row %d", i, i-1)})
		}
		r, ok := want[got.Player]
		if !ok {
			out = append(out, Mismatch{League: league, Got: got, Detail: "player not rated locally"})
			continue
		}
		exp := types.Entry{Player: r.Player, Rating: r.Rating, Games: r.Games, Role: r.PrimaryRole, Team: r.Team, Goalkeeper: r.ConfirmedGoalkeeper}
		switch {
		case math.Abs(got.Rating-r.Rating) > ratingTolerance:
			out = append(out, Mismatch{League: league, Got: got, Want: exp, Detail: "rating differs"})
		case got.Games != r.Games:
			out = append(out, Mismatch{League: league, Got: got, Want: exp, Detail: "games differ"})
		}
	}
	if len(served) > 0 && len(rows) > 0 && served[0].Player != rows[0].Player &&
		math.Abs(served[0].Rating-rows[0].Rating) > ratingTolerance {
		out = append(out, Mismatch{League: league, Got: served[0], Detail: "top player differs from " + rows[0].Player})
	}
	return out
}
