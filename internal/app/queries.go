package service

import (
	"context"
	"fmt"

	"github.com/okian/hbelo/internal/adapters/repository"
	"github.com/okian/hbelo/internal/domain/engine"
	"github.com/okian/hbelo/internal/domain/types"
)

// Players returns the top n players of a league. Filters are combined with
// AND.
func (s *Service) Players(ctx context.Context, name string, n int, filters ...repository.Filter) ([]repository.Entry, error) {
	l, err := s.league(name)
	if err != nil {
		return nil, err
	}
	var filter repository.Filter
	if len(filters) > 0 {
		filter = func(e repository.Entry) bool {
			for _, f := range filters {
				if f != nil && !f(e) {
					return false
				}
			}
			return true
		}
	}
	return l.board.TopN(ctx, n, filter)
}

// Player returns the detail of one player in a league.
func (s *Service) Player(ctx context.Context, name, player string) (types.PlayerDetail, error) {
	l, err := s.league(name)
	if err != nil {
		return types.PlayerDetail{}, err
	}
	entry, err := l.board.Rank(ctx, player)
	if err != nil {
		return types.PlayerDetail{}, err
	}
	pos, err := l.board.Position(ctx, player)
	if err != nil {
		return types.PlayerDetail{}, err
	}
	d := types.PlayerDetail{Entry: entry, Position: pos}

	l.mu.RLock()
	defer l.mu.RUnlock()
	for i, r := range l.results {
		row, ok := r.Player(player)
		if !ok {
			continue
		}
		d.History = append(d.History, types.SeasonRating{Season: r.Season, Rating: row.Rating, Games: row.Games})
		if i == len(l.results)-1 {
			d.Momentum = row.Momentum
			d.EliteTier = row.EliteTier
		}
	}
	return d, nil
}

// Teams returns the team table of a season; an empty season means the
// latest.
func (s *Service) Teams(ctx context.Context, name, season string) ([]engine.TeamRow, error) {
	r, err := s.Season(ctx, name, season)
	if err != nil {
		return nil, err
	}
	return r.Teams, nil
}

// Deltas returns the per-match team delta log of a season; an empty season
// means the latest.
func (s *Service) Deltas(ctx context.Context, name, season string) ([]engine.MatchDelta, error) {
	r, err := s.Season(ctx, name, season)
	if err != nil {
		return nil, err
	}
	return r.Deltas, nil
}

// Season returns the full result of one rated season; an empty season means
// the latest.
func (s *Service) Season(_ context.Context, name, season string) (*engine.SeasonResult, error) {
	l, err := s.league(name)
	if err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotRated, name)
	}
	if season == "" {
		return l.results[len(l.results)-1], nil
	}
	for _, r := range l.results {
		if r.Season == season {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrUnknownSeason, name, season)
}
