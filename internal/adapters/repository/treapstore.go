package repository

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
	"sync/atomic"

	"github.com/okian/hbelo/internal/domain/engine"
	"github.com/okian/hbelo/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: rating DESC, then player name ASC (deterministic).
// "less" means ranks earlier, so in-order traversal yields the leaderboard
// from best to worst.

// ratingScale is the fixed-point precision; ratings equal to six decimals tie.
const ratingScale = 1_000_000

type ratingFP int64

func toFixedPoint(x float64) ratingFP {
	switch {
	case math.IsNaN(x):
		return 0
	case x*ratingScale >= math.MaxInt64:
		return ratingFP(math.MaxInt64)
	case x*ratingScale <= math.MinInt64:
		return ratingFP(math.MinInt64)
	}
	return ratingFP(math.Round(x * ratingScale))
}

func toFloat(x ratingFP) float64 {
	return float64(x) / ratingScale
}

// Snapshot is an immutable view published after every Replace.
type Snapshot struct {
	RankByPlayer map[string]int
	TopCache     []Entry // sorted descending, at most topCacheSize rows
}

// treap node
type node struct {
	id    string
	score ratingFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aID) should appear before (bScore, bID).
func less(aScore ratingFP, aID string, bScore ratingFP, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// priority hashes the player name so tree shape is reproducible.
func priority(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}

func insert(n *node, id string, score ratingFP) *node {
	if n == nil {
		return &node{id: id, score: score, prio: priority(id), size: 1}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

// position returns the 0-based in-order index of (id, score).
func position(n *node, id string, score ratingFP) int {
	pos := 0
	for n != nil {
		switch {
		case n.id == id && n.score == score:
			return pos + nsize(n.left)
		case less(score, id, n.score, n.id):
			n = n.left
		default:
			pos += nsize(n.left) + 1
			n = n.right
		}
	}
	return -1
}

// collect appends entries in rank order until limit rows pass filter.
func collect(n *node, limit int, rows map[string]Entry, filter Filter, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collect(n.left, limit, rows, filter, out)
	if len(*out) < limit {
		if e, ok := rows[n.id]; ok && (filter == nil || filter(e)) {
			*out = append(*out, e)
		}
	}
	if len(*out) < limit {
		collect(n.right, limit, rows, filter, out)
	}
}

// TreapStore is a ranked player leaderboard for one league.
type TreapStore struct {
	mu           sync.RWMutex
	root         *node
	rows         map[string]Entry
	topCacheSize int
	league       string

	snapshot atomic.Pointer[Snapshot]
}

// NewTreapStore constructs an empty treap store.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		topCacheSize: 100,
		league:       "default",
		rows:         make(map[string]Entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot.Store(&Snapshot{RankByPlayer: map[string]int{}})
	return s
}

// Replace rebuilds the tree from rows and publishes a new snapshot.
func (s *TreapStore) Replace(ctx context.Context, rows []engine.PlayerRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	next := make(map[string]Entry, len(rows))
	var root *node
	for _, r := range rows {
		if _, ok := next[r.Player]; ok {
			continue
		}
		fp := toFixedPoint(r.Rating)
		next[r.Player] = Entry{
			Player:     r.Player,
			Rating:     toFloat(fp),
			Games:      r.Games,
			Role:       r.PrimaryRole,
			Team:       r.Team,
			Goalkeeper: r.ConfirmedGoalkeeper,
		}
		root = insert(root, r.Player, fp)
	}

	s.mu.Lock()
	s.root = root
	s.rows = next
	s.publishSnapshotInternal()
	s.mu.Unlock()

	metrics.UpdateLeaderboardSize(s.league, len(next))
	return nil
}

// Rank returns the current rank and rating for a player. Rows with equal
// ratings share a rank.
func (s *TreapStore) Rank(_ context.Context, player string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rank, ok := s.snapshot.Load().RankByPlayer[player]
	if !ok {
		return Entry{}, ErrNotFound
	}
	e := s.rows[player]
	e.Rank = rank
	return e, nil
}

// Position returns the 0-based in-order index of player, ignoring ties.
func (s *TreapStore) Position(_ context.Context, player string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.rows[player]
	if !ok {
		return 0, ErrNotFound
	}
	return position(s.root, player, toFixedPoint(e.Rating)), nil
}

// TopN returns the top n entries accepted by filter, ordered by rating desc.
func (s *TreapStore) TopN(_ context.Context, n int, filter Filter) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	snap := s.snapshot.Load()
	if filter == nil && (n <= len(snap.TopCache) || len(snap.TopCache) == len(snap.RankByPlayer)) {
		return append([]Entry(nil), snap.TopCache[:min(n, len(snap.TopCache))]...), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, min(n, len(s.rows)))
	collect(s.root, n, s.rows, filter, &out)
	for i := range out {
		out[i].Rank = snap.RankByPlayer[out[i].Player]
	}
	return out, nil
}

// Count returns the total number of players.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// publishSnapshotInternal rebuilds and publishes a new snapshot (assumes lock is held)
func (s *TreapStore) publishSnapshotInternal() {
	all := make([]Entry, 0, len(s.rows))
	collect(s.root, len(s.rows), s.rows, nil, &all)
	assignRanksWithTies(all)

	rankByPlayer := make(map[string]int, len(all))
	for _, e := range all {
		rankByPlayer[e.Player] = e.Rank
	}
	top := all[:min(s.topCacheSize, len(all))]
	s.snapshot.Store(&Snapshot{
		RankByPlayer: rankByPlayer,
		TopCache:     append([]Entry(nil), top...),
	})
}

// assignRanksWithTies assigns dense ranks: equal ratings share a rank and
// the next distinct rating takes the following rank.
func assignRanksWithTies(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Rating != entries[i-1].Rating {
			rank++
		}
		entries[i].Rank = rank
	}
}
