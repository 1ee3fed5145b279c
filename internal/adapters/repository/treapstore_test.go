package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/okian/hbelo/internal/domain/engine"
	m "github.com/okian/hbelo/internal/domain/model"
)

func row(name string, rating float64) engine.PlayerRow {
	return engine.PlayerRow{Player: name, Rating: rating, Games: 1, PrimaryRole: m.RoleLeftBack, Team: "AAH"}
}

func TestTreapStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
	if _, err := store.Rank(ctx, "Ida Berg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := store.Replace(ctx, []engine.PlayerRow{row("Ida Berg", 1234.5)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	entry, err := store.Rank(ctx, "Ida Berg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 || entry.Rating != 1234.5 || entry.Team != "AAH" {
		t.Errorf("unexpected entry %+v", entry)
	}

	entries, err := store.TopN(ctx, 10, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Player != "Ida Berg" {
		t.Errorf("unexpected top entries %+v", entries)
	}
}

func TestTreapStore_Ordering(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	rows := []engine.PlayerRow{
		row("p1", 1285), row("p2", 1395), row("p3", 1175), row("p4", 1500), row("p5", 1280),
	}
	if err := store.Replace(ctx, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := store.TopN(ctx, 5, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"p4", "p2", "p1", "p5", "p3"}
	for i, e := range entries {
		if e.Player != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], e.Player)
		}
		if e.Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, e.Rank)
		}
		pos, err := store.Position(ctx, e.Player)
		if err != nil || pos != i {
			t.Errorf("position of %s: got %d, %v", e.Player, pos, err)
		}
	}
}

func TestTreapStore_TieBreaking(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	rows := []engine.PlayerRow{row("charlie", 1300), row("alice", 1300), row("bob", 1300), row("dave", 1200)}
	if err := store.Replace(ctx, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, _ := store.TopN(ctx, 4, nil)
	want := []string{"alice", "bob", "charlie", "dave"}
	ranks := []int{1, 1, 1, 2}
	for i, e := range entries {
		if e.Player != want[i] || e.Rank != ranks[i] {
			t.Errorf("position %d: expected %s rank %d, got %s rank %d", i, want[i], ranks[i], e.Player, e.Rank)
		}
	}
	dave, _ := store.Rank(ctx, "dave")
	if dave.Rank != 2 {
		t.Errorf("expected dave at rank 2, got %d", dave.Rank)
	}
}

func TestTreapStore_ReplaceDropsOldRows(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	_ = store.Replace(ctx, []engine.PlayerRow{row("old", 1900), row("kept", 1200)})
	_ = store.Replace(ctx, []engine.PlayerRow{row("kept", 1250), row("new", 1100), row("kept", 2500)})

	if _, err := store.Rank(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected old row to be gone, got %v", err)
	}
	kept, err := store.Rank(ctx, "kept")
	if err != nil || kept.Rating != 1250 || kept.Rank != 1 {
		t.Errorf("unexpected kept row %+v, %v", kept, err)
	}
	if store.Count(ctx) != 2 {
		t.Errorf("expected 2 rows, got %d", store.Count(ctx))
	}
}

func TestTreapStore_Filters(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(WithTopCacheSize(2))

	rows := []engine.PlayerRow{row("a", 1500), row("b", 1400), row("c", 1300), row("d", 1200)}
	rows[1].PrimaryRole = m.RoleGoalkeeper
	rows[3].PrimaryRole = m.RoleGoalkeeper
	rows[3].Team = "BSV"
	_ = store.Replace(ctx, rows)

	keepers, err := store.TopN(ctx, 10, ByRole(m.RoleGoalkeeper))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keepers) != 2 || keepers[0].Player != "b" || keepers[0].Rank != 2 || keepers[1].Rank != 4 {
		t.Errorf("unexpected keepers %+v", keepers)
	}

	bsv, _ := store.TopN(ctx, 10, ByTeam("BSV"))
	if len(bsv) != 1 || bsv[0].Player != "d" {
		t.Errorf("unexpected team filter result %+v", bsv)
	}

	// Past the cached head the tree is walked.
	all, _ := store.TopN(ctx, 3, nil)
	if len(all) != 3 || all[2].Player != "c" || all[2].Rank != 3 {
		t.Errorf("unexpected uncached result %+v", all)
	}
}

func TestTreapStore_EdgeCases(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if _, err := store.TopN(ctx, 0, nil); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := store.Position(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	entries, err := store.TopN(ctx, 5, nil)
	if err != nil || len(entries) != 0 {
		t.Errorf("expected empty result, got %+v, %v", entries, err)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if err := store.Replace(cctx, []engine.PlayerRow{row("x", 1)}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestTreapStore_RankCorrectnessUnderStress(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()
	rng := rand.New(rand.NewSource(1))

	rows := make([]engine.PlayerRow, 2000)
	for i := range rows {
		rows[i] = row(fmt.Sprintf("player-%04d", i), 800+float64(rng.Intn(400))*5)
	}
	if err := store.Replace(ctx, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sorted := append([]engine.PlayerRow(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Rating != sorted[j].Rating {
			return sorted[i].Rating > sorted[j].Rating
		}
		return sorted[i].Player < sorted[j].Player
	})

	top, _ := store.TopN(ctx, len(rows), nil)
	if len(top) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(top))
	}
	for i := range sorted {
		if top[i].Player != sorted[i].Player {
			t.Fatalf("position %d: expected %s, got %s", i, sorted[i].Player, top[i].Player)
		}
		if i > 0 && top[i].Rank < top[i-1].Rank {
			t.Fatalf("ranks decrease at %d", i)
		}
	}
}

func TestTreapStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()
	_ = store.Replace(ctx, []engine.PlayerRow{row("a", 1300), row("b", 1200)})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if g == 0 {
					_ = store.Replace(ctx, []engine.PlayerRow{row("a", float64(1300+i)), row("b", 1200)})
					continue
				}
				if _, err := store.Rank(ctx, "a"); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				if _, err := store.TopN(ctx, 2, ByTeam("AAH")); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}
