// Package simulate generates synthetic league archives and checks a running
// rating service against a local engine run over the same data.
package simulate

import (
	"time"

	"github.com/okian/hbelo/internal/domain/types"
)

// Config holds configuration for a simulation run.
type Config struct {
	Root    string        // Archive root; empty skips writing files
	Leagues []string      // Leagues to generate
	Seasons []string      // Season ids, oldest first
	Teams   int           // Teams per league
	Rounds  int           // Home-and-away rounds per season
	Events  int           // Non-marker events per match
	Seed    int64         // Generator seed
	BaseURL string        // Service to verify; empty skips verification
	TopN    int           // Leaderboard rows compared per league
	Timeout time.Duration // HTTP request timeout
	Wait    time.Duration // How long to wait for the service to serve ratings
}

// Stats holds run statistics.
type Stats struct {
	Leagues   int
	Seasons   int
	Matches   int
	Players   int
	Compared  int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Mismatch is one leaderboard row that disagrees with the local run.
type Mismatch struct {
	League string
	Got    types.Entry
	Want   types.Entry
	Detail string
}
