// Package matchgen produces deterministic synthetic handball seasons for
// tests and local runs.
package matchgen

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/google/uuid"
	m "github.com/okian/hbelo/internal/domain/model"
)

// Generator configuration constants.
const (
	defaultTeams        = 8
	defaultFieldPlayers = 12
	defaultEvents       = 110
	defaultRounds       = 1
	minTeams            = 2
	halfLength          = 30.0
	matchLength         = 60.0
)

// Event mix thresholds over a uniform draw.
const (
	pGoal         = 0.40
	pSave         = 0.58
	pMiss         = 0.66
	pTurnover     = 0.80
	pSteal        = 0.86
	pSuspension   = 0.91
	pPenaltyGoal  = 0.96
	pAssist       = 0.45
	pLostBall     = 0.5
	pMissingRole  = 0.08
	pBackupKeeper = 0.15
	pHomeAttack   = 0.52
)

var clubs = []m.TeamID{ //nolint:gochecknoglobals // fixed club list
	"AAH", "BSV", "GOG", "KIF", "MSH", "RHK", "SJE", "SKB", "TTH", "FHH", "NSH", "LTH",
}

// namespace scopes generated match ids.
var namespace = uuid.MustParse("9b0f3c2e-6a41-5d8e-b7c1-2f4e8a90d315") //nolint:gochecknoglobals // constant namespace

type player struct {
	name string
	role m.Role
}

type roster struct {
	keepers []player
	field   []player
}

// Generator builds seasons as a round robin over a fixed set of clubs.
type Generator struct {
	league       string
	teams        int
	fieldPlayers int
	events       int
	rounds       int
	seed         int64
}

// New returns a Generator for league.
func New(league string, opts ...Option) *Generator {
	g := &Generator{
		league:       league,
		teams:        defaultTeams,
		fieldPlayers: defaultFieldPlayers,
		events:       defaultEvents,
		rounds:       defaultRounds,
		seed:         1,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Teams returns the participating team ids.
func (g *Generator) Teams() []m.TeamID {
	return append([]m.TeamID(nil), clubs[:g.teams]...)
}

// MatchID is the deterministic id of the n-th match of a league season.
func MatchID(league, season string, n int) string {
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%s/%s/%d", league, season, n))).String()
}

// Season generates every match of season id in play order. Rosters are
// stable across seasons so players carry over.
func (g *Generator) Season(id string) []m.MatchRecord {
	rng := rand.New(rand.NewSource(g.seed ^ hashString(g.league+"/"+id))) //nolint:gosec // reproducible test data
	teams := g.Teams()
	rosters := make(map[m.TeamID]roster, len(teams))
	for _, t := range teams {
		rosters[t] = g.roster(t)
	}

	var out []m.MatchRecord
	for round := 0; round < g.rounds; round++ {
		for _, h := range teams {
			for _, a := range teams {
				if h == a {
					continue
				}
				rec := g.match(rng, rosters, h, a)
				rec.MatchID = MatchID(g.league, id, len(out))
				rec.SeasonID = id
				out = append(out, rec)
			}
		}
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func (g *Generator) roster(t m.TeamID) roster {
	r := roster{
		keepers: []player{
			{name: fmt.Sprintf("%s Keeper 1", t), role: m.RoleGoalkeeper},
			{name: fmt.Sprintf("%s Keeper 2", t), role: m.RoleGoalkeeper},
		},
	}
	roles := m.FieldRoles()
	for i := 0; i < g.fieldPlayers; i++ {
		r.field = append(r.field, player{
			name: fmt.Sprintf("%s Player %02d", t, i+1),
			role: roles[i%len(roles)],
		})
	}
	return r
}

func (g *Generator) match(rng *rand.Rand, rosters map[m.TeamID]roster, home, away m.TeamID) m.MatchRecord {
	rec := m.MatchRecord{Home: home, Away: away}
	var score m.Score
	marker := func(t float64, a m.Action) {
		rec.Events = append(rec.Events, m.MatchEvent{Time: t, Score: score, Action: a})
	}

	marker(0, m.ActionFirstHalf)
	secondHalf := false
	for i := 0; i < g.events; i++ {
		t := math.Round(float64(i+1)*matchLength/float64(g.events+1)*100) / 100
		if !secondHalf && t >= halfLength {
			marker(halfLength, m.ActionHalfTime)
			marker(halfLength, m.ActionSecondHalf)
			secondHalf = true
		}

		acting, defending := home, away
		if rng.Float64() >= pHomeAttack {
			acting, defending = away, home
		}
		att, def := rosters[acting], rosters[defending]
		shooter := pick(rng, att.field)
		keeper := def.keepers[0]
		if rng.Float64() < pBackupKeeper {
			keeper = def.keepers[1]
		}

		ev := m.MatchEvent{Time: t, Team: acting, Player: shooter.name, Role: shooter.role}
		if rng.Float64() < pMissingRole {
			ev.Role = m.RoleNone
		}

		switch r := rng.Float64(); {
		case r < pGoal, r >= pSuspension && r < pPenaltyGoal:
			ev.Action = m.ActionGoal
			if r >= pSuspension {
				ev.Action = m.ActionPenaltyGoal
			}
			ev.Goalkeeper = keeper.name
			if acting == home {
				score.Home++
			} else {
				score.Away++
			}
			if ev.Action == m.ActionGoal && rng.Float64() < pAssist {
				if mate := pick(rng, att.field); mate.name != shooter.name {
					ev.SecondaryAction, ev.SecondaryPlayer = m.ActionAssist, mate.name
				}
			}
		case r < pSave:
			ev.Action = m.ActionSave
			ev.Goalkeeper = keeper.name
		case r < pMiss:
			ev.Action = m.ActionMiss
		case r < pTurnover:
			ev.Action = m.ActionBadPass
			if rng.Float64() < pLostBall {
				ev.Action = m.ActionLostBall
			}
		case r < pSteal:
			ev.Action = m.ActionLostBall
			ev.SecondaryAction, ev.SecondaryPlayer = m.ActionSteal, pick(rng, def.field).name
		case r < pSuspension:
			ev.Action = m.ActionSuspension
		default:
			ev.Action = m.ActionTechnicalFault
		}
		ev.Score = score
		rec.Events = append(rec.Events, ev)
	}
	marker(matchLength, m.ActionFullTime)
	rec.FinalScore = score
	return rec
}

func pick(rng *rand.Rand, ps []player) player {
	return ps[rng.Intn(len(ps))]
}

func hashString(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64()) //nolint:gosec // seed only
}
