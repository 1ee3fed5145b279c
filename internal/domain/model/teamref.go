package model

type teamRefKind uint8

const (
	teamRefResolved teamRefKind = iota + 1
	teamRefOpposite
)

// TeamRef names a team either directly or as the opponent of a team. It only
// exists while an event is being normalized.
type TeamRef struct {
	kind teamRefKind
	team TeamID
}

// Resolved refers to team itself.
func Resolved(team TeamID) TeamRef { return TeamRef{kind: teamRefResolved, team: team} }

// OppositeOf refers to the opponent of team.
func OppositeOf(team TeamID) TeamRef { return TeamRef{kind: teamRefOpposite, team: team} }

// Resolve turns the reference into a concrete team of the match. ok is false
// when the referenced team is neither home nor away.
func (r TeamRef) Resolve(home, away TeamID) (TeamID, bool) {
	if r.team != home && r.team != away {
		return "", false
	}
	switch r.kind {
	case teamRefResolved:
		return r.team, true
	case teamRefOpposite:
		if r.team == home {
			return away, true
		}
		return home, true
	default:
		return "", false
	}
}
