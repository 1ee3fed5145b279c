package importance

import m "github.com/okian/hbelo/internal/domain/model"

// Momentum holds the four situational detectors. Each is 1.0 when it does
// not fire.
type Momentum struct {
	Comeback         float64
	LeadLoss         float64
	LeadershipChange float64
	CriticalError    float64
}

// Max returns the strongest detector.
func (mo Momentum) Max() float64 {
	v := mo.Comeback
	for _, x := range []float64{mo.LeadLoss, mo.LeadershipChange, mo.CriticalError} {
		if x > v {
			v = x
		}
	}
	return v
}

func detectMomentum(in Input) Momentum {
	mo := Momentum{Comeback: 1, LeadLoss: 1, LeadershipChange: 1, CriticalError: 1}
	info, _ := in.Action.Info()
	own, opp := in.Score.Home, in.Score.Away
	if in.Team != in.Home {
		own, opp = opp, own
	}
	gap := in.Score.Diff()

	if info.Goal && own < opp {
		mo.Comeback = byGap(gap, 2.2, 1.8, 1.4)
	}
	if info.Class == m.ClassNegative && own > opp {
		mo.LeadLoss = byGap(gap, 2.0, 1.6, 1.3)
	}
	if info.Goal {
		switch {
		case opp > own && own+1 >= opp:
			mo.LeadershipChange = 2.5
		case own == opp:
			mo.LeadershipChange = 1.8
		}
	}
	if info.Class == m.ClassNegative && gap <= 2 {
		switch info.Severity {
		case m.SeverityDiscipline:
			mo.CriticalError = 2.0
		case m.SeverityTurnover:
			mo.CriticalError = 1.6
		case m.SeverityMinor:
			mo.CriticalError = 1.4
		}
	}
	return mo
}

func byGap(gap int, large, medium, small float64) float64 {
	switch {
	case gap >= 5:
		return large
	case gap >= 3:
		return medium
	case gap >= 1:
		return small
	default:
		return 1
	}
}
