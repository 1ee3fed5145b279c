package engine

import "errors"

// Skip errors. A match failing with one of these is dropped as a whole and
// the run continues.
var (
	ErrMalformedRecord  = errors.New("malformed match record")
	ErrUnresolvableTeam = errors.New("no event resolves to either team")
	ErrCorruptMatch     = errors.New("corrupt match")
	ErrDuplicateMatch   = errors.New("duplicate match id")
)

// ErrMixedLeagues is returned by Run for seasons of more than one league.
var ErrMixedLeagues = errors.New("seasons span more than one league")

// Skip reasons as reported in SeasonResult.Skips and metrics.
const (
	ReasonMalformed    = "malformed_record"
	ReasonUnresolvable = "unresolvable_team"
	ReasonCorrupt      = "corrupt_match"
	ReasonDuplicate    = "duplicate_match"
	ReasonUnreadable   = "unreadable_record"
)

// Skip describes one match that was not applied.
type Skip struct {
	MatchID string `json:"match_id"`
	Reason  string `json:"reason"`
	Err     error  `json:"-"`
}

// Error returns the underlying error text.
func (s Skip) Error() string {
	if s.Err == nil {
		return s.Reason
	}
	return s.Err.Error()
}

// skipReason maps err to a skip reason. ok is false for fatal errors.
func skipReason(err error) (reason string, ok bool) {
	switch {
	case errors.Is(err, ErrMalformedRecord):
		return ReasonMalformed, true
	case errors.Is(err, ErrUnresolvableTeam):
		return ReasonUnresolvable, true
	case errors.Is(err, ErrCorruptMatch):
		return ReasonCorrupt, true
	case errors.Is(err, ErrDuplicateMatch):
		return ReasonDuplicate, true
	default:
		return "", false
	}
}
