package source

import "errors"

var (
	// ErrUnknownFormat is returned by New for formats other than yaml and sqlite.
	ErrUnknownFormat = errors.New("unknown source format")
	// ErrNoLeague is returned when the league directory does not exist.
	ErrNoLeague = errors.New("league directory not found")
	// ErrBadScore is returned for score strings that are not "<home>-<away>".
	ErrBadScore = errors.New("bad score")
	// ErrNoMatchInfo is returned for match databases without a match_info row.
	ErrNoMatchInfo = errors.New("match_info is empty")
)
