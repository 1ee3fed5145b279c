package sink

import "errors"

// ErrNoSeason is returned by LatestSeason for leagues with nothing stored.
var ErrNoSeason = errors.New("no season stored")
