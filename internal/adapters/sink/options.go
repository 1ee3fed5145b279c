package sink

import "github.com/okian/hbelo/pkg/logger"

// Option configures a SQLiteSink.
type Option func(*SQLiteSink)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *SQLiteSink) {
		if l != nil {
			s.log = l
		}
	}
}
