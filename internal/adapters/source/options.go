package source

import "github.com/okian/hbelo/pkg/logger"

// Option configures a source.
type Option func(*options)

type options struct {
	log     logger.Logger
	aliases map[string]string
}

func defaultOptions() options {
	return options{log: logger.Nop()}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithTeamAliases maps team codes found in event rows to the team names used
// in match_info. Only the sqlite source reads event team codes.
func WithTeamAliases(aliases map[string]string) Option {
	return func(o *options) {
		o.aliases = make(map[string]string, len(aliases))
		for k, v := range aliases {
			o.aliases[k] = v
		}
	}
}
