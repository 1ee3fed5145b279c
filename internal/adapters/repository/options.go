package repository

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithTopCacheSize sets how many leading rows each snapshot keeps ready.
func WithTopCacheSize(n int) Option {
	return func(s *TreapStore) {
		if n > 0 {
			s.topCacheSize = n
		}
	}
}

// WithLeague labels the store's metrics.
func WithLeague(league string) Option {
	return func(s *TreapStore) {
		if league != "" {
			s.league = league
		}
	}
}
