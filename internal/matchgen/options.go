package matchgen

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeed sets the base seed. Equal seeds give equal seasons.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithTeams sets the number of teams, capped at the number of known clubs.
func WithTeams(n int) Option {
	return func(g *Generator) {
		if n >= minTeams {
			g.teams = min(n, len(clubs))
		}
	}
}

// WithRoster sets the number of field players per team.
func WithRoster(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.fieldPlayers = n
		}
	}
}

// WithEvents sets the number of non-marker events per match.
func WithEvents(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.events = n
		}
	}
}

// WithRounds sets how many times each pair of teams meets at each venue.
func WithRounds(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.rounds = n
		}
	}
}
