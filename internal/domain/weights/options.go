package weights

import (
	"fmt"

	m "github.com/okian/hbelo/internal/domain/model"
)

// Option configures a Registry under construction.
type Option func(*Registry) error

// WithName sets the registry name and version.
func WithName(name, version string) Option {
	return func(r *Registry) error {
		if name != "" {
			r.name = name
		}
		if version != "" {
			r.version = version
		}
		return nil
	}
}

// WithBaseWeights overrides base weights by action code. With replace the
// master table is discarded first, so the overrides must cover the catalog.
func WithBaseWeights(weights map[string]float64, replace bool) Option {
	return func(r *Registry) error {
		if replace {
			r.base = make(map[m.Action]float64, len(weights))
		}
		for code, w := range weights {
			r.base[m.Action(code)] = w
		}
		return nil
	}
}

// WithConcedingWeights overrides goalkeeper-field weights by action code.
func WithConcedingWeights(weights map[string]float64) Option {
	return func(r *Registry) error {
		for code, w := range weights {
			r.conceding[m.Action(code)] = w
		}
		return nil
	}
}

// WithRoleMultiplier overrides one coefficient of a role table. An empty
// action code sets the table default.
func WithRoleMultiplier(role, action string, v float64) Option {
	return func(r *Registry) error {
		rl := m.Role(role)
		if !rl.IsPure() {
			return fmt.Errorf("%w: unknown role %q", ErrInvalidMultiplier, role)
		}
		t, ok := r.roles[rl]
		if !ok {
			t = RoleTable{Default: 1.0, Actions: map[m.Action]float64{}}
		}
		t = t.clone()
		if action == "" {
			t.Default = v
		} else {
			t.Actions[m.Action(action)] = v
		}
		r.roles[rl] = t
		return nil
	}
}

// WithStrictUnknownActions makes codes outside the registry fatal.
func WithStrictUnknownActions(strict bool) Option {
	return func(r *Registry) error {
		r.strict = strict
		return nil
	}
}

// WithFieldRoleMultipliers enables the outfield role tables.
func WithFieldRoleMultipliers(enabled bool) Option {
	return func(r *Registry) error {
		r.fieldRoles = enabled
		return nil
	}
}
