// Package weights holds the versioned action-weight registry used by the
// player rating updater.
package weights

import (
	"fmt"
	"math"
	"strings"

	m "github.com/okian/hbelo/internal/domain/model"
)

// RoleTable holds per-action multipliers for one role.
type RoleTable struct {
	Default float64
	Actions map[m.Action]float64
}

// Multiplier returns the coefficient for a, falling back to Default.
func (t RoleTable) Multiplier(a m.Action) float64 {
	if v, ok := t.Actions[a]; ok {
		return v
	}
	return t.Default
}

func (t RoleTable) clone() RoleTable {
	out := RoleTable{Default: t.Default, Actions: make(map[m.Action]float64, len(t.Actions))}
	for k, v := range t.Actions {
		out.Actions[k] = v
	}
	return out
}

// Registry is an immutable, validated set of weight tables.
type Registry struct {
	name    string
	version string

	base      map[m.Action]float64
	conceding map[m.Action]float64
	roles     map[m.Role]RoleTable

	// strict makes unknown action codes fatal instead of zero-weighted.
	strict bool
	// fieldRoles applies outfield role tables; the goalkeeper table always applies.
	fieldRoles bool
}

// New builds a registry from the master tables, applies opts and validates
// the result.
func New(opts ...Option) (*Registry, error) {
	r := &Registry{
		name:      MasterName,
		version:   MasterVersion,
		base:      masterBase(),
		conceding: masterConceding(),
		roles:     masterRoles(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Default returns the validated master registry.
func Default() *Registry {
	r, err := New()
	if err != nil {
		panic(fmt.Sprintf("master weight tables are invalid: %v", err))
	}
	return r
}

// ID returns name/version.
func (r *Registry) ID() string { return r.name + "/" + r.version }

// Strict reports whether unknown action codes abort a run.
func (r *Registry) Strict() bool { return r.strict }

// Validate checks that every catalog action resolves to a finite weight and
// that every multiplier is positive.
func (r *Registry) Validate() error {
	var missing []string
	for _, a := range m.KnownActions() {
		w, ok := r.base[a]
		if !ok {
			missing = append(missing, string(a))
			continue
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: weight for %q is not finite", ErrIncompleteRegistry, a)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s has no weight for %s", ErrIncompleteRegistry, r.ID(), strings.Join(missing, ", "))
	}
	for a := range r.conceding {
		if !a.Known() {
			return fmt.Errorf("%w: conceding weight for unknown action %q", ErrIncompleteRegistry, a)
		}
	}
	for role, t := range r.roles {
		if !role.IsPure() {
			return fmt.Errorf("%w: role table for %q", ErrInvalidMultiplier, role)
		}
		if t.Default <= 0 {
			return fmt.Errorf("%w: default for %s", ErrInvalidMultiplier, role)
		}
		for a, v := range t.Actions {
			if v <= 0 {
				return fmt.Errorf("%w: %s/%s", ErrInvalidMultiplier, role, a)
			}
		}
	}
	return nil
}

// Base returns the base weight of a. Codes outside the catalog get zero
// unless the registry is strict, in which case ErrMissingWeight is returned.
func (r *Registry) Base(a m.Action) (float64, error) {
	if w, ok := r.base[a]; ok {
		return w, nil
	}
	if r.strict {
		return 0, fmt.Errorf("%w: %q in %s", ErrMissingWeight, a, r.ID())
	}
	return 0, nil
}

// Conceding returns the goalkeeper-field weight for a, if any.
func (r *Registry) Conceding(a m.Action) (float64, bool) {
	w, ok := r.conceding[a]
	return w, ok
}

// RoleMultiplier returns the role coefficient for a. Roles without a table,
// and outfield roles when field tables are disabled, get 1.0.
func (r *Registry) RoleMultiplier(role m.Role, a m.Action) float64 {
	if role != m.RoleGoalkeeper && !r.fieldRoles {
		return 1.0
	}
	t, ok := r.roles[role]
	if !ok {
		return 1.0
	}
	return t.Multiplier(a)
}

// Check returns ErrMissingWeight for the first action in as that the
// registry cannot price.
func (r *Registry) Check(as ...m.Action) error {
	for _, a := range as {
		if a == "" {
			continue
		}
		if _, err := r.Base(a); err != nil {
			return err
		}
	}
	return nil
}
