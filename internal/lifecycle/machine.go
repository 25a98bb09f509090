// Package lifecycle holds the status state machines for schedules,
// assignments, team assignments and compliance documents.
//
// Each machine is an explicit transition table: a transition is legal only if
// it is listed, and a listed transition may carry side conditions the caller
// must satisfy before persisting it.
package lifecycle

import (
	"fmt"

	"github.com/festy23/consultant_staffing/internal/apperror"
)

// Condition is a side condition attached to a transition.
type Condition uint8

const (
	// RequiresConflictCheck means the date range must be re-validated.
	RequiresConflictCheck Condition = 1 << iota
	// RequiresComment means a non-empty comment must accompany the change.
	RequiresComment
	// Destructive means the change frees or discards the record and needs
	// explicit confirmation on critical records.
	Destructive
)

// Has reports whether c includes flag.
func (c Condition) Has(flag Condition) bool {
	return c&flag != 0
}

// Rule is one allowed transition.
type Rule[S ~string] struct {
	From       S
	To         S
	Conditions Condition
}

// Machine validates transitions for a status type.
type Machine[S ~string] struct {
	states   map[S]bool
	terminal map[S]bool
	rules    map[S]map[S]Rule[S]
}

// NewMachine builds a machine from its states, terminal states and rules. It
// panics when a rule references an unknown state or leaves a terminal state,
// so a broken table fails at package initialisation.
func NewMachine[S ~string](states []S, terminal []S, rules []Rule[S]) *Machine[S] {
	m := &Machine[S]{
		states:   make(map[S]bool, len(states)),
		terminal: make(map[S]bool, len(terminal)),
		rules:    make(map[S]map[S]Rule[S]),
	}
	for _, s := range states {
		m.states[s] = true
	}
	for _, s := range terminal {
		if !m.states[s] {
			panic(fmt.Sprintf("lifecycle: unknown terminal state %q", s))
		}
		m.terminal[s] = true
	}
	for _, r := range rules {
		if !m.states[r.From] || !m.states[r.To] {
			panic(fmt.Sprintf("lifecycle: rule %q -> %q references unknown state", r.From, r.To))
		}
		if m.terminal[r.From] {
			panic(fmt.Sprintf("lifecycle: rule %q -> %q leaves a terminal state", r.From, r.To))
		}
		if m.rules[r.From] == nil {
			m.rules[r.From] = make(map[S]Rule[S])
		}
		m.rules[r.From][r.To] = r
	}
	return m
}

// IsValid reports whether s is a known state.
func (m *Machine[S]) IsValid(s S) bool {
	return m.states[s]
}

// IsTerminal reports whether no transition leaves s.
func (m *Machine[S]) IsTerminal(s S) bool {
	return m.terminal[s]
}

// Transition returns the rule for from -> to or an InvalidTransitionError.
func (m *Machine[S]) Transition(from, to S) (Rule[S], error) {
	if rule, ok := m.rules[from][to]; ok {
		return rule, nil
	}
	return Rule[S]{}, &apperror.InvalidTransitionError{From: string(from), To: string(to)}
}

// Enters reports whether some rule entering to carries flag. Callers use it
// to apply preconditions before the transition itself is validated.
func (m *Machine[S]) Enters(to S, flag Condition) bool {
	for _, rules := range m.rules {
		if rule, ok := rules[to]; ok && rule.Conditions.Has(flag) {
			return true
		}
	}
	return false
}

// Next lists the states reachable from s in one step.
func (m *Machine[S]) Next(s S) []S {
	next := make([]S, 0, len(m.rules[s]))
	for to := range m.rules[s] {
		next = append(next, to)
	}
	return next
}

// States lists every known state.
func (m *Machine[S]) States() []S {
	out := make([]S, 0, len(m.states))
	for s := range m.states {
		out = append(out, s)
	}
	return out
}
