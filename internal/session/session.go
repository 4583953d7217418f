// Package session holds the front-end state as immutable values. Every
// transition returns a new State and leaves the receiver untouched.
package session

import (
	"slices"

	"rateconv/internal/conversion"
)

// State is a snapshot of what the user has entered and seen.
type State struct {
	amount  string
	from    string
	to      string
	result  string
	history []conversion.Conversion
}

// New returns the initial state for a currency pair.
func New(from, to string) State {
	return State{from: from, to: to}
}

// Amount returns the amount as the user typed it.
func (s State) Amount() string {
	return s.amount
}

// From returns the source currency code.
func (s State) From() string {
	return s.from
}

// To returns the target currency code.
func (s State) To() string {
	return s.to
}

// Result returns the line currently shown as the conversion result.
func (s State) Result() string {
	return s.result
}

// History returns the recorded conversions, newest first.
func (s State) History() []conversion.Conversion {
	h := slices.Clone(s.history)
	slices.Reverse(h)
	return h
}

// WithAmount sets the amount to convert.
func (s State) WithAmount(amount string) State {
	s.amount = amount
	return s
}

// WithFrom sets the source currency.
func (s State) WithFrom(code string) State {
	s.from = code
	return s
}

// WithTo sets the target currency.
func (s State) WithTo(code string) State {
	s.to = code
	return s
}

// Swap exchanges the source and target currencies.
func (s State) Swap() State {
	s.from, s.to = s.to, s.from
	return s
}

// WithResult replaces the displayed result line, e.g. with an error message.
func (s State) WithResult(result string) State {
	s.result = result
	return s
}

// Record appends c to the history and shows it as the current result.
func (s State) Record(c conversion.Conversion) State {
	s.history = append(slices.Clip(s.history), c)
	s.result = c.String()
	return s
}
