package entitlement

import (
	"time"

	"github.com/keygate/keygate/internal/store"
)

// State classifies a subscriber's entitlement.
type State int

const (
	// StateInactive means the subscription is suspended by the operator.
	StateInactive State = iota

	// StateLifetime means the subscription never expires.
	StateLifetime

	// StateTimed means the subscription runs out at a fixed date; the
	// verdict carries the remaining whole minutes.
	StateTimed
)

// String returns the wire literal for the state.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateLifetime:
		return "lifetime"
	default:
		return "timed"
	}
}

// Verdict is the result of evaluating a subscriber record. Minutes is only
// meaningful when State == StateTimed.
type Verdict struct {
	State   State
	Minutes int
}

// Evaluate maps a subscriber record to its entitlement verdict at the given
// instant. It is pure: no I/O, no side effects, and it cannot fail given a
// non-nil record (callers handle "not found" upstream).
//
// Priority order, first match wins: inactive, lifetime, timed. Minutes is
// the difference to the expiry date truncated toward zero; a subscription
// already past its expiry yields a negative value, not zero.
func Evaluate(sub *store.Subscriber, now time.Time) Verdict {
	if !sub.Active {
		return Verdict{State: StateInactive}
	}
	if sub.Lifetime {
		return Verdict{State: StateLifetime}
	}
	return Verdict{
		State:   StateTimed,
		Minutes: int(sub.ExpireDate.Sub(now) / time.Minute),
	}
}
