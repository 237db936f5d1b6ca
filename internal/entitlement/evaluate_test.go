package entitlement

import (
	"testing"
	"time"

	"github.com/keygate/keygate/internal/store"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func record(active, lifetime bool, expiresIn time.Duration) *store.Subscriber {
	return &store.Subscriber{
		Identity:   "hwid-test",
		Active:     active,
		Lifetime:   lifetime,
		StartDate:  base.Add(-24 * time.Hour),
		ExpireDate: base.Add(expiresIn),
	}
}

func TestEvaluate_InactiveWinsOverEverything(t *testing.T) {
	cases := []struct {
		name string
		sub  *store.Subscriber
	}{
		{"inactive timed", record(false, false, time.Hour)},
		{"inactive lifetime", record(false, true, time.Hour)},
		{"inactive expired", record(false, false, -time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := Evaluate(tc.sub, base)
			if v.State != StateInactive {
				t.Errorf("State: got %v, want inactive", v.State)
			}
		})
	}
}

func TestEvaluate_LifetimeIgnoresExpireDate(t *testing.T) {
	v := Evaluate(record(true, true, -1000*time.Hour), base)
	if v.State != StateLifetime {
		t.Errorf("State: got %v, want lifetime", v.State)
	}
}

func TestEvaluate_TimedMinutes(t *testing.T) {
	cases := []struct {
		name      string
		expiresIn time.Duration
		want      int
	}{
		{"ten minutes exactly", 10 * time.Minute, 10},
		{"just under ten minutes floors", 10*time.Minute - time.Second, 9},
		{"just over ten minutes floors", 10*time.Minute + 30*time.Second, 10},
		{"under a minute", 59 * time.Second, 0},
		{"expired passes through negative", -90 * time.Second, -1},
		{"long expired", -10 * time.Minute, -10},
		{"zero", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := Evaluate(record(true, false, tc.expiresIn), base)
			if v.State != StateTimed {
				t.Fatalf("State: got %v, want timed", v.State)
			}
			if v.Minutes != tc.want {
				t.Errorf("Minutes: got %d, want %d", v.Minutes, tc.want)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	if got := StateInactive.String(); got != "inactive" {
		t.Errorf("inactive: got %q", got)
	}
	if got := StateLifetime.String(); got != "lifetime" {
		t.Errorf("lifetime: got %q", got)
	}
	if got := StateTimed.String(); got != "timed" {
		t.Errorf("timed: got %q", got)
	}
}
