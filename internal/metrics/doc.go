// Package metrics holds the service's Prometheus collectors. Counters are
// incremented at the call sites that own the event; the exposition endpoint
// is wired up in cmd/server.
package metrics
