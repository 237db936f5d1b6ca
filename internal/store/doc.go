// Package store defines the document-store capability the service consumes
// (product existence checks and subscriber lookup by secret identity)
// together with the in-memory implementation shipped by default.
//
// The Memory store is seeded from a YAML file (see Seed / LoadSeed) and can
// hot-reload it via Watch. Production deployments back the same Store
// interface with a real document database.
package store
