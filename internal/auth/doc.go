// Package auth gates the operator-facing endpoints behind a shared API key
// carried in a request header. The client-facing app endpoints are never
// gated here.
package auth
