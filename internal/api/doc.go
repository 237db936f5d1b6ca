// Package api implements the HTTP surface of keygate-server.
//
// New(store, registry, guard) returns an http.Handler that serves:
//
//	POST /api/app/online                            client heartbeat
//	GET  /api/app/online/{productID}                online count for a product
//	GET  /api/app/time-left/{productID}/{identity}  entitlement verdict
//	GET  /api/v1/presence                           online counts, all products (guarded)
//	GET  /api/v1/health                             liveness
//
// All endpoints respond with Content-Type: application/json and 405 for
// unsupported methods. Error bodies follow the client protocol:
// {"status":"error","message":...} plus "missing" for absent parameters.
// The heartbeat endpoint is the only writer path into the presence
// registry; the query endpoints never mutate it.
package api
