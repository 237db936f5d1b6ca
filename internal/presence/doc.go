// Package presence tracks which subscriber identities are currently online
// per product. A heartbeat (Touch) marks an identity online and arms a
// deferred eviction job; further heartbeats slide the job forward. When the
// heartbeat window elapses in silence the job fires and the identity drops
// out of the counts. Eviction is event-driven per entry; there is no
// periodic sweep.
//
// All state is in-memory and process-lifetime: a restart empties the
// registry and subsequent heartbeats rebuild it.
package presence
