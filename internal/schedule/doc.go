// Package schedule provides keyed one-shot deferred jobs: arm a callback
// under an identifier for a future instant, push its fire time back, or
// cancel it. Jobs fire exactly once and the identifier becomes free again
// afterwards. The presence registry uses it to evict idle identities
// without any periodic table scanning.
package schedule
