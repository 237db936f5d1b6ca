// Package entitlement computes a subscriber's current access verdict from
// its persisted record: suspended subscriptions are inactive, lifetime
// subscriptions never expire, and everything else is measured in whole
// minutes remaining until the expiry date.
package entitlement
