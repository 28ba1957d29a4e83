// Package services contains stateless domain services that operate across
// the job aggregate without belonging to it.
//
// NotificationPolicy decides which outbound event, if any, a record change
// gives rise to, and builds the event payloads required by the external
// webhook contracts. Keeping the gating and payload rules here lets the
// dispatcher stay a pure at-most-once delivery mechanism.
package services
