// Package job contains the delivery job aggregate and its value objects.
//
// A Job is the single shared mutable resource of the system: one record per
// delivery, read and written concurrently by sales users and drivers with no
// coordination other than the record store's transaction primitive. The
// aggregate therefore keeps every invariant-bearing rule (status
// progression, ownership claiming, trip ordering, notification idempotency,
// history recording) in one place, and the application layer wraps each
// mutation in a single re-read/modify/persist transaction.
//
// Status and EntryKind are parsed from text at the boundary through
// translation tables (including legacy spellings) rather than compared
// case-insensitively inside the logic.
package job
