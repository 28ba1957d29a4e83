// Package kernel provides the shared domain primitives of the scheduling
// system. It implements the fundamental value objects used across the job
// aggregate and the application layer.
//
// The package includes:
//   - UUID: a value object for unique identifiers with validation and comparison
//   - Actor: the authenticated identity performing an operation, with its Role
//
// These primitives enforce domain invariants at construction time and are
// immutable, making them safe for concurrent use. Actor identities are
// supplied by the authentication collaborator and trusted as-is; the domain
// never re-verifies credentials.
package kernel
