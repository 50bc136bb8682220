// Package schema defines the canonical intermediate representation (IR) of a
// table schema shared by every framework adapter.
//
// A Model is produced once by an adapter's extraction step, consumed once by
// a destination adapter's construction step, and never mutated in between.
//
// The IR is deliberately framework-agnostic:
//   - Kind is the closed set of scalar column kinds
//   - Field carries the universal column contract plus typed Params
//   - Model owns an ordered field list and composite unique constraints
//   - TypeMapper binds each Kind to an adapter's native type descriptor
package schema
