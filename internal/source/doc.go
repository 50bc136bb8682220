// Package source loads Go files into a Namespace of type declarations that
// the framework adapters inspect, and guesses which framework a file uses.
//
// Loading is syntax-only: nothing is type-checked or executed, so a model
// file does not need its framework module to be downloadable.
//
// Key types:
//   - Namespace: package name, imports and type symbols in declaration order
//   - Symbol: one type declaration with its doc comment and methods
package source
