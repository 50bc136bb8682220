// Package adapter defines the contract every framework adapter implements
// and the registry the converter resolves adapters from.
//
// An adapter translates in both directions between its framework's native
// model descriptors and the schema IR, and knows how to print the
// descriptors it builds.
package adapter
