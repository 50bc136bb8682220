// Package convert runs a conversion end to end: the source adapter extracts
// every model into the schema IR, the destination adapter constructs its
// native models from the IR, and the destination printers render one Go
// file.
//
// A Converter holds no per-request state and may be shared between
// goroutines.
package convert
