// Package printer defines the rendering contract shared by every adapter and
// the helpers used to assemble a gofmt'd Go file from rendered models.
//
// A ModelPrinter renders one constructed native model; a ModulePrinter joins
// several of them under one package clause and import block. Printers read
// native descriptors only, never the schema IR.
package printer
