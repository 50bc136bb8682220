// Package entadapter translates ent schemas (builder-style Fields, Edges,
// Indexes and Annotations methods) to and from the schema IR and prints them
// back as Go source.
//
// ent columns are NOT NULL unless Optional, the field named "id" is the
// primary key (ent adds an integer one when none is declared) and
// Default(time.Now) / UpdateDefault(time.Now) are independent flags.
// Foreign keys are edge fields: the column is declared in Fields and bound
// to the edge with Field(...).
package entadapter
