// Package gormadapter translates GORM models (tagged Go structs) to and from
// the schema IR and prints them back as Go source.
//
// GORM's conventions are honoured on both sides: the ID field is the primary
// key unless another field is tagged primaryKey, CreatedAt and UpdatedAt are
// auto timestamps, columns are the snake_case field names and tables default
// to the snake_case plural of the type name. GORM fills an autoUpdateTime
// column on insert too, so extraction always reports auto_on_create
// alongside auto_on_update.
package gormadapter
