package schema

import (
	"fmt"
	"strings"
)

// Kind is a canonical scalar column kind.
type Kind int

const (
	_ Kind = iota // zero value is an invalid kind

	Integer
	String
	Boolean
	Float
	Decimal
	Date
	DateTime
	Bytes
)

var kindNames = map[Kind]string{
	Integer:  "Integer",
	String:   "String",
	Boolean:  "Boolean",
	Float:    "Float",
	Decimal:  "Decimal",
	Date:     "Date",
	DateTime: "DateTime",
	Bytes:    "Bytes",
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	return []Kind{Integer, String, Boolean, Float, Decimal, Date, DateTime, Bytes}
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// IsTemporal reports whether the kind supports auto-populated timestamps.
func (k Kind) IsTemporal() bool {
	return k == Date || k == DateTime
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(kindNames[k], s) {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
}
