package naming

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// commonInitialisms are rendered fully upper-cased by Pascal, the way golint
// and GORM's naming strategy treat them.
var commonInitialisms = map[string]bool{
	"API": true, "ASCII": true, "CPU": true, "CSS": true, "DNS": true,
	"EOF": true, "GUID": true, "HTML": true, "HTTP": true, "HTTPS": true,
	"ID": true, "IP": true, "JSON": true, "LHS": true, "QPS": true,
	"RAM": true, "RHS": true, "RPC": true, "SLA": true, "SMTP": true,
	"SQL": true, "SSH": true, "TLS": true, "TTL": true, "UI": true,
	"UID": true, "URI": true, "URL": true, "UTF8": true, "UUID": true,
	"VM": true, "XML": true,
}

// Tokenize splits an identifier into its words.
// Examples:
//   - "OrderID" -> ["Order", "ID"]
//   - "customer_name" -> ["customer", "name"]
//   - "XMLParser" -> ["XML", "Parser"]
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string

	var current strings.Builder

	runes := []rune(s)
	for i := range runes {
		r := runes[i]

		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && shouldStartNewToken(runes, i) && current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// Snake returns the snake_case spelling GORM derives for a Go identifier.
func Snake(s string) string {
	tokens := Tokenize(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return strings.Join(tokens, "_")
}

// Pascal returns an exported Go identifier for a schema name.
// Known initialisms are upper-cased ("user_id" -> "UserID").
func Pascal(s string) string {
	var sb strings.Builder

	// A Caser is stateful, so each call gets its own.
	title := cases.Title(language.Und)

	for _, t := range Tokenize(s) {
		upper := strings.ToUpper(t)
		if commonInitialisms[upper] {
			sb.WriteString(upper)

			continue
		}

		sb.WriteString(title.String(strings.ToLower(t)))
	}

	out := sb.String()
	if out == "" {
		return ""
	}

	if unicode.IsDigit([]rune(out)[0]) {
		return "X" + out
	}

	return out
}

// Plural returns the default table name for a type name: snake_case with the
// last word pluralized ("UserAccount" -> "user_accounts").
func Plural(typeName string) string {
	return inflection.Plural(Snake(typeName))
}

// TypeName returns the Go type name for a table or type reference:
// singular PascalCase ("user_accounts", "UserAccount" -> "UserAccount").
func TypeName(table string) string {
	return Pascal(inflection.Singular(Snake(table)))
}

// Normalize case-folds an identifier and strips separators so that
// "OrderID", "order_id" and "orderId" compare equal.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(Tokenize(s), ""))
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// shouldStartNewToken determines if a new token should start at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r := runes[i]
	prev := runes[i-1]
	isUpper := unicode.IsUpper(r)
	isPrevUpper := unicode.IsUpper(prev)

	// "orderID" -> split before 'I'
	if isUpper && !isPrevUpper && !isSeparator(prev) {
		return true
	}

	// "XMLParser" -> "XML" + "Parser", split before 'P'
	hasNextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

	return isUpper && isPrevUpper && hasNextLower
}
