// Package naming converts identifiers between the spellings used by Go source
// (PascalCase with initialisms) and SQL schemas (snake_case), and ranks
// near-miss names for "did you mean" hints.
//
// Key functions:
//   - Tokenize: splits CamelCase and separated identifiers
//   - Snake: GORM's default column naming (UserID -> user_id)
//   - Pascal: exported Go identifier for a column or table (user_id -> UserID)
//   - Plural: default table names for frameworks that pluralize type names
//   - TypeName: singular Go type name for a table
//   - Suggest: closest candidate by normalized Levenshtein similarity
package naming
