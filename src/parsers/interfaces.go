package parsers

import "github.com/username/kopilka/backend/src/models"

// Parser turns one uploaded CSV document into classified rows plus the
// inferred account set. Implementations never fail the whole document for a
// bad row; row failures land in ParseResult.Errors.
type Parser interface {
	Parse(content string) *models.ParseResult
}
