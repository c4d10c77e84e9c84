package session

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// quoteIdent quotes an identifier for both engines.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteLiteral quotes a string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// normalizeValue converts driver values into the plain Go values used by
// rows and formatters. A nil []byte is how go-sqlite3 hands SQL NULL to a
// function argument, so it stays NULL.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []byte:
		if val == nil {
			return nil
		}
		return string(val)
	case *big.Int:
		if val == nil {
			return nil
		}
		if val.IsInt64() {
			return val.Int64()
		}
		return val.String()
	default:
		return v
	}
}
