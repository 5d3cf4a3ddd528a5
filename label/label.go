package label

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCurrency = errors.New("unknown currency code")
	ErrInvalidAlias    = errors.New("alias is not valid")
)

// Symbol is a three-letter ISO 4217 currency code in canonical uppercase form
type Symbol string

func (s Symbol) String() string {
	return string(s)
}

// Currency describes a single currency known to the registry
type Currency struct {
	Symbol Symbol
	Name   string
}

// ValidateCode normalizes free text to a canonical Symbol. Case and surrounding
// whitespace are ignored. Only codes present in Currencies are valid
func ValidateCode(s string) (Symbol, error) {
	symbol := Symbol(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := Currencies[symbol]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}

	return symbol, nil
}

// ValidateAlias normalizes a user-defined currency synonym. An alias is stored
// lowercase and must not spell an existing currency code, otherwise lookups
// become ambiguous
func ValidateAlias(s string) (string, error) {
	alias := strings.ToLower(strings.TrimSpace(s))
	if alias == "" {
		return "", ErrInvalidAlias
	}

	if _, ok := Currencies[Symbol(strings.ToUpper(alias))]; ok {
		return "", fmt.Errorf("%w: %q collides with a currency code", ErrInvalidAlias, s)
	}

	return alias, nil
}
