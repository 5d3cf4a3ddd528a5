package label

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateCode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected Symbol
		err      error
	}{
		{
			name:     "test_plain_uppercase",
			input:    "USD",
			expected: USD,
		},
		{
			name:     "test_lowercase",
			input:    "eur",
			expected: EUR,
		},
		{
			name:     "test_mixed_case_whitespace",
			input:    "  jPy\t",
			expected: JPY,
		},
		{
			name:  "test_unknown_code",
			input: "XXX",
			err:   ErrInvalidCurrency,
		},
		{
			name:  "test_empty",
			input: "",
			err:   ErrInvalidCurrency,
		},
		{
			name:  "test_alias_is_not_a_code",
			input: "euro",
			err:   ErrInvalidCurrency,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			symbol, err := ValidateCode(tc.input)
			if !errors.Is(err, tc.err) {
				t.Fatalf("ValidateCode(%q): got err %v, want %v", tc.input, err, tc.err)
			}

			if diff := cmp.Diff(tc.expected, symbol); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestValidateCodeIdempotent(t *testing.T) {
	t.Parallel()

	for symbol := range Currencies {
		symbol := symbol
		t.Run(symbol.String(), func(t *testing.T) {
			t.Parallel()

			first, err := ValidateCode(" " + strings.ToLower(symbol.String()) + " ")
			if err != nil {
				t.Fatalf("ValidateCode: %v", err)
			}

			second, err := ValidateCode(first.String())
			if err != nil {
				t.Fatalf("ValidateCode re-validation: %v", err)
			}

			if first != symbol || second != first {
				t.Errorf("normalization not idempotent: %s -> %s -> %s", symbol, first, second)
			}
		})
	}
}

func TestValidateAlias(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
		err      error
	}{
		{
			name:     "test_plain",
			input:    "euro",
			expected: "euro",
		},
		{
			name:     "test_upper_normalized",
			input:    " Bucks ",
			expected: "bucks",
		},
		{
			name:     "test_sign",
			input:    "$",
			expected: "$",
		},
		{
			name:  "test_empty",
			input: "   ",
			err:   ErrInvalidAlias,
		},
		{
			name:  "test_collides_with_code",
			input: "usd",
			err:   ErrInvalidAlias,
		},
		{
			name:  "test_collides_with_code_upper",
			input: "EUR",
			err:   ErrInvalidAlias,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			alias, err := ValidateAlias(tc.input)
			if !errors.Is(err, tc.err) {
				t.Fatalf("ValidateAlias(%q): got err %v, want %v", tc.input, err, tc.err)
			}

			if diff := cmp.Diff(tc.expected, alias); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}
