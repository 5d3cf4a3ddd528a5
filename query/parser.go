package query

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/robotomize/convq/internal/strutil"
	"github.com/robotomize/convq/label"
)

var ErrParse = errors.New("query text does not match the grammar")

var (
	// DefaultToKeywords separate the source clause from the destination list
	DefaultToKeywords = []string{"to", "in", ":"}
	// DefaultDestKeywords separate multiple destination currencies
	DefaultDestKeywords = []string{"and", "&", ","}
)

// amounts may be glued to the currency token: "100usd"
var gluedAmountRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)([a-z$€£¥]+)$`)

// Properties configure a Parser. The zero value is a valid minimal
// configuration: no keywords, no aliases, no defaults
type Properties struct {
	DefaultSource       label.Symbol
	DefaultDestinations []label.Symbol
	ToKeywords          []string
	DestKeywords        []string
	Aliases             map[string]label.Symbol
}

// NewParser validates the properties and builds a parser. Keywords must not
// spell currency codes or aliases, defaults must name known currencies
func NewParser(props Properties) (*Parser, error) {
	p := &Parser{
		defaultSource: props.DefaultSource,
		toKeywords:    make(map[string]struct{}, len(props.ToKeywords)),
		destKeywords:  make(map[string]struct{}, len(props.DestKeywords)),
		aliases:       make(map[string]label.Symbol, len(props.Aliases)),
	}

	if props.DefaultSource != "" {
		if _, err := label.ValidateCode(props.DefaultSource.String()); err != nil {
			return nil, fmt.Errorf("default source: %w", err)
		}
	}

	for _, symbol := range props.DefaultDestinations {
		if _, err := label.ValidateCode(symbol.String()); err != nil {
			return nil, fmt.Errorf("default destination: %w", err)
		}
	}
	p.defaultDestinations = append([]label.Symbol(nil), props.DefaultDestinations...)

	for alias, symbol := range props.Aliases {
		normalized, err := label.ValidateAlias(alias)
		if err != nil {
			return nil, fmt.Errorf("alias %q: %w", alias, err)
		}

		if _, err := label.ValidateCode(symbol.String()); err != nil {
			return nil, fmt.Errorf("alias %q target: %w", alias, err)
		}

		p.aliases[normalized] = symbol
	}

	addKeywords := func(dst map[string]struct{}, keywords []string, kind string) error {
		for _, kw := range keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return fmt.Errorf("%w: empty %s keyword", ErrParse, kind)
			}

			if _, err := label.ValidateCode(kw); err == nil {
				return fmt.Errorf("%w: %s keyword %q spells a currency code", ErrParse, kind, kw)
			}

			if _, ok := p.aliases[kw]; ok {
				return fmt.Errorf("%w: %s keyword %q spells an alias", ErrParse, kind, kw)
			}

			dst[kw] = struct{}{}
		}

		return nil
	}

	if err := addKeywords(p.toKeywords, props.ToKeywords, "to"); err != nil {
		return nil, err
	}

	if err := addKeywords(p.destKeywords, props.DestKeywords, "destination"); err != nil {
		return nil, err
	}

	return p, nil
}

type Parser struct {
	defaultSource       label.Symbol
	defaultDestinations []label.Symbol
	toKeywords          map[string]struct{}
	destKeywords        map[string]struct{}
	aliases             map[string]label.Symbol
}

// NewDefaultParser builds a parser with the documented keyword sets and no
// aliases or default currencies
func NewDefaultParser() *Parser {
	p := &Parser{
		toKeywords:   make(map[string]struct{}, len(DefaultToKeywords)),
		destKeywords: make(map[string]struct{}, len(DefaultDestKeywords)),
		aliases:      map[string]label.Symbol{},
	}

	for _, kw := range DefaultToKeywords {
		p.toKeywords[kw] = struct{}{}
	}

	for _, kw := range DefaultDestKeywords {
		p.destKeywords[kw] = struct{}{}
	}

	return p
}

// Template returns the unfilled request callers degrade to when Parse fails
func (p *Parser) Template() Request {
	return Request{}
}

// Parse translates raw text into a Request following the grammar
//
//	query := [amount] [sourceCurrency] (toSep (destCurrency (destSep destCurrency)*))?
//
// Currency tokens are matched case-insensitively against canonical codes
// first, then against the alias table. Input matching no rule fails with
// ErrParse
func (p *Parser) Parse(input string) (Request, error) {
	tokens := p.tokenize(input)
	if len(tokens) == 0 {
		return Request{}, ErrParse
	}

	var req Request
	i := 0

	var amount float64
	var hasAmount bool
	if v, err := strconv.ParseFloat(tokens[i], 64); err == nil && v >= 0 {
		amount, hasAmount = v, true
		i++
	}

	var source label.Symbol
	var hasSource bool
	if i < len(tokens) {
		if symbol, ok := p.resolve(tokens[i]); ok {
			source, hasSource = symbol, true
			i++
		}
	}

	if !hasAmount && !hasSource {
		return Request{}, ErrParse
	}

	clause := Amount{Value: 1}
	if hasAmount {
		clause.Value = amount
	}
	if hasSource {
		clause.Symbol = source
	}
	req.Sources = []Amount{clause}

	if i < len(tokens) {
		if _, ok := p.toKeywords[tokens[i]]; !ok {
			return Request{}, ErrParse
		}
		i++

		destinations, err := p.parseDestinations(tokens[i:])
		if err != nil {
			return Request{}, err
		}
		req.Destinations = destinations
	}

	return p.backfill(req), nil
}

// backfill fills missing parts from the parser defaults. Whatever is still
// missing afterwards is the caller's to default from live broker state
func (p *Parser) backfill(req Request) Request {
	if req.Sources[0].Symbol == "" && p.defaultSource != "" {
		req.Sources[0].Symbol = p.defaultSource
	}

	if req.Destinations == nil && len(p.defaultDestinations) > 0 {
		req.Destinations = append([]label.Symbol(nil), p.defaultDestinations...)
	}

	return req
}

func (p *Parser) parseDestinations(tokens []string) ([]label.Symbol, error) {
	if len(tokens) == 0 {
		return nil, ErrParse
	}

	destinations := make([]label.Symbol, 0, len(tokens))
	expectCurrency := true

	for _, token := range tokens {
		if expectCurrency {
			symbol, ok := p.resolve(token)
			if !ok {
				return nil, ErrParse
			}

			destinations = append(destinations, symbol)
			expectCurrency = false
			continue
		}

		if _, ok := p.destKeywords[token]; !ok {
			return nil, ErrParse
		}
		expectCurrency = true
	}

	if expectCurrency {
		// trailing separator
		return nil, ErrParse
	}

	return destinations, nil
}

// resolve matches a token against canonical codes first, then aliases
func (p *Parser) resolve(token string) (label.Symbol, bool) {
	if symbol, err := label.ValidateCode(token); err == nil {
		return symbol, true
	}

	symbol, ok := p.aliases[token]

	return symbol, ok
}

func (p *Parser) tokenize(input string) []string {
	s := strings.ToLower(strutil.RemoveExtraSpaces(input))

	// punctuation keywords need no surrounding spaces: "usd:eur", "eur,jpy"
	for kw := range p.toKeywords {
		if !isWordKeyword(kw) {
			s = strings.ReplaceAll(s, kw, " "+kw+" ")
		}
	}
	for kw := range p.destKeywords {
		if !isWordKeyword(kw) {
			s = strings.ReplaceAll(s, kw, " "+kw+" ")
		}
	}

	tokens := strings.Fields(s)
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if m := gluedAmountRe.FindStringSubmatch(token); m != nil {
			out = append(out, m[1], m[2])
			continue
		}

		out = append(out, token)
	}

	return out
}

func isWordKeyword(kw string) bool {
	for _, r := range kw {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}

	return true
}
