// labelgen regenerates the label package tables from a published list of
// ISO 4217 currency codes.
//
// Usage:
//
//	go run ./tools/labelgen -target label -source https://www.iban.com/currency-codes
package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-multierror"
	"github.com/robotomize/convq/internal/hashio"
	"github.com/robotomize/convq/internal/logging"
	"github.com/robotomize/convq/internal/strutil"
	"golang.org/x/net/html"
)

const (
	defaultUserAgent      = "convq/0.0.0"
	defaultRequestTimeout = 10 * time.Second
	defaultSourceURL      = "https://www.iban.com/currency-codes"
)

const (
	symbolGenFileName   = "symbol_gen.go"
	currencyGenFileName = "currency_gen.go"
)

var ErrContentEqual = errors.New("generated file matches the previous version")

var codeRe = regexp.MustCompile(`^[A-Z]{3}$`)

var flagGen = flag.NewFlagSet("labelgen", flag.ContinueOnError)

var (
	target   = flagGen.String("target", "", "path to the label package directory")
	source   = flagGen.String("source", defaultSourceURL, "currency code list URL")
	hashName = flagGen.String("hash", "md5", "hash alg for change detection, variants: md5, sha1")
)

func main() {
	ctx := logging.WithLogger(context.Background(), logging.NewLogger("labelgen"))
	logger := logging.FromContext(ctx)

	if err := flagGen.Parse(os.Args[1:]); err != nil {
		logger.Fatal().Err(err).Msg("flag parse")
	}

	if *target == "" {
		logger.Fatal().Msg("use -target <path> path to the label package directory")
	}

	var hashFunc hashio.HashFunc
	switch *hashName {
	case "sha1":
		hashFunc = hashio.SHA1HashFunc()
	default:
		hashFunc = hashio.MD5HashFunc()
	}

	if err := realMain(ctx, *target, *source, hashFunc); err != nil {
		var multiErr *multierror.Error
		if errors.As(err, &multiErr) {
			for _, wrErr := range multiErr.WrappedErrors() {
				if !errors.Is(wrErr, ErrContentEqual) {
					logger.Fatal().Err(multiErr).Msg("generate")
				}

				logger.Warn().Msg(wrErr.Error())
			}
			return
		}

		logger.Fatal().Err(err).Msg("generate")
	}
}

type currency struct {
	Symbol string
	Name   string
}

func realMain(ctx context.Context, target, source string, hashFunc hashio.HashFunc) error {
	ctx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
	defer cancel()

	body, err := fetch(ctx, source)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", source, err)
	}

	currencies, err := scrape(body)
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}

	if len(currencies) == 0 {
		return errors.New("no currency rows found, the page layout may have changed")
	}

	var multiErr multierror.Group

	multiErr.Go(func() error {
		return render(target, symbolGenFileName, symbolTmpl, currencies, hashFunc)
	})

	multiErr.Go(func() error {
		return render(target, currencyGenFileName, currencyTmpl, currencies, hashFunc)
	})

	if err := multiErr.Wait(); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	return nil
}

func fetch(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status: %d %s", resp.StatusCode, resp.Status)
	}

	var reader io.ReadCloser

	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("unable create gzip.NewReader: %w", err)
		}

		reader = gz
		defer reader.Close()
	default:
		reader = resp.Body
	}

	b, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read http body: %w", err)
	}

	return b, nil
}

// scrape walks every table row and keeps rows whose code column is a
// three-letter uppercase code. Column order on the source page is
// country, currency name, code, number
func scrape(body []byte) ([]currency, error) {
	node, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("html parse: %w", err)
	}

	doc := goquery.NewDocumentFromNode(node)

	seen := map[string]struct{}{}
	var currencies []currency

	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		code := strings.TrimSpace(cells.Eq(2).Text())
		if !codeRe.MatchString(code) {
			return
		}

		if _, ok := seen[code]; ok {
			return
		}
		seen[code] = struct{}{}

		name := strutil.RemoveExtraSpaces(strutil.RemoveContentIntoBrackets(cells.Eq(1).Text()))

		currencies = append(currencies, currency{Symbol: code, Name: strings.TrimSpace(name)})
	})

	sort.Slice(currencies, func(i, j int) bool { return currencies[i].Symbol < currencies[j].Symbol })

	return currencies, nil
}

func render(dir, fileName string, tmpl *template.Template, currencies []currency, hashFunc hashio.HashFunc) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, currencies); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	oldHash, err := hashio.ReadFile(os.DirFS(dir), fileName, hashFunc)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("hash previous version: %w", err)
	}

	newHash, err := hashFunc(buf.Bytes())
	if err != nil {
		return fmt.Errorf("hash generated content: %w", err)
	}

	if bytes.Equal(oldHash, newHash) {
		return fmt.Errorf("%w: %s", ErrContentEqual, fileName)
	}

	if err := os.WriteFile(filepath.Join(dir, fileName), buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

var symbolTmpl = template.Must(template.New("symbol").Parse(`// Code generated by labelgen. DO NOT EDIT.

package label

const (
{{- range .}}
	{{.Symbol}} Symbol = "{{.Symbol}}"
{{- end}}
)
`))

var currencyTmpl = template.Must(template.New("currency").Parse(`// Code generated by labelgen. DO NOT EDIT.

package label

// Currencies is the registry of known currencies keyed by canonical Symbol
var Currencies = map[Symbol]Currency{
{{- range .}}
	{{.Symbol}}: {Symbol: {{.Symbol}}, Name: "{{.Name}}"},
{{- end}}
}
`))
