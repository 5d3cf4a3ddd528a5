package ecb

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robotomize/convq/label"
)

// decodeCSV parses the zipped eurofxref CSV: a header line with currency
// codes and a single data line with the date and rates
func decodeCSV() decodeFunc {
	return func(b []byte) (euroLatestRates, error) {
		reader := csv.NewReader(bytes.NewReader(b))
		reader.TrimLeadingSpace = true

		records, err := reader.ReadAll()
		if err != nil {
			return euroLatestRates{}, fmt.Errorf("%w: %v", errDecodeToken, err)
		}

		if len(records) < 2 {
			return euroLatestRates{}, errEmptyDocument
		}

		header, line := records[0], records[1]

		var latest euroLatestRates
		for n, column := range line {
			token := strings.TrimSpace(column)
			if token == "" || n >= len(header) {
				continue
			}

			name := strings.TrimSpace(header[n])
			if name == "Date" {
				t, err := time.Parse("02 January 2006", token)
				if err != nil {
					return euroLatestRates{}, fmt.Errorf("%w: %v", errAttributeNotValid, err)
				}

				latest.time = t
				continue
			}

			symbol, err := label.ValidateCode(name)
			if err != nil {
				continue
			}

			rate, err := strconv.ParseFloat(token, 64)
			if err != nil {
				return euroLatestRates{}, fmt.Errorf("%w: %v", errAttributeNotValid, err)
			}

			if rate <= 0 {
				return euroLatestRates{}, fmt.Errorf("%w: rate %s=%f", errAttributeNotValid, name, rate)
			}

			latest.rates = append(latest.rates, euroExchangeRate{symbol: symbol, rate: rate})
		}

		if len(latest.rates) == 0 {
			return euroLatestRates{}, errEmptyDocument
		}

		return latest, nil
	}
}
