package ecb

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/robotomize/convq/label"
)

type xmlEnvelope struct {
	Days []struct {
		Time  string `xml:"time,attr"`
		Rates []struct {
			Currency string  `xml:"currency,attr"`
			Rate     float64 `xml:"rate,attr"`
		} `xml:"Cube"`
	} `xml:"Cube>Cube"`
}

// decodeXML parses the daily eurofxref XML document and returns the latest
// euro reference rates
func decodeXML() decodeFunc {
	return func(b []byte) (euroLatestRates, error) {
		var env xmlEnvelope
		if err := xml.Unmarshal(b, &env); err != nil {
			return euroLatestRates{}, fmt.Errorf("%w: %v", errDecodeToken, err)
		}

		if len(env.Days) == 0 {
			return euroLatestRates{}, errEmptyDocument
		}

		day := env.Days[0]

		t, err := time.Parse("2006-01-02", day.Time)
		if err != nil {
			return euroLatestRates{}, fmt.Errorf("%w: %v", errAttributeNotValid, err)
		}

		latest := euroLatestRates{time: t, rates: make([]euroExchangeRate, 0, len(day.Rates))}
		for _, r := range day.Rates {
			symbol, err := label.ValidateCode(r.Currency)
			if err != nil {
				continue
			}

			if r.Rate <= 0 {
				return euroLatestRates{}, fmt.Errorf("%w: rate %s=%f", errAttributeNotValid, r.Currency, r.Rate)
			}

			latest.rates = append(latest.rates, euroExchangeRate{symbol: symbol, rate: r.Rate})
		}

		if len(latest.rates) == 0 {
			return euroLatestRates{}, errEmptyDocument
		}

		return latest, nil
	}
}
