package ecb

import (
	"errors"
	"time"

	"github.com/robotomize/convq/label"
)

var (
	errDecodeToken       = errors.New("decoding of the markup failed")
	errAttributeNotValid = errors.New("attr is not valid")
	errEmptyDocument     = errors.New("document holds no rates")
)

// decodeFunc parses one daily reference-rate document
type decodeFunc func(b []byte) (euroLatestRates, error)

type euroLatestRates struct {
	time  time.Time
	rates []euroExchangeRate
}

type euroExchangeRate struct {
	symbol label.Symbol
	rate   float64
}
