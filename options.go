package convq

import (
	"time"

	"github.com/robotomize/convq/query"
)

type Option func(*Resolver)

// WithParser sets the initial query parser instead of the default one
func WithParser(p *query.Parser) Option {
	return func(r *Resolver) {
		if p != nil {
			r.parser = p
		}
	}
}

// WithRequestTimeout bounds each Resolve call, zero disables the bound
func WithRequestTimeout(t time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = t
	}
}
