package tts

import (
	"context"
	"fmt"

	"github.com/himanishpuri/karaoke/pkg/logger"
)

// Chain implements Provider by trying providers in order.
// The first success wins; if all fail, a *ChainError is returned.
type Chain struct {
	providers []Provider
	log       *logger.Logger
}

// NewChain builds a chain. At least one provider is required.
func NewChain(log *logger.Logger, providers ...Provider) (*Chain, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Chain{providers: providers, log: log}, nil
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Synthesize(ctx context.Context, text string) (*Result, error) {
	var errs []error

	for i, p := range c.providers {
		res, err := p.Synthesize(ctx, text)
		if err == nil && res == nil {
			err = fmt.Errorf("%s returned no result", p.Name())
		}
		if err == nil {
			if res.Provider == "" {
				res.Provider = p.Name()
			}
			if i > 0 {
				c.log.Infof("fallback provider %s succeeded (%d chars)", p.Name(), len(text))
			}
			return res, nil
		}

		errs = append(errs, wrapError(p.Name(), err))
		c.log.Warnf("provider %s failed, trying next: %v", p.Name(), err)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, &ChainError{Errors: errs}
}

// ChainError aggregates errors from all providers in a chain.
type ChainError struct {
	Errors []error
}

func (e *ChainError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "tts chain: no errors recorded"
	case 1:
		return fmt.Sprintf("tts chain: %v", e.Errors[0])
	default:
		return fmt.Sprintf("tts chain: all %d providers failed, last error: %v",
			len(e.Errors), e.Errors[len(e.Errors)-1])
	}
}

// Unwrap returns the last error in the chain.
func (e *ChainError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}

var _ Provider = (*Chain)(nil)
