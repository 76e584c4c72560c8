package cfgchain

import (
	"context"
	"fmt"
	"strings"
)

// ConversionFunc transforms the winning raw value of a chain.
type ConversionFunc func(any) (any, error)

// ChainProvider consults its providers in order and returns the first
// present value, passed through the conversion function when one is set.
type ChainProvider struct {
	providers []Provider
	convert   ConversionFunc
}

// Trace describes how a chain resolved.
type Trace struct {
	Value   any
	Present bool
	// Index is the position of the winning provider, -1 when nothing was present.
	Index  int
	Source Provider
}

// NewChainProvider creates a chain over a copy of providers.
// convert may be nil.
func NewChainProvider(providers []Provider, convert ConversionFunc) *ChainProvider {
	return &ChainProvider{
		providers: append([]Provider(nil), providers...),
		convert:   convert,
	}
}

// Provide returns the converted value of the first provider that has one.
// Providers after the winner are not called.
func (c *ChainProvider) Provide(ctx context.Context) (any, bool, error) {
	t, err := c.Trace(ctx)
	if err != nil {
		return nil, false, err
	}
	return t.Value, t.Present, nil
}

// Trace resolves the chain like Provide and also reports the winning provider.
func (c *ChainProvider) Trace(ctx context.Context) (Trace, error) {
	for i, p := range c.providers {
		value, ok, err := p.Provide(ctx)
		if err != nil {
			return Trace{Index: -1}, err
		}
		if !ok {
			continue
		}

		converted, err := c.convertValue(value)
		if err != nil {
			return Trace{Index: -1}, err
		}
		return Trace{Value: converted, Present: true, Index: i, Source: p}, nil
	}

	return Trace{Index: -1}, nil
}

func (c *ChainProvider) convertValue(value any) (any, error) {
	if c.convert == nil {
		return value, nil
	}
	converted, err := c.convert(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %w", ErrConversion, value, err)
	}
	return converted, nil
}

// Providers returns a copy of the chain's providers in resolution order.
func (c *ChainProvider) Providers() []Provider {
	return append([]Provider(nil), c.providers...)
}

func (c *ChainProvider) String() string {
	parts := make([]string, len(c.providers))
	for i, p := range c.providers {
		parts[i] = fmt.Sprint(p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
