package cfgchain_test

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"
)

// SpyProvider is an instrumented cfgchain.Provider
type SpyProvider struct {
	mock.Mock
	name string
}

func (s *SpyProvider) Provide(ctx context.Context) (any, bool, error) {
	args := s.Called(ctx)
	return args.Get(0), args.Bool(1), args.Error(2)
}

func (s *SpyProvider) String() string {
	return fmt.Sprintf("SpyProvider(%s)", s.name)
}

func newSpy(name string, value any, ok bool, err error) *SpyProvider {
	s := &SpyProvider{name: name}
	s.On("Provide", mock.Anything).Return(value, ok, err)
	return s
}

// fakeSession is an in-memory cfgchain.Session
type fakeSession struct {
	vars      map[string]any
	scoped    map[string]any
	varsErr   error
	scopedErr error
}

func (f *fakeSession) InstanceVariables(_ context.Context) (map[string]any, error) {
	if f.varsErr != nil {
		return nil, f.varsErr
	}
	if f.vars == nil {
		return map[string]any{}, nil
	}
	return f.vars, nil
}

func (f *fakeSession) ScopedConfig(_ context.Context) (map[string]any, error) {
	if f.scopedErr != nil {
		return nil, f.scopedErr
	}
	if f.scoped == nil {
		return map[string]any{}, nil
	}
	return f.scoped, nil
}
