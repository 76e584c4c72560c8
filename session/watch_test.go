package session_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/cfgchain"
)

func TestSession_Watch(t *testing.T) {
	path := writeConfig(t, configYAML)
	s := newSession(t, cfgchain.MapEnviron{"AWS_CONFIG_FILE": path})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	region, _, err := s.GetConfigVariable(ctx, cfgchain.Region)
	require.NoError(t, err)
	require.Equal(t, "us-east-1", region)

	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx)
	}()

	// Keep rewriting until the watcher has picked up a change.
	updated := []byte("profiles:\n  default:\n    region: sa-east-1\n")
	assert.Eventually(t, func() bool {
		if err := os.WriteFile(path, updated, 0o600); err != nil {
			return false
		}
		v, _, err := s.GetConfigVariable(context.Background(), cfgchain.Region)
		return err == nil && fmt.Sprint(v) == "sa-east-1"
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestSession_WatchMissingDirectory(t *testing.T) {
	s := newSession(t, cfgchain.MapEnviron{"AWS_CONFIG_FILE": "/nonexistent/cfgchain/config.yaml"})

	err := s.Watch(context.Background())
	assert.Error(t, err)
}
