package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/config"
	apperrors "launchpad/internal/errors"
)

func TestBrowseReturnsStartupError(t *testing.T) {
	old := cfg
	t.Cleanup(func() { cfg = old })

	cfg = config.New()
	cfg.Paths.Required = map[string]string{
		"templates": filepath.Join(t.TempDir(), "gone"),
	}

	// Must surface the failure as an error so deferred cleanup and the
	// post-run hooks still execute, never exit the process directly.
	err := browse()
	require.Error(t, err)
	assert.True(t, apperrors.IsStartupError(err))
}

func TestBuildScannerChecksPaths(t *testing.T) {
	cfg := config.New()
	cfg.Paths.Required = map[string]string{
		"templates": filepath.Join(t.TempDir(), "gone"),
	}

	_, _, err := buildScanner(cfg)
	require.Error(t, err)
	assert.True(t, apperrors.IsStartupError(err))
}
