package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCommand_SQLite(t *testing.T) {
	t.Setenv("APP_STORE_DRIVER", "sqlite")
	t.Setenv("APP_STORE_SQLITE_PATH", filepath.Join(t.TempDir(), "seed.db"))
	t.Setenv("APP_LOGGER_LEVEL", "error")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", "", "--count", "12", "--batch-size", "5", "--seed", "3"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "inserted 12 clients")
}

func TestSeedCommand_RejectsZeroCount(t *testing.T) {
	t.Setenv("APP_STORE_DRIVER", "sqlite")
	t.Setenv("APP_STORE_SQLITE_PATH", filepath.Join(t.TempDir(), "seed.db"))
	t.Setenv("APP_LOGGER_LEVEL", "error")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", "", "--count", "0"})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
