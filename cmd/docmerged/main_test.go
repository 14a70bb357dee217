package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	main "github.com/fwojciec/docmerge/cmd/docmerged"
	"github.com/fwojciec/docmerge/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "docmerged")
	assert.Contains(t, stdout.String(), "--addr")
	assert.Contains(t, stdout.String(), "DOCMERGE_OUTPUT_DIR")
}

func TestMain_Run_UnknownFlag(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--nope"}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_ShutsDownWithContext(t *testing.T) {
	t.Parallel()

	closed := false
	m := main.NewMain()
	m.Browser = &mock.Browser{
		CloseFn: func() error {
			closed = true
			return nil
		},
	}
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Run(ctx, []string{
		"--addr", "127.0.0.1:0",
		"--output-dir", filepath.Join(dir, "docs"),
		"--db", filepath.Join(dir, "ledger.db"),
	}, &stdout, &stderr)

	require.NoError(t, err)
	assert.True(t, closed, "browser should be closed on shutdown")
	assert.True(t, strings.HasPrefix(stdout.String(), "Listening on http://127.0.0.1:"))
	assert.DirExists(t, filepath.Join(dir, "docs"))
	assert.FileExists(t, filepath.Join(dir, "ledger.db"))
	require.NotNil(t, m.Server.Extractions)
}

func TestMain_Run_PDFNeedsChrome(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.Browser = &mock.Browser{CloseFn: func() error { return nil }}
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{
		"--addr", "127.0.0.1:0",
		"--format", "pdf",
		"--output-dir", dir,
		"--db", "",
	}, &stdout, &stderr)

	assert.Error(t, err)
	assert.Empty(t, stdout.String())
}
