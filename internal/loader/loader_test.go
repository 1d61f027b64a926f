package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModFile(t *testing.T, dir, modulePath string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "go.mod")
	require.NoError(t, os.WriteFile(path, []byte("module "+modulePath+"\n\ngo 1.26\n"), 0o644))
	return path
}

func TestDiscoverModFileArgument(t *testing.T) {
	dir := t.TempDir()
	mod := writeModFile(t, dir, "example.com/shop")

	got, err := Discover(mod)
	require.NoError(t, err)
	assert.Equal(t, mod, got)
}

func TestDiscoverRejectsNonModFile(t *testing.T) {
	dir := t.TempDir()
	other := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(other, []byte("package main\n"), 0o644))

	_, err := Discover(other)
	var resolve *ResolveError
	require.ErrorAs(t, err, &resolve)
	assert.Contains(t, resolve.Error(), "go.mod")
}

func TestDiscoverDirectoryWithModFile(t *testing.T) {
	dir := t.TempDir()
	mod := writeModFile(t, dir, "example.com/shop")

	got, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, mod, got)
}

func TestDiscoverSingleSubdirectory(t *testing.T) {
	dir := t.TempDir()
	mod := writeModFile(t, filepath.Join(dir, "shop"), "example.com/shop")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))

	got, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, mod, got)
}

func TestDiscoverNoCandidates(t *testing.T) {
	dir := t.TempDir()

	_, err := Discover(dir)
	var resolve *ResolveError
	require.ErrorAs(t, err, &resolve)
	assert.Contains(t, resolve.Error(), "no go.mod")
}

func TestDiscoverMultipleCandidates(t *testing.T) {
	dir := t.TempDir()
	writeModFile(t, filepath.Join(dir, "shop"), "example.com/shop")
	writeModFile(t, filepath.Join(dir, "billing"), "example.com/billing")

	_, err := Discover(dir)
	var resolve *ResolveError
	require.ErrorAs(t, err, &resolve)
	assert.Len(t, resolve.Candidates, 2)
}

func TestDiscoverMissingPath(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nowhere"))
	var resolve *ResolveError
	assert.True(t, errors.As(err, &resolve))
}

func TestModuleName(t *testing.T) {
	assert.Equal(t, "shop", moduleName("example.com/acme/shop"))
	assert.Equal(t, "shop", moduleName("shop"))
}
