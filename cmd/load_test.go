package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDocument_KeepsPathOrder(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.md")
	require.NoError(t, os.WriteFile(first, []byte(`[{"id": "one", "airline": "TK", "price": 100}]`), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("| Airline | Price |\n|---|---|\n| Delta | $200 |\n"), 0o644))

	doc, err := loadDocument(context.Background(), []string{first, second})
	require.NoError(t, err)
	require.Len(t, doc.Flights, 2)
	assert.Equal(t, "one", doc.Flights[0].Record.ID)
	assert.Equal(t, "Delta", doc.Flights[1].Record.Airline)
}

func TestLoadDocument_InvalidPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data": [`), 0o644))

	_, err := loadDocument(context.Background(), []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestReadJSONInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.yaml")
	require.NoError(t, os.WriteFile(path, []byte("budget: 1\nquality: 2\n"), 0o644))

	var v map[string]float64
	require.NoError(t, readJSONInput(path, &v))
	assert.InDelta(t, 2.0, v["quality"], 1e-9)
}
