package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/althame/lens/internal/syntax"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "outline.db"), 16, time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleOutline() *syntax.Outline {
	return &syntax.Outline{
		Functions: []syntax.Function{
			{Name: "f", StartLine: 1, EndLine: 3, Subtype: syntax.SubtypeDeclared, Signature: "f()"},
		},
		Classes: []syntax.Class{},
		Imports: []syntax.Import{{Source: "x", Names: []string{"x"}, Line: 1, Text: "import x"}},
		Exports: []syntax.Export{},
	}
}

func TestSetAndGet(t *testing.T) {
	c := openTestCache(t)
	c.Set("/src/a.js", 1000, 42, sampleOutline())

	got, ok := c.Get("/src/a.js", 1000, 42)
	require.True(t, ok)
	require.Len(t, got.Functions, 1)
	assert.Equal(t, "f", got.Functions[0].Name)
	assert.Equal(t, "x", got.Imports[0].Source)
}

func TestStaleIdentityMisses(t *testing.T) {
	c := openTestCache(t)
	c.Set("/src/a.js", 1000, 42, sampleOutline())

	_, ok := c.Get("/src/a.js", 2000, 42)
	assert.False(t, ok, "changed mtime must miss")
	_, ok = c.Get("/src/a.js", 1000, 43)
	assert.False(t, ok, "changed size must miss")
	_, ok = c.Get("/src/other.js", 1000, 42)
	assert.False(t, ok)
}

func TestNewerEntryReplacesOlder(t *testing.T) {
	c := openTestCache(t)
	c.Set("/src/a.js", 1000, 42, sampleOutline())

	updated := sampleOutline()
	updated.Functions[0].Name = "g"
	c.Set("/src/a.js", 2000, 42, updated)

	got, ok := c.Get("/src/a.js", 2000, 42)
	require.True(t, ok)
	assert.Equal(t, "g", got.Functions[0].Name)
}

func TestDiskTierSurvivesMemoryEviction(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "outline.db"), 2, time.Hour)
	require.NoError(t, err)
	defer c.Close()

	c.Set("/a.js", 1, 1, sampleOutline())
	c.Set("/b.js", 1, 1, sampleOutline())
	c.Set("/c.js", 1, 1, sampleOutline()) // evicts /a.js from the LRU

	got, ok := c.Get("/a.js", 1, 1)
	require.True(t, ok, "disk tier should still hold the evicted entry")
	assert.Len(t, got.Functions, 1)
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache
	_, ok := c.Get("/a.js", 1, 1)
	assert.False(t, ok)
	c.Set("/a.js", 1, 1, sampleOutline())
	assert.NoError(t, c.Close())
}
