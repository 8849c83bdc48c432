package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j, path
}

func TestAppendAndRecent(t *testing.T) {
	j, _ := openTemp(t)

	first := Entry{
		Time:      time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Account:   "123456789012",
		Name:      "app-vpc",
		CIDRBlock: "10.0.0.0/16",
		State:     "present",
		Changed:   true,
		VPCID:     "vpc-abc123",
	}
	require.NoError(t, j.Append(first))
	require.NoError(t, j.Append(Entry{
		Name:      "app-vpc",
		CIDRBlock: "10.0.0.0/16",
		State:     "present",
		DryRun:    true,
	}))

	entries, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.True(t, entries[0].DryRun)
	assert.False(t, entries[0].Changed)

	got := entries[1]
	assert.Equal(t, first.Time, got.Time)
	assert.Equal(t, "123456789012", got.Account)
	assert.Equal(t, "app-vpc", got.Name)
	assert.Equal(t, "10.0.0.0/16", got.CIDRBlock)
	assert.Equal(t, "present", got.State)
	assert.True(t, got.Changed)
	assert.Equal(t, "vpc-abc123", got.VPCID)
	assert.Empty(t, got.Error)
}

func TestRecent_Limit(t *testing.T) {
	j, _ := openTemp(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, j.Append(Entry{Name: "app-vpc", CIDRBlock: "10.0.0.0/16", State: "absent"}))
	}

	entries, err := j.Recent(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestOpen_CreatesDirectoryAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "vpcsync", "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Append(Entry{Name: "app-vpc", CIDRBlock: "10.0.0.0/16", State: "present", Error: "DescribeVpcs: boom"}))
	require.NoError(t, j.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.Recent(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "DescribeVpcs: boom", entries[0].Error)
}

func TestRecent_Empty(t *testing.T) {
	j, _ := openTemp(t)

	entries, err := j.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
