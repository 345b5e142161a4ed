package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndRecent(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.RecordRequest("req-1", "echo", "hello", "ok", 1))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.RecordRequest("req-2", "cat", "fact please", "ok", 1))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.RecordRequest("req-3", "enterprise", "hi", "error", 0))

	requests, err := s.RecentRequests(2)
	require.NoError(t, err)
	require.Len(t, requests, 2)

	// Newest first.
	assert.Equal(t, "req-3", requests[0].ID)
	assert.Equal(t, "enterprise", requests[0].Bot)
	assert.Equal(t, "error", requests[0].Status)
	assert.Equal(t, 0, requests[0].Fragments)
	assert.Equal(t, "req-2", requests[1].ID)

	all, err := s.RecentRequests(50)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecentRequestsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer s.Close()

	requests, err := s.RecentRequests(10)
	require.NoError(t, err)
	assert.Empty(t, requests)
}
