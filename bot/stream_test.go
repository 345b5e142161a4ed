package bot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamOrder(t *testing.T) {
	s := Generate(func(emit func(string)) error {
		emit("one")
		emit("two")
		emit("three")
		return nil
	})

	frags, err := s.Collect()
	require.NoError(t, err)
	require.Equal(t, []Fragment{{Text: "one"}, {Text: "two"}, {Text: "three"}}, frags)
}

func TestStreamMidSequenceError(t *testing.T) {
	boom := errors.New("upstream gone")
	s := Generate(func(emit func(string)) error {
		emit("partial")
		return boom
	})

	frags, err := s.Collect()
	require.ErrorIs(t, err, boom)
	// Fragments emitted before the failure are still delivered.
	require.Equal(t, []Fragment{{Text: "partial"}}, frags)
}

func TestStreamEmpty(t *testing.T) {
	s := Generate(func(emit func(string)) error { return nil })

	frags, err := s.Collect()
	require.NoError(t, err)
	assert.Empty(t, frags)
}

func TestStreamPanicBecomesError(t *testing.T) {
	s := Generate(func(emit func(string)) error {
		panic("producer bug")
	})

	_, err := s.Collect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "producer bug")
}

func TestStreamSinglePass(t *testing.T) {
	s := Generate(func(emit func(string)) error {
		emit("only")
		return nil
	})

	_, err := s.Collect()
	require.NoError(t, err)

	_, ok := s.Next()
	assert.False(t, ok)
}
