package actions

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFingerprint struct {
	sums []string
	err  error
}

func (f *fakeFingerprint) next() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	sum := f.sums[0]
	if len(f.sums) > 1 {
		f.sums = f.sums[1:]
	}
	return sum, nil
}

func TestContentGate(t *testing.T) {
	tests := []struct {
		name     string
		sums     []string
		expected []bool
	}{
		{
			name:     "unchanged content is held back",
			sums:     []string{"a", "a", "a"},
			expected: []bool{false, false},
		},
		{
			name:     "each new content passes once",
			sums:     []string{"a", "b", "b", "c"},
			expected: []bool{true, false, true},
		},
		{
			name:     "reverting to the primed content passes",
			sums:     []string{"a", "b", "a"},
			expected: []bool{true, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := &fakeFingerprint{sums: tt.sums}
			gate := newContentGate(fp.next)
			require.NoError(t, gate.prime())

			var got []bool
			for range tt.expected {
				changed, err := gate.changed()
				require.NoError(t, err)
				got = append(got, changed)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestContentGate_FingerprintError(t *testing.T) {
	boom := errors.New("boom")
	fp := &fakeFingerprint{err: boom}
	gate := newContentGate(fp.next)

	assert.ErrorIs(t, gate.prime(), boom)

	changed, err := gate.changed()
	assert.ErrorIs(t, err, boom)
	assert.True(t, changed)
}
