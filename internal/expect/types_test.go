package expect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcrbox/cifprobe/internal/cif"
	"github.com/qcrbox/cifprobe/internal/errors"
)

func floatPtr(f float64) *float64 { return &f }

func TestNewRange(t *testing.T) {
	t.Parallel()

	t.Run("expected and deviation", func(t *testing.T) {
		t.Parallel()

		minV, maxV, err := NewRange(floatPtr(10.234), floatPtr(0.001), nil, nil)
		require.NoError(t, err)
		assert.InDelta(t, 10.233, minV, 1e-9)
		assert.InDelta(t, 10.235, maxV, 1e-9)
	})

	t.Run("explicit min and max", func(t *testing.T) {
		t.Parallel()

		minV, maxV, err := NewRange(nil, nil, floatPtr(1), floatPtr(2))
		require.NoError(t, err)
		assert.InDelta(t, 1.0, minV, 1e-12)
		assert.InDelta(t, 2.0, maxV, 1e-12)
	})

	t.Run("both forms rejected", func(t *testing.T) {
		t.Parallel()

		_, _, err := NewRange(floatPtr(1), floatPtr(0.1), floatPtr(0), floatPtr(2))
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrRangeInvalid)
	})

	t.Run("neither form rejected", func(t *testing.T) {
		t.Parallel()

		_, _, err := NewRange(nil, nil, nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrRangeInvalid)
	})

	t.Run("half a form rejected", func(t *testing.T) {
		t.Parallel()

		_, _, err := NewRange(floatPtr(1), nil, nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrRangeInvalid)
	})

	t.Run("inverted min max rejected", func(t *testing.T) {
		t.Parallel()

		_, _, err := NewRange(nil, nil, floatPtr(2), floatPtr(1))
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrRangeInvalid)
	})
}

func TestCheckNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		assertion Assertion
		want      string
	}{
		{"status", Status{}, "status_test"},
		{"scalar match", ScalarMatch{Entry: "_cell_length_a"}, "match__cell_length_a"},
		{"scalar missing", ScalarMissing{Entry: "_x"}, "missing__x"},
		{"loop within", LoopWithin{Entry: "_atom_site_occupancy"}, "loop_within__atom_site_occupancy"},
		{"loop present", LoopPresent{Entry: "_y"}, "loop_present__y"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.assertion.CheckName())
		})
	}
}

func TestRowLookupString(t *testing.T) {
	t.Parallel()

	lookup := RowLookup{
		{Name: "_atom_site_label", Value: cif.StringValue("O1")},
		{Name: "_atom_site_adp_type", Value: cif.StringValue("Uani")},
	}
	assert.Equal(t, "_atom_site_label=O1 AND _atom_site_adp_type=Uani", lookup.String())
}
