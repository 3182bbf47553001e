package cif

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcrbox/cifprobe/internal/errors"
)

const sampleDocument = `data_crystal
# refined cell
_cell_length_a 10.2340
_cell_length_b '11.5'
_space_group_name "P 21/c"
_chemical_absolute_configuration ?

loop_
 _atom_site_label
 _atom_site_adp_type
 _atom_site_occupancy
 O1 Uani 1.0
 H1 Uiso 0.5
 C1 Uani ?

_exptl_notes
;
first line
second line
;
`

func TestParse(t *testing.T) {
	t.Parallel()

	doc, err := Parse(sampleDocument)
	require.NoError(t, err)

	t.Run("block name", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "crystal", doc.Block())
	})

	t.Run("unquoted numeric scalar", func(t *testing.T) {
		t.Parallel()

		v, err := doc.Scalar("_cell_length_a")
		require.NoError(t, err)
		assert.Equal(t, KindNumber, v.Kind())
		f, ok := v.Float()
		require.True(t, ok)
		assert.InDelta(t, 10.234, f, 1e-9)
	})

	t.Run("quoted numeric scalar stays a string", func(t *testing.T) {
		t.Parallel()

		v, err := doc.Scalar("_cell_length_b")
		require.NoError(t, err)
		assert.Equal(t, KindString, v.Kind())
		assert.Equal(t, "11.5", v.String())
	})

	t.Run("quoted string with spaces", func(t *testing.T) {
		t.Parallel()

		v, err := doc.Scalar("_space_group_name")
		require.NoError(t, err)
		assert.Equal(t, "P 21/c", v.String())
	})

	t.Run("unknown marker scalar", func(t *testing.T) {
		t.Parallel()

		v, err := doc.Scalar("_chemical_absolute_configuration")
		require.NoError(t, err)
		assert.True(t, v.IsUnknown())
	})

	t.Run("text field", func(t *testing.T) {
		t.Parallel()

		v, err := doc.Scalar("_exptl_notes")
		require.NoError(t, err)
		assert.Equal(t, "first line\nsecond line", v.String())
	})

	t.Run("loop rows", func(t *testing.T) {
		t.Parallel()

		table, err := doc.LoopFor("_atom_site_adp_type")
		require.NoError(t, err)
		assert.Equal(t, 3, table.Len())
		assert.Equal(t, []string{"_atom_site_label", "_atom_site_adp_type", "_atom_site_occupancy"}, table.Columns())
	})
}

func TestParseMultiBlock(t *testing.T) {
	t.Parallel()

	doc, err := Parse("data_one\n_a 1\ndata_two\n_b 2\n")
	require.NoError(t, err)

	assert.Equal(t, "one", doc.Block())
	assert.True(t, doc.HasScalar("_a"))
	assert.False(t, doc.HasScalar("_b"), "second data block must be ignored")
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"entry without value", "data_x\n_cell_length_a\n"},
		{"duplicate entry", "data_x\n_a 1\n_a 2\n"},
		{"stray value", "data_x\n1.0\n"},
		{"loop without columns", "data_x\nloop_\n1 2 3\n"},
		{"ragged loop", "data_x\nloop_\n_a\n_b\n1 2 3\n"},
		{"unterminated quote", "data_x\n_a 'oops\n"},
		{"unterminated text field", "data_x\n_a\n;\nnever closed\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrDocumentSyntax)
		})
	}
}

func TestParseCommentsAndBlankLines(t *testing.T) {
	t.Parallel()

	doc, err := Parse("# header comment\ndata_x\n\n_a 1 # trailing comment\n")
	require.NoError(t, err)

	v, err := doc.Scalar("_a")
	require.NoError(t, err)
	f, ok := v.Float()
	require.True(t, ok)
	assert.InDelta(t, 1.0, f, 1e-12)
}
