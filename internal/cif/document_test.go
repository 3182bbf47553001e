package cif

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcrbox/cifprobe/internal/errors"
)

func atomSiteDocument(t *testing.T) *Document {
	t.Helper()

	doc, err := Parse(`data_crystal
loop_
 _atom_site_label
 _atom_site_adp_type
 _atom_site_occupancy
 O1 Uani 1.0
 H1 Uiso 0.5
 H2 Uiso 0.25
`)
	require.NoError(t, err)
	return doc
}

func TestDocumentScalar(t *testing.T) {
	t.Parallel()

	doc, err := Parse("data_x\n_a 1\n")
	require.NoError(t, err)

	t.Run("missing entry", func(t *testing.T) {
		t.Parallel()

		_, err := doc.Scalar("_b")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrEntryNotFound)
	})

	t.Run("has scalar", func(t *testing.T) {
		t.Parallel()

		assert.True(t, doc.HasScalar("_a"))
		assert.False(t, doc.HasScalar("_b"))
	})
}

func TestDocumentLoopFor(t *testing.T) {
	t.Parallel()

	doc := atomSiteDocument(t)

	t.Run("found by any declared column", func(t *testing.T) {
		t.Parallel()

		table, err := doc.LoopFor("_atom_site_occupancy")
		require.NoError(t, err)
		assert.Equal(t, "_atom_site_label", table.Name())
	})

	t.Run("unknown column", func(t *testing.T) {
		t.Parallel()

		_, err := doc.LoopFor("_geom_bond_distance")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrLoopNotFound)
	})
}

func TestDocumentCell(t *testing.T) {
	t.Parallel()

	doc := atomSiteDocument(t)

	t.Run("single condition", func(t *testing.T) {
		t.Parallel()

		v, err := doc.Cell("_atom_site_adp_type", []Condition{
			{Name: "_atom_site_label", Value: StringValue("O1")},
		})
		require.NoError(t, err)
		assert.Equal(t, "Uani", v.String())
	})

	t.Run("multiple AND conditions", func(t *testing.T) {
		t.Parallel()

		v, err := doc.Cell("_atom_site_occupancy", []Condition{
			{Name: "_atom_site_label", Value: StringValue("H2")},
			{Name: "_atom_site_adp_type", Value: StringValue("Uiso")},
		})
		require.NoError(t, err)
		f, ok := v.Float()
		require.True(t, ok)
		assert.InDelta(t, 0.25, f, 1e-12)
	})

	t.Run("ambiguous lookup uses first match", func(t *testing.T) {
		t.Parallel()

		// Both H1 and H2 are Uiso; document order decides.
		v, err := doc.Cell("_atom_site_label", []Condition{
			{Name: "_atom_site_adp_type", Value: StringValue("Uiso")},
		})
		require.NoError(t, err)
		assert.Equal(t, "H1", v.String())
	})

	t.Run("no matching row", func(t *testing.T) {
		t.Parallel()

		_, err := doc.Cell("_atom_site_adp_type", []Condition{
			{Name: "_atom_site_label", Value: StringValue("N1")},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrRowNotFound)
	})

	t.Run("unknown lookup column", func(t *testing.T) {
		t.Parallel()

		_, err := doc.Cell("_atom_site_adp_type", []Condition{
			{Name: "_atom_site_charge", Value: NumberValue(0)},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrColumnNotFound)
	})
}

func TestTableFindRows(t *testing.T) {
	t.Parallel()

	doc := atomSiteDocument(t)
	table, err := doc.LoopFor("_atom_site_label")
	require.NoError(t, err)

	rows, err := table.FindRows([]Condition{
		{Name: "_atom_site_adp_type", Value: StringValue("Uiso")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "H1", rows[0]["_atom_site_label"].String())
	assert.Equal(t, "H2", rows[1]["_atom_site_label"].String())
}
