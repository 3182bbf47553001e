// Package cif provides an immutable in-memory model of a CIF document:
// scalar data entries plus loop tables, with the lookup operations the
// assertion engine needs. The parser covers the subset of the CIF syntax
// that command output uses (one data block, scalar entries, loops, quoted
// strings and semicolon text fields); it is not a full CIF validator.
package cif

import (
	"strings"

	"github.com/qcrbox/cifprobe/internal/errors"
)

// Condition is one column=value requirement of a loop row lookup.
// Multiple conditions combine with AND semantics.
type Condition struct {
	Name  string
	Value Value
}

// Row is one loop row: column name to value. Rows have no identity beyond
// position and content.
type Row map[string]Value

// Table is one CIF loop: an ordered sequence of uniform rows. The table is
// named after its first declared column. Row order is document order and is
// preserved for deterministic first-match lookups.
type Table struct {
	name    string
	columns []string
	rows    []Row
}

// Name returns the table's identifying column (the first declared column).
func (t *Table) Name() string { return t.name }

// Columns returns the declared column names in document order.
func (t *Table) Columns() []string { return t.columns }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// HasColumn reports whether the table declares the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// FindRows returns every row satisfying all conditions, in document order.
// A condition naming a column the table does not declare yields
// ErrColumnNotFound rather than an empty result, so callers can tell a
// misspelled lookup column from a value that simply never occurs.
func (t *Table) FindRows(conditions []Condition) ([]Row, error) {
	for _, cond := range conditions {
		if !t.HasColumn(cond.Name) {
			return nil, errors.Wrapf(errors.ErrColumnNotFound, "lookup column %q not in loop %q", cond.Name, t.name)
		}
	}
	var matched []Row
	for _, row := range t.rows {
		ok := true
		for _, cond := range conditions {
			if !row[cond.Name].Equal(cond.Value) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

// Document is the parsed output of one command invocation. It is built once
// from raw text, queried during assertion evaluation, and never mutated.
type Document struct {
	block   string
	scalars map[string]Value
	loops   []*Table
}

// Block returns the data block name (without the "data_" prefix).
func (d *Document) Block() string { return d.block }

// Scalar returns the value of a non-loop entry. Absent entries yield
// ErrEntryNotFound; an entry holding an unknown marker is present and
// returns the marker value.
func (d *Document) Scalar(name string) (Value, error) {
	v, ok := d.scalars[name]
	if !ok {
		return Value{}, errors.Wrapf(errors.ErrEntryNotFound, "entry %q not in document", name)
	}
	return v, nil
}

// HasScalar reports whether a non-loop entry exists, unknown markers included.
func (d *Document) HasScalar(name string) bool {
	_, ok := d.scalars[name]
	return ok
}

// Loops returns the document's tables in declaration order.
func (d *Document) Loops() []*Table { return d.loops }

// LoopFor returns the table declaring the named column. Column names are
// unique across loops in well-formed CIF, so the first declaring table wins.
func (d *Document) LoopFor(column string) (*Table, error) {
	for _, t := range d.loops {
		if t.HasColumn(column) {
			return t, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrLoopNotFound, "no loop declares column %q", column)
}

// HasLoopColumn reports whether any loop declares the named column.
func (d *Document) HasLoopColumn(column string) bool {
	_, err := d.LoopFor(column)
	return err == nil
}

// FindRows locates the loop declaring column and returns every row matching
// all conditions, in document order.
func (d *Document) FindRows(column string, conditions []Condition) ([]Row, error) {
	t, err := d.LoopFor(column)
	if err != nil {
		return nil, err
	}
	return t.FindRows(conditions)
}

// Cell resolves a single loop value: the named column in the first row (in
// document order) matching all conditions. Zero matching rows yield
// ErrRowNotFound; a multi-row match silently uses the first, which keeps
// results deterministic but makes under-constrained lookups a footgun for
// suite authors.
func (d *Document) Cell(column string, conditions []Condition) (Value, error) {
	rows, err := d.FindRows(column, conditions)
	if err != nil {
		return Value{}, err
	}
	if len(rows) == 0 {
		return Value{}, errors.Wrapf(errors.ErrRowNotFound, "no row matches %s", describeConditions(conditions))
	}
	v, ok := rows[0][column]
	if !ok {
		return Value{}, errors.Wrapf(errors.ErrColumnNotFound, "column %q not in matched row", column)
	}
	return v, nil
}

func describeConditions(conditions []Condition) string {
	parts := make([]string, 0, len(conditions))
	for _, c := range conditions {
		parts = append(parts, c.Name+"="+c.Value.String())
	}
	return strings.Join(parts, " AND ")
}
