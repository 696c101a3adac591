package median

import (
	"fmt"
	"math"
	"slices"
)

// Unset is the split value of a dimension that has never been computed.
// Every finite coordinate compares below it, so before the first rebuild all
// points descend to the left.
const Unset = float32(math.MaxFloat32)

// ErrInvalidDimension is returned for a dimension index outside the table.
type ErrInvalidDimension struct {
	Dimension  int
	Dimensions int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("median: dimension %d out of range [0, %d)", e.Dimension, e.Dimensions)
}

// Table stores one split value per dimension plus the scratch buffer used to
// compute them.
type Table struct {
	values  []float32
	scratch []float32
}

// NewTable creates a table for dims dimensions whose scratch buffer holds up to
// rows values.
func NewTable(dims, rows int) *Table {
	t := &Table{
		values:  make([]float32, dims),
		scratch: make([]float32, 0, rows),
	}
	t.Reset()
	return t
}

// Reset sets every split value back to Unset.
func (t *Table) Reset() {
	for i := range t.values {
		t.values[i] = Unset
	}
	t.scratch = t.scratch[:0]
}

// Len returns the number of dimensions.
func (t *Table) Len() int { return len(t.values) }

// At returns the split value for dim. dim must be in range; navigation code
// derives it as depth mod Len.
func (t *Table) At(dim int) float32 { return t.values[dim] }

// Get returns the split value for dim.
func (t *Table) Get(dim int) (float32, error) {
	if err := t.check(dim); err != nil {
		return 0, err
	}
	return t.values[dim], nil
}

// Set overwrites the split value for dim.
func (t *Table) Set(dim int, v float32) error {
	if err := t.check(dim); err != nil {
		return err
	}
	t.values[dim] = v
	return nil
}

// Values returns a copy of all split values.
func (t *Table) Values() []float32 {
	return slices.Clone(t.values)
}

// Recompute copies coordinate dim of every point into the scratch buffer,
// selects the lower median and stores it as the split value for dim.
// The scratch contents are destroyed by the selection.
func (t *Table) Recompute(dim int, points [][]float32) error {
	if err := t.check(dim); err != nil {
		return err
	}

	t.scratch = t.scratch[:0]
	for _, p := range points {
		t.scratch = append(t.scratch, p[dim])
	}

	v, err := Lower(t.scratch)
	if err != nil {
		return err
	}
	t.values[dim] = v
	return nil
}

func (t *Table) check(dim int) error {
	if dim < 0 || dim >= len(t.values) {
		return &ErrInvalidDimension{Dimension: dim, Dimensions: len(t.values)}
	}
	return nil
}
