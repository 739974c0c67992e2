package assaystat

import (
	"fmt"
	"math"
)

// Table is a plate table: an ordered set of equally long, named float64
// columns read from one sheet. Rows are wells or replicate measurements.
// Columns are looked up by their exact header string.
type Table struct {
	Name    string
	Tag     ExperimentTag
	Headers []string
	Columns [][]float64
}

// NewTable builds a table, checking that there is one header per column and
// that every column has the same length.
func NewTable(name string, headers []string, columns [][]float64) (*Table, error) {
	if len(headers) != len(columns) {
		return nil, &DataError{Sheet: name, Err: fmt.Errorf("%d headers but %d columns", len(headers), len(columns))}
	}

	for i := 1; i < len(columns); i++ {
		if len(columns[i]) != len(columns[0]) {
			return nil, &DataError{Sheet: name, Column: headers[i], Err: fmt.Errorf("column has %d rows, expected %d", len(columns[i]), len(columns[0]))}
		}
	}

	return &Table{Name: name, Tag: TagFromSheet(name), Headers: headers, Columns: columns}, nil
}

// Rows is the number of rows in the table.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0])
}

// Width is the number of columns in the table.
func (t *Table) Width() int {
	return len(t.Columns)
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns the named column. The slice is shared with the table.
func (t *Table) Column(name string) ([]float64, error) {
	i := t.Index(name)
	if i < 0 {
		return nil, &DataError{Sheet: t.Name, Column: name, Err: ErrMissingColumn}
	}

	return t.Columns[i], nil
}

// Row copies out the values of row i across all columns.
func (t *Table) Row(i int) []float64 {
	out := make([]float64, 0, len(t.Columns))
	for _, col := range t.Columns {
		out = append(out, col[i])
	}
	return out
}

// Slice returns a copy holding columns [from, to). Bounds are clamped to the
// table width, in the manner of positional column selection.
func (t *Table) Slice(from, to int) *Table {
	if from < 0 {
		from = 0
	}
	if to > t.Width() {
		to = t.Width()
	}
	if from > to {
		from = to
	}

	out := &Table{Name: t.Name, Tag: t.Tag}
	for i := from; i < to; i++ {
		out.Headers = append(out.Headers, t.Headers[i])
		out.Columns = append(out.Columns, append([]float64(nil), t.Columns[i]...))
	}

	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	return t.Slice(0, t.Width())
}

// SelectRows returns a copy holding only the given rows, in the given order.
func (t *Table) SelectRows(rows []int) (*Table, error) {
	out := &Table{Name: t.Name, Tag: t.Tag, Headers: append([]string(nil), t.Headers...)}
	for _, col := range t.Columns {
		sel := make([]float64, 0, len(rows))
		for _, r := range rows {
			if r < 0 || r >= len(col) {
				return nil, &DataError{Sheet: t.Name, Err: fmt.Errorf("row %d out of range [0, %d)", r, len(col))}
			}
			sel = append(sel, col[r])
		}
		out.Columns = append(out.Columns, sel)
	}

	return out, nil
}

// AddColumn appends a column. Its length must match the table.
func (t *Table) AddColumn(name string, values []float64) error {
	return t.InsertColumn(t.Width(), name, values)
}

// InsertColumn places a column at position pos.
func (t *Table) InsertColumn(pos int, name string, values []float64) error {
	if t.Width() > 0 && len(values) != t.Rows() {
		return &DataError{Sheet: t.Name, Column: name, Err: fmt.Errorf("column has %d rows, expected %d", len(values), t.Rows())}
	}
	if pos < 0 || pos > t.Width() {
		return &DataError{Sheet: t.Name, Column: name, Err: fmt.Errorf("position %d out of range", pos)}
	}

	t.Headers = append(t.Headers, "")
	copy(t.Headers[pos+1:], t.Headers[pos:])
	t.Headers[pos] = name

	t.Columns = append(t.Columns, nil)
	copy(t.Columns[pos+1:], t.Columns[pos:])
	t.Columns[pos] = values

	return nil
}

// Rename replaces all headers.
func (t *Table) Rename(headers ...string) error {
	if len(headers) != t.Width() {
		return &DataError{Sheet: t.Name, Err: fmt.Errorf("%d headers given for %d columns", len(headers), t.Width())}
	}
	t.Headers = append([]string(nil), headers...)
	return nil
}

// Map returns a copy with fn applied to every cell.
func (t *Table) Map(fn func(row, col int, v float64) float64) *Table {
	out := t.Clone()
	for c, col := range out.Columns {
		for r, v := range col {
			col[r] = fn(r, c, v)
		}
	}
	return out
}

// Concat stacks tables vertically. Columns are matched by position and the
// headers of the receiver are kept.
func (t *Table) Concat(others ...*Table) (*Table, error) {
	out := t.Clone()
	for _, o := range others {
		if o.Width() != out.Width() {
			return nil, &DataError{Sheet: o.Name, Err: fmt.Errorf("cannot stack %d columns under %d columns", o.Width(), out.Width())}
		}
		for i := range out.Columns {
			out.Columns[i] = append(out.Columns[i], o.Columns[i]...)
		}
	}

	return out, nil
}

// Hstack places tables side by side. Shorter tables are padded with NaN so
// that every column reaches the length of the longest.
func Hstack(name string, tables ...*Table) *Table {
	out := &Table{Name: name, Tag: TagFromSheet(name)}

	rows := 0
	for _, t := range tables {
		if t.Rows() > rows {
			rows = t.Rows()
		}
	}

	for _, t := range tables {
		for i, col := range t.Columns {
			padded := make([]float64, rows)
			copy(padded, col)
			for j := len(col); j < rows; j++ {
				padded[j] = math.NaN()
			}
			out.Headers = append(out.Headers, t.Headers[i])
			out.Columns = append(out.Columns, padded)
		}
	}

	return out
}
