package dataset

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Row is one extracted record: the output identifier, the audio payload,
// and the transcription when the row carries one.
type Row struct {
	Name          string
	Payload       []byte
	Transcription string
	HasText       bool
}

// RowReader walks a shaped table row by row, enforcing the projection's
// type guards. Payload slices alias the table's buffers, so the table must
// outlive every Row taken from it.
type RowReader struct {
	rows    int64
	payload *arrow.Column
	name    *arrow.Column
	text    *arrow.Column
}

// NewRowReader resolves the projected columns of a shaped table. The
// payload and identifier columns are required; the transcription column is
// picked up when present.
func NewRowReader(tbl arrow.Table, cols Columns) (*RowReader, error) {
	reader := &RowReader{rows: tbl.NumRows()}

	var err error
	if reader.payload, err = requiredColumn(tbl, cols.Bytes); err != nil {
		return nil, err
	}
	if reader.name, err = requiredColumn(tbl, cols.Path); err != nil {
		return nil, err
	}
	if cols.Transcription != "" {
		if indices := tbl.Schema().FieldIndices(cols.Transcription); len(indices) > 0 {
			reader.text = tbl.Column(indices[0])
		}
	}
	return reader, nil
}

func requiredColumn(tbl arrow.Table, name string) (*arrow.Column, error) {
	indices := tbl.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: required column %q missing (have %s)", ErrDecode, name, columnNames(tbl.Schema()))
	}
	return tbl.Column(indices[0]), nil
}

// Len reports the number of rows.
func (r *RowReader) Len() int64 {
	return r.rows
}

// Row materializes the record at index i. A wrong-typed or null payload or
// identifier yields ErrTypeMismatch; callers skip the row and continue. A
// missing transcription only clears HasText, never fails the row: the file
// write and the metadata record have independent completeness guarantees.
func (r *RowReader) Row(i int64) (Row, error) {
	payload, ok, err := binaryAt(r.payload, i)
	if err != nil {
		return Row{}, fmt.Errorf("row %d: %w", i, err)
	}
	if !ok {
		return Row{}, fmt.Errorf("row %d: %w: payload is null", i, ErrTypeMismatch)
	}

	name, ok, err := stringAt(r.name, i)
	if err != nil {
		return Row{}, fmt.Errorf("row %d: %w", i, err)
	}
	if !ok {
		return Row{}, fmt.Errorf("row %d: %w: identifier is null", i, ErrTypeMismatch)
	}

	row := Row{Name: name, Payload: payload}
	if r.text != nil {
		text, present, textErr := stringAt(r.text, i)
		if textErr == nil && present {
			row.Transcription = text
			row.HasText = true
		}
	}
	return row, nil
}

// chunkAt locates the chunk holding global row index i and the local index
// within it.
func chunkAt(col *arrow.Column, i int64) (arrow.Array, int, error) {
	for _, chunk := range col.Data().Chunks() {
		n := int64(chunk.Len())
		if i < n {
			return chunk, int(i), nil
		}
		i -= n
	}
	return nil, 0, fmt.Errorf("%w: row index %d out of range", ErrDecode, i)
}

func binaryAt(col *arrow.Column, i int64) ([]byte, bool, error) {
	chunk, j, err := chunkAt(col, i)
	if err != nil {
		return nil, false, err
	}
	if chunk.IsNull(j) {
		return nil, false, nil
	}
	switch arr := chunk.(type) {
	case *array.Binary:
		return arr.Value(j), true, nil
	case *array.LargeBinary:
		return arr.Value(j), true, nil
	default:
		return nil, false, fmt.Errorf("%w: column %q holds %s, expected binary", ErrTypeMismatch, col.Name(), col.DataType())
	}
}

func stringAt(col *arrow.Column, i int64) (string, bool, error) {
	chunk, j, err := chunkAt(col, i)
	if err != nil {
		return "", false, err
	}
	if chunk.IsNull(j) {
		return "", false, nil
	}
	switch arr := chunk.(type) {
	case *array.String:
		return arr.Value(j), true, nil
	case *array.LargeString:
		return arr.Value(j), true, nil
	default:
		return "", false, fmt.Errorf("%w: column %q holds %s, expected string", ErrTypeMismatch, col.Name(), col.DataType())
	}
}
