package dataset

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Unnest promotes the sub-fields of the named struct column to top-level
// columns, replacing the struct column in the returned table. Kept separate
// from the decoders so schema flattening is independently testable.
func Unnest(tbl arrow.Table, column string) (arrow.Table, error) {
	schema := tbl.Schema()
	indices := schema.FieldIndices(column)
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: column %q not found (have %s)", ErrDecode, column, columnNames(schema))
	}
	target := indices[0]

	structType, ok := schema.Field(target).Type.(*arrow.StructType)
	if !ok {
		return nil, fmt.Errorf("%w: column %q is %s, expected a struct", ErrDecode, column, schema.Field(target).Type)
	}

	fields := make([]arrow.Field, 0, int(tbl.NumCols())-1+structType.NumFields())
	columns := make([]arrow.Column, 0, cap(fields))
	var promoted []*arrow.Column
	defer func() {
		for _, col := range promoted {
			col.Release()
		}
	}()
	for i := 0; i < int(tbl.NumCols()); i++ {
		if i != target {
			fields = append(fields, schema.Field(i))
			columns = append(columns, *tbl.Column(i))
			continue
		}

		source := tbl.Column(i)
		for j := 0; j < structType.NumFields(); j++ {
			sub := structType.Field(j)
			chunks := make([]arrow.Array, 0, len(source.Data().Chunks()))
			for _, chunk := range source.Data().Chunks() {
				structArr, ok := chunk.(*array.Struct)
				if !ok {
					return nil, fmt.Errorf("%w: column %q chunk is %T, expected struct", ErrDecode, column, chunk)
				}
				chunks = append(chunks, structArr.Field(j))
			}
			chunked := arrow.NewChunked(sub.Type, chunks)
			col := arrow.NewColumn(sub, chunked)
			chunked.Release()
			promoted = append(promoted, col)
			fields = append(fields, sub)
			columns = append(columns, *col)
		}
	}

	// NewTable retains every column, so the deferred releases only drop the
	// construction-time references.
	return array.NewTable(arrow.NewSchema(fields, nil), columns, tbl.NumRows()), nil
}

// Project restricts the table to the named columns, required first in the
// given order, then any optional columns that exist in the schema. A missing
// required column is a decode failure: without it no row can be extracted.
func Project(tbl arrow.Table, required, optional []string) (arrow.Table, error) {
	schema := tbl.Schema()
	fields := make([]arrow.Field, 0, len(required)+len(optional))
	columns := make([]arrow.Column, 0, cap(fields))

	for _, name := range required {
		indices := schema.FieldIndices(name)
		if len(indices) == 0 {
			return nil, fmt.Errorf("%w: required column %q missing (have %s)", ErrDecode, name, columnNames(schema))
		}
		fields = append(fields, schema.Field(indices[0]))
		columns = append(columns, *tbl.Column(indices[0]))
	}
	for _, name := range optional {
		indices := schema.FieldIndices(name)
		if len(indices) == 0 {
			continue
		}
		fields = append(fields, schema.Field(indices[0]))
		columns = append(columns, *tbl.Column(indices[0]))
	}

	return array.NewTable(arrow.NewSchema(fields, nil), columns, tbl.NumRows()), nil
}

func columnNames(schema *arrow.Schema) string {
	names := make([]string, 0, len(schema.Fields()))
	for _, f := range schema.Fields() {
		names = append(names, f.Name)
	}
	return strings.Join(names, ", ")
}
