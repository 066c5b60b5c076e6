package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// Open reads the dataset at path, normalizes it to an Arrow table, and
// applies the column projection. The caller releases the returned table.
func Open(ctx context.Context, path string, format Format, cols Columns) (arrow.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatArrowStream:
		return NormalizeStream(ctx, f, cols)
	default:
		return DecodeParquet(ctx, f, cols)
	}
}

// NormalizeStream converts an Arrow IPC stream into the Parquet encoding
// held in an in-memory buffer, then decodes that buffer through the same
// path as DecodeParquet. The intermediate encoding never touches disk, and
// the writer is finalized before the buffer is read on every exit path.
func NormalizeStream(ctx context.Context, r io.Reader, cols Columns) (arrow.Table, error) {
	rdr, err := ipc.NewReader(r, ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, fmt.Errorf("%w: read ipc stream: %v", ErrDecode, err)
	}
	defer rdr.Release()

	var buf bytes.Buffer
	var pw *pqarrow.FileWriter
	for rdr.Next() {
		rec := rdr.Record()
		if pw == nil {
			pw, err = pqarrow.NewFileWriter(rec.Schema(), &buf, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
			if err != nil {
				return nil, fmt.Errorf("%w: prepare columnar buffer: %v", ErrDecode, err)
			}
		}
		if err := pw.Write(rec); err != nil {
			_ = pw.Close()
			return nil, fmt.Errorf("%w: buffer row batch: %v", ErrDecode, err)
		}
	}
	if err := rdr.Err(); err != nil && !errors.Is(err, io.EOF) {
		if pw != nil {
			_ = pw.Close()
		}
		return nil, fmt.Errorf("%w: decode ipc stream: %v", ErrDecode, err)
	}
	if pw == nil {
		// No batches means no schema to drive the conversion.
		return nil, fmt.Errorf("%w: ipc stream declares no row batches", ErrDecode)
	}
	if err := pw.Close(); err != nil {
		return nil, fmt.Errorf("%w: finalize columnar buffer: %v", ErrDecode, err)
	}

	return DecodeParquet(ctx, bytes.NewReader(buf.Bytes()), cols)
}

// DecodeParquet reads a Parquet payload into an Arrow table, promotes the
// nested audio column when the schema carries one, and applies the
// projection.
func DecodeParquet(ctx context.Context, r parquet.ReaderAtSeeker, cols Columns) (arrow.Table, error) {
	pf, err := file.NewParquetReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read parquet container: %v", ErrDecode, err)
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{BatchSize: 1024}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("%w: read parquet schema: %v", ErrDecode, err)
	}

	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: decode parquet: %v", ErrDecode, err)
	}
	defer tbl.Release()

	return Shape(tbl, cols)
}

// Shape applies the audio unnest (when the schema carries the nested
// column) followed by the projection down to payload, identifier, and
// transcription. The returned table is independent of tbl's lifetime.
func Shape(tbl arrow.Table, cols Columns) (arrow.Table, error) {
	working := tbl
	if cols.Audio != "" && tbl.Schema().HasField(cols.Audio) {
		unnested, err := Unnest(tbl, cols.Audio)
		if err != nil {
			return nil, err
		}
		defer unnested.Release()
		working = unnested
	}

	required := []string{cols.Bytes, cols.Path}
	var optional []string
	if cols.Transcription != "" {
		optional = append(optional, cols.Transcription)
	}
	return Project(working, required, optional)
}
