package testsupport

import (
	"bytes"
	"os"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// AudioRow describes one fixture row in the nested audio-dataset shape.
type AudioRow struct {
	Path          string
	Payload       []byte
	Transcription string
	NoText        bool
	NullPath      bool
	NullPayload   bool
}

// AudioSchema returns the nested fixture schema: an audio struct column
// with bytes/path sub-fields plus a nullable transcription column.
func AudioSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "audio", Type: arrow.StructOf(
			arrow.Field{Name: "bytes", Type: arrow.BinaryTypes.Binary, Nullable: true},
			arrow.Field{Name: "path", Type: arrow.BinaryTypes.String, Nullable: true},
		)},
		{Name: "transcription", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)
}

// BuildAudioRecord materializes fixture rows as a single Arrow record.
// Callers release the returned record.
func BuildAudioRecord(t testing.TB, rows []AudioRow) arrow.Record {
	t.Helper()

	builder := array.NewRecordBuilder(memory.DefaultAllocator, AudioSchema())
	defer builder.Release()

	structBuilder := builder.Field(0).(*array.StructBuilder)
	bytesBuilder := structBuilder.FieldBuilder(0).(*array.BinaryBuilder)
	pathBuilder := structBuilder.FieldBuilder(1).(*array.StringBuilder)
	textBuilder := builder.Field(1).(*array.StringBuilder)

	for _, row := range rows {
		structBuilder.Append(true)
		if row.NullPayload {
			bytesBuilder.AppendNull()
		} else {
			bytesBuilder.Append(row.Payload)
		}
		if row.NullPath {
			pathBuilder.AppendNull()
		} else {
			pathBuilder.Append(row.Path)
		}
		if row.NoText {
			textBuilder.AppendNull()
		} else {
			textBuilder.Append(row.Transcription)
		}
	}
	return builder.NewRecord()
}

// IPCStreamBytes encodes fixture rows as an Arrow IPC stream.
func IPCStreamBytes(t testing.TB, rows []AudioRow) []byte {
	t.Helper()

	rec := BuildAudioRecord(t, rows)
	defer rec.Release()

	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(memory.DefaultAllocator))
	if err := w.Write(rec); err != nil {
		t.Fatalf("write ipc record: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close ipc writer: %v", err)
	}
	return buf.Bytes()
}

// EmptyIPCStreamBytes encodes a schema-only IPC stream with zero batches.
func EmptyIPCStreamBytes(t testing.TB) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, ipc.WithSchema(AudioSchema()), ipc.WithAllocator(memory.DefaultAllocator))
	if err := w.Close(); err != nil {
		t.Fatalf("close ipc writer: %v", err)
	}
	return buf.Bytes()
}

// ParquetBytes encodes fixture rows as a Parquet file payload.
func ParquetBytes(t testing.TB, rows []AudioRow) []byte {
	t.Helper()

	rec := BuildAudioRecord(t, rows)
	defer rec.Release()

	tbl := array.NewTableFromRecords(rec.Schema(), []arrow.Record{rec})
	defer tbl.Release()

	var buf bytes.Buffer
	if err := pqarrow.WriteTable(tbl, &buf, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()); err != nil {
		t.Fatalf("write parquet table: %v", err)
	}
	return buf.Bytes()
}

// WriteDatasetFile writes encoded fixture bytes to path.
func WriteDatasetFile(t testing.TB, path string, payload []byte) {
	t.Helper()
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write dataset fixture %s: %v", path, err)
	}
}
