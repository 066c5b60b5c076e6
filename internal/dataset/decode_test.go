package dataset_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"audex/internal/dataset"
	"audex/internal/testsupport"
)

var fixtureRows = []testsupport.AudioRow{
	{Path: "clips/a.wav", Payload: []byte("AAA"), Transcription: "first"},
	{Path: "clips/b.wav", Payload: []byte("BBB"), NoText: true},
	{Path: "clips/c.wav", Payload: []byte{0x00, 0xFF, 0x10}, Transcription: "third"},
}

func TestNormalizeStreamRoundTripsPayloads(t *testing.T) {
	stream := testsupport.IPCStreamBytes(t, fixtureRows)

	tbl, err := dataset.NormalizeStream(context.Background(), bytes.NewReader(stream), dataset.DefaultColumns())
	if err != nil {
		t.Fatalf("NormalizeStream failed: %v", err)
	}
	defer tbl.Release()

	if got := tbl.NumRows(); got != int64(len(fixtureRows)) {
		t.Fatalf("expected %d rows, got %d", len(fixtureRows), got)
	}
	// Unnest plus projection: bytes, path, transcription.
	if got := tbl.NumCols(); got != 3 {
		t.Fatalf("expected 3 projected columns, got %d", got)
	}

	reader, err := dataset.NewRowReader(tbl, dataset.DefaultColumns())
	if err != nil {
		t.Fatalf("NewRowReader failed: %v", err)
	}
	for i, want := range fixtureRows {
		row, err := reader.Row(int64(i))
		if err != nil {
			t.Fatalf("row %d: %v", i, err)
		}
		if row.Name != want.Path {
			t.Fatalf("row %d: name %q, want %q", i, row.Name, want.Path)
		}
		if !bytes.Equal(row.Payload, want.Payload) {
			t.Fatalf("row %d: payload %v, want %v", i, row.Payload, want.Payload)
		}
		if row.HasText == want.NoText {
			t.Fatalf("row %d: HasText = %v with NoText = %v", i, row.HasText, want.NoText)
		}
		if row.HasText && row.Transcription != want.Transcription {
			t.Fatalf("row %d: transcription %q, want %q", i, row.Transcription, want.Transcription)
		}
	}
}

func TestNormalizeStreamRejectsEmptyStream(t *testing.T) {
	stream := testsupport.EmptyIPCStreamBytes(t)

	_, err := dataset.NormalizeStream(context.Background(), bytes.NewReader(stream), dataset.DefaultColumns())
	if !errors.Is(err, dataset.ErrDecode) {
		t.Fatalf("expected ErrDecode for empty stream, got %v", err)
	}
}

func TestNormalizeStreamRejectsGarbage(t *testing.T) {
	_, err := dataset.NormalizeStream(context.Background(), bytes.NewReader([]byte("not an ipc stream")), dataset.DefaultColumns())
	if !errors.Is(err, dataset.ErrDecode) {
		t.Fatalf("expected ErrDecode for garbage input, got %v", err)
	}
}

func TestDecodeParquetMatchesNormalizeStream(t *testing.T) {
	payload := testsupport.ParquetBytes(t, fixtureRows)

	tbl, err := dataset.DecodeParquet(context.Background(), bytes.NewReader(payload), dataset.DefaultColumns())
	if err != nil {
		t.Fatalf("DecodeParquet failed: %v", err)
	}
	defer tbl.Release()

	if got := tbl.NumRows(); got != int64(len(fixtureRows)) {
		t.Fatalf("expected %d rows, got %d", len(fixtureRows), got)
	}

	reader, err := dataset.NewRowReader(tbl, dataset.DefaultColumns())
	if err != nil {
		t.Fatalf("NewRowReader failed: %v", err)
	}
	row, err := reader.Row(2)
	if err != nil {
		t.Fatalf("row 2: %v", err)
	}
	if !bytes.Equal(row.Payload, fixtureRows[2].Payload) {
		t.Fatalf("payload mismatch after parquet round trip: %v", row.Payload)
	}
}

func TestDecodeParquetRejectsGarbage(t *testing.T) {
	_, err := dataset.DecodeParquet(context.Background(), bytes.NewReader([]byte("PAR0 but not really")), dataset.DefaultColumns())
	if !errors.Is(err, dataset.ErrDecode) {
		t.Fatalf("expected ErrDecode for garbage input, got %v", err)
	}
}

func TestDecodeParquetMissingRequiredColumn(t *testing.T) {
	payload := testsupport.ParquetBytes(t, fixtureRows)

	cols := dataset.DefaultColumns()
	cols.Path = "missing_identifier"
	_, err := dataset.DecodeParquet(context.Background(), bytes.NewReader(payload), cols)
	if !errors.Is(err, dataset.ErrDecode) {
		t.Fatalf("expected ErrDecode for missing projected column, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in      string
		want    dataset.Format
		wantErr bool
	}{
		{in: "", want: dataset.FormatParquet},
		{in: "parquet", want: dataset.FormatParquet},
		{in: "PQ", want: dataset.FormatParquet},
		{in: "arrow", want: dataset.FormatArrowStream},
		{in: "ipc", want: dataset.FormatArrowStream},
		{in: "csv", wantErr: true},
	}
	for _, tc := range cases {
		got, err := dataset.ParseFormat(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseFormat(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseFormat(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatMatches(t *testing.T) {
	if !dataset.FormatParquet.Matches("train-00000-of-00003.parquet") {
		t.Fatal("expected parquet extension match")
	}
	if dataset.FormatParquet.Matches("notes.txt") {
		t.Fatal("unexpected match for .txt")
	}
	if !dataset.FormatArrowStream.Matches("shard.ARROW") {
		t.Fatal("expected case-insensitive arrow match")
	}
	if dataset.FormatArrowStream.Matches("shard.parquet") {
		t.Fatal("arrow format must not match parquet files")
	}
}
