package extract_test

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sync"
	"testing"

	"golang.org/x/text/unicode/norm"

	"audex/internal/extract"
)

func TestAccumulatorConcurrentAppends(t *testing.T) {
	acc := extract.NewAccumulator()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				acc.Append(fmt.Sprintf("g%d-%d.wav", g, i), "text")
			}
		}()
	}
	wg.Wait()

	if acc.Len() != 400 {
		t.Fatalf("expected 400 records, got %d", acc.Len())
	}
	for _, rec := range acc.Records() {
		if rec.FileName == "" || rec.Transcription != "text" {
			t.Fatalf("corrupted record: %+v", rec)
		}
	}
}

func TestAccumulatorNormalizesTranscriptions(t *testing.T) {
	acc := extract.NewAccumulator()
	decomposed := "José" // 'e' + combining acute

	acc.Append("a.wav", decomposed)

	rec := acc.Records()[0]
	if rec.Transcription != norm.NFC.String(decomposed) {
		t.Fatalf("expected NFC form, got %q", rec.Transcription)
	}
	if rec.Transcription != "José" {
		t.Fatalf("unexpected normalized value %q", rec.Transcription)
	}
}

func TestWriteCSVIncludesHeaderAndRecords(t *testing.T) {
	acc := extract.NewAccumulator()
	acc.Append("a.wav", "hello world")
	acc.Append("b.wav", "with, comma")

	var buf bytes.Buffer
	if err := acc.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "file_name" || rows[0][1] != "transcription" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[2][1] != "with, comma" {
		t.Fatalf("comma-bearing transcription mangled: %v", rows[2])
	}
}
