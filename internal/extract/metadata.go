package extract

import (
	"encoding/csv"
	"io"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// Record pairs an output filename with its transcription.
type Record struct {
	FileName      string
	Transcription string
}

// Accumulator collects metadata records from every worker across every
// input file of a run. Appends are serialized; iteration order is append
// order, which need not match input row order.
type Accumulator struct {
	mu      sync.Mutex
	records []Record
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Append records one (filename, transcription) pair. Transcriptions are
// NFC-normalized so the side-table is stable regardless of how the source
// dataset encoded combining characters.
func (a *Accumulator) Append(fileName, transcription string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, Record{
		FileName:      fileName,
		Transcription: norm.NFC.String(transcription),
	})
}

// Len reports the number of collected records.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Records returns a copy of the collected records.
func (a *Accumulator) Records() []Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Record, len(a.records))
	copy(out, a.records)
	return out
}

// WriteCSV emits the side-table with its header row. Callers skip the call
// entirely when the accumulator is empty.
func (a *Accumulator) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"file_name", "transcription"}); err != nil {
		return err
	}
	for _, rec := range a.Records() {
		if err := cw.Write([]string{rec.FileName, rec.Transcription}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
