package dataset

// Columns names the dataset columns the pipeline works with. Audio is the
// nested struct column promoted before projection; an empty Audio means the
// dataset already carries flat payload and identifier columns. An empty
// Transcription disables the metadata side-table for the run.
type Columns struct {
	Audio         string
	Bytes         string
	Path          string
	Transcription string
}

// DefaultColumns returns the Hugging Face audio-dataset column convention.
func DefaultColumns() Columns {
	return Columns{
		Audio:         "audio",
		Bytes:         "bytes",
		Path:          "path",
		Transcription: "transcription",
	}
}
