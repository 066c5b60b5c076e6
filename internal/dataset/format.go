package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies the container encoding of an input file.
type Format int

const (
	// FormatParquet is the columnar on-disk encoding. Default.
	FormatParquet Format = iota
	// FormatArrowStream is the Arrow IPC streaming encoding.
	FormatArrowStream
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "parquet", "pq":
		return FormatParquet, nil
	case "arrow", "arrows", "ipc", "stream":
		return FormatArrowStream, nil
	default:
		return FormatParquet, fmt.Errorf("unknown dataset format %q (expected parquet or arrow)", name)
	}
}

func (f Format) String() string {
	switch f {
	case FormatArrowStream:
		return "arrow"
	default:
		return "parquet"
	}
}

// Extensions lists the file extensions recognized for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatArrowStream:
		return []string{".arrow", ".arrows", ".ipc"}
	default:
		return []string{".parquet", ".pq"}
	}
}

// Matches reports whether the file name carries one of the format's
// extensions. Used by directory batches to filter candidate inputs.
func (f Format) Matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range f.Extensions() {
		if ext == want {
			return true
		}
	}
	return false
}
