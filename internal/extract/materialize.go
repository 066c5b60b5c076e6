package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// WritePayload writes payload to path unless a file already exists there,
// in which case it reports false without touching the file. Creation is
// exclusive, so two workers racing on the same path within one process
// cannot both write it. The payload goes out in a single write and a failed
// write removes the partial file, so path either holds the complete payload
// or nothing.
func WritePayload(path string, payload []byte) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return false, fmt.Errorf("close %s: %w", path, err)
	}
	return true, nil
}
