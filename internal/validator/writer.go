package validator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupSuffix is appended to a resource path to name its backup.
const BackupSuffix = ".bak"

// Writer replaces resource files in place, optionally keeping the previous
// content as a backup.
//
// With backups the sequence is: remove the old backup, rename the live file
// to the backup path, write the new content. An interruption between the last
// two steps leaves only the backup.
type Writer struct {
	backup bool
}

// NewWriter creates a Writer.
func NewWriter(backup bool) *Writer {
	return &Writer{backup: backup}
}

// Write replaces the file at path with data, keeping its permissions.
func (w *Writer) Write(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	mode := info.Mode().Perm()

	if w.backup {
		bak := path + BackupSuffix
		if err := os.Remove(bak); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove old backup %s: %w", bak, err)
		}
		if err := os.Rename(path, bak); err != nil {
			return fmt.Errorf("back up %s: %w", path, err)
		}
	}

	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
