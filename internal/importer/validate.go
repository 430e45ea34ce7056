package importer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// AllowedExtensions are the schedule formats the code-generation sandbox can
// load.
var AllowedExtensions = []string{".xlsx", ".xls"}

var (
	xlsxMagic = []byte("PK\x03\x04")
	xlsMagic  = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// ValidateScheduleFile checks that path names a non-empty spreadsheet.
// Returns a slice of all problems found (empty if valid). The sheet contents
// are not parsed; that is left to the agent's sandbox.
func ValidateScheduleFile(path string) []error {
	if strings.TrimSpace(path) == "" {
		return []error{fmt.Errorf("schedule file path is required")}
	}

	var errs []error
	ext := strings.ToLower(filepath.Ext(path))
	if !allowedExtension(ext) {
		errs = append(errs, fmt.Errorf("unsupported extension %q (expected %s)", ext, strings.Join(AllowedExtensions, " or ")))
	}

	info, err := os.Stat(path)
	if err != nil {
		return append(errs, fmt.Errorf("schedule file: %w", err))
	}
	if !info.Mode().IsRegular() {
		return append(errs, fmt.Errorf("%s is not a regular file", path))
	}
	if info.Size() == 0 {
		return append(errs, fmt.Errorf("%s is empty", path))
	}

	if len(errs) == 0 {
		if err := checkMagic(path, ext); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func allowedExtension(ext string) bool {
	for _, a := range AllowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

func checkMagic(path, ext string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening schedule file: %w", err)
	}
	defer f.Close()

	head := make([]byte, len(xlsMagic))
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("reading schedule file: %w", err)
	}
	head = head[:n]

	want := xlsxMagic
	if ext == ".xls" {
		want = xlsMagic
	}
	if !bytes.HasPrefix(head, want) {
		return fmt.Errorf("%s does not look like a %s spreadsheet", filepath.Base(path), ext)
	}
	return nil
}
