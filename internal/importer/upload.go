package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// UploadName returns the stored name for an uploaded schedule:
// orario_<YYYYMMDD_HHMMSS><ext>.
func UploadName(original string, now time.Time) string {
	return "orario_" + now.Format("20060102_150405") + strings.ToLower(filepath.Ext(original))
}

// SaveUpload validates src and copies it into dir under UploadName. It
// returns the stored path. dir is created when missing.
func SaveUpload(src, dir string, now time.Time) (string, error) {
	if errs := ValidateScheduleFile(src); len(errs) > 0 {
		return "", fmt.Errorf("invalid schedule file: %w", errors.Join(errs...))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}

	dest := filepath.Join(dir, UploadName(src, now))
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return "", fmt.Errorf("copying upload: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", dest, err)
	}
	return dest, nil
}
