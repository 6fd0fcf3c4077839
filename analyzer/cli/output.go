package cli

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/term"
)

// encodeJSON writes v to w as a single line of JSON, gzip-compressed when
// compress is set.
func encodeJSON(w io.Writer, v any, compress bool) error {
	if compress {
		return writeGzipJSON(w, v)
	}
	return json.NewEncoder(w).Encode(v)
}

func writeGzipJSON(w io.Writer, v any) error {
	gz := gzip.NewWriter(w)
	if err := json.NewEncoder(gz).Encode(v); err != nil {
		gz.Close()
		return fmt.Errorf("encode JSON: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("close gzip writer: %w", err)
	}
	return nil
}

// absPath resolves path so reports and document URIs are stable.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}

// fileURI returns the file:// URI of an absolute path.
func fileURI(abs string) string {
	return "file://" + filepath.ToSlash(abs)
}

// writeOutput writes data to path, or to w when path is empty or "-".
// Existing files are only replaced when force is set.
func writeOutput(w io.Writer, path string, data []byte, force bool) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// terminalWidth returns the dialog width that fits the terminal behind w,
// or 0 when w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols < 20 {
		return 0
	}
	return min(cols-2, 100)
}
