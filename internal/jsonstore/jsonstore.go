// Package jsonstore reads and writes the bot's on-disk state documents.
// Each store keeps its whole dataset in one JSON file that is loaded fully
// at startup and rewritten fully on every mutation.
package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Load decodes the document at path into v. A missing file is not an
// error: v is left untouched so the caller starts from its zero dataset.
func Load(path string, v any) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// Save rewrites the document at path with v, creating the parent
// directory if needed. Output is indented UTF-8 with non-ASCII text kept
// verbatim (no HTML escaping), so the files stay hand-readable.
func Save(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
