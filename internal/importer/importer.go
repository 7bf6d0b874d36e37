// Package importer finds alert files dropped into <root>/import/ and reads
// them to plain text.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Reader turns one alert file into its text.
type Reader interface {
	Read(ctx context.Context, path string) (string, error)
	Extensions() []string
}

// Registry maps lower-case file extensions to readers.
type Registry struct {
	readers map[string]Reader
}

// FileInfo describes an alert file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds r for each of its extensions. Panics on a duplicate.
func (r *Registry) Register(rd Reader) {
	for _, ext := range rd.Extensions() {
		key := strings.ToLower(ext)
		if _, ok := r.readers[key]; ok {
			panic("duplicate reader extension: " + key)
		}
		r.readers[key] = rd
	}
}

// Get returns the reader for a file name's extension, or nil.
func (r *Registry) Get(name string) Reader {
	return r.readers[strings.ToLower(filepath.Ext(name))]
}

// Read reads the file at path with the reader registered for its extension.
func (r *Registry) Read(ctx context.Context, path string) (string, error) {
	rd := r.Get(path)
	if rd == nil {
		return "", fmt.Errorf("no reader for %s", filepath.Base(path))
	}
	text, err := rd.Read(ctx, path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return text, nil
}

// importDir is the subdirectory for incoming alerts.
const importDir = "import"

// processedDir is the subdirectory for alerts already handled.
const processedDir = "import/processed"

// Dir returns the import directory under root.
func Dir(root string) string {
	return filepath.Join(root, importDir)
}

// Scan returns the files in <root>/import/ that reg can read, in name order.
func Scan(root string, reg *Registry) ([]FileInfo, error) {
	dir := Dir(root)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || reg.Get(e.Name()) == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
