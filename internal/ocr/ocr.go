// Package ocr turns screenshots of bank alerts into text.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrUnsupportedMediaType is returned for inputs that are not a supported
// image format.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// Recognizer extracts text from an image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, mediaType string) (string, error)
}

var mediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

var supported = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/tiff": true,
	"image/webp": true,
}

// MediaTypeFor returns the image media type for a file name, or "" when the
// extension is not an image format we read.
func MediaTypeFor(name string) string {
	return mediaTypes[strings.ToLower(filepath.Ext(name))]
}

// Supported reports whether mediaType (parameters allowed) is an image
// format the recognizer accepts.
func Supported(mediaType string) bool {
	return supported[normalize(mediaType)]
}

func normalize(mediaType string) string {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return ""
	}
	if mt == "image/jpg" {
		return "image/jpeg"
	}
	return mt
}

type runFunc func(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error)

// Tesseract runs the tesseract binary with the image on stdin.
type Tesseract struct {
	Binary   string
	Language string
	run      runFunc
}

// NewTesseract returns a Tesseract for language (default "eng").
func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{Binary: "tesseract", Language: language, run: execRun}
}

// Available reports whether the tesseract binary is on PATH.
func (t *Tesseract) Available() bool {
	_, err := exec.LookPath(t.Binary)
	return err == nil
}

// Recognize returns the trimmed text tesseract reads from image.
func (t *Tesseract) Recognize(ctx context.Context, image []byte, mediaType string) (string, error) {
	if !Supported(mediaType) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, mediaType)
	}
	if len(image) == 0 {
		return "", errors.New("empty image")
	}

	// PSM 6: a single uniform block of text, which is how alerts render.
	out, err := t.run(ctx, bytes.NewReader(image), t.Binary, "stdin", "stdout", "-l", t.Language, "--psm", "6")
	if err != nil {
		return "", fmt.Errorf("running tesseract: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func execRun(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w (%s)", err, msg)
		}
		return nil, err
	}
	return out, nil
}
