package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/cleared-dev/credited/internal/ocr"
)

// TextReader reads pasted alerts saved as plain text.
type TextReader struct{}

func (TextReader) Extensions() []string { return []string{".txt"} }

func (TextReader) Read(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ImageReader reads alert screenshots through OCR.
type ImageReader struct {
	Recognizer ocr.Recognizer
}

func (ImageReader) Extensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}
}

func (r ImageReader) Read(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return r.Recognizer.Recognize(ctx, data, ocr.MediaTypeFor(path))
}

// PDFReader reads e-receipts that carry a text layer.
type PDFReader struct{}

func (PDFReader) Extensions() []string { return []string{".pdf"} }

func (PDFReader) Read(_ context.Context, path string) (text string, err error) {
	// The pdf package panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if r.NumPage() == 0 {
		return "", fmt.Errorf("pdf has no pages")
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("pdf has no text layer")
	}
	return text, nil
}

// DefaultRegistry returns a registry with the text and PDF readers and, when
// rec is non-nil, the image reader.
func DefaultRegistry(rec ocr.Recognizer) *Registry {
	r := NewRegistry()
	r.Register(TextReader{})
	r.Register(PDFReader{})
	if rec != nil {
		r.Register(ImageReader{Recognizer: rec})
	}
	return r
}
