package ocr

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", MediaTypeFor("alert.PNG"))
	assert.Equal(t, "image/jpeg", MediaTypeFor("shot.jpeg"))
	assert.Equal(t, "", MediaTypeFor("alert.txt"))
	assert.Equal(t, "", MediaTypeFor("noext"))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("image/png"))
	assert.True(t, Supported("image/jpg"))
	assert.True(t, Supported("IMAGE/JPEG; q=1"))
	assert.False(t, Supported("application/pdf"))
	assert.False(t, Supported(""))
}

func TestTesseract_Recognize(t *testing.T) {
	var gotArgs []string
	var gotInput []byte
	tess := NewTesseract("")
	tess.run = func(_ context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		gotInput, _ = io.ReadAll(stdin)
		return []byte("  NGN5,000 received\n\n"), nil
	}

	text, err := tess.Recognize(context.Background(), []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "NGN5,000 received", text)
	assert.Equal(t, []string{"tesseract", "stdin", "stdout", "-l", "eng", "--psm", "6"}, gotArgs)
	assert.Equal(t, "png-bytes", string(gotInput))
}

func TestTesseract_Errors(t *testing.T) {
	tess := NewTesseract("eng")
	tess.run = func(context.Context, io.Reader, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}

	_, err := tess.Recognize(context.Background(), []byte("x"), "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)

	_, err = tess.Recognize(context.Background(), nil, "image/png")
	assert.Error(t, err)

	_, err = tess.Recognize(context.Background(), []byte("x"), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running tesseract")
}

type countingRecognizer struct {
	calls int
	err   error
}

func (c *countingRecognizer) Recognize(_ context.Context, image []byte, _ string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "text:" + string(image), nil
}

func TestCached(t *testing.T) {
	next := &countingRecognizer{}
	c := NewCached(next, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		text, err := c.Recognize(ctx, []byte("a"), "image/png")
		require.NoError(t, err)
		assert.Equal(t, "text:a", text)
	}
	assert.Equal(t, 1, next.calls)

	_, err := c.Recognize(ctx, []byte("b"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCached_DoesNotCacheErrors(t *testing.T) {
	next := &countingRecognizer{err: errors.New("boom")}
	c := NewCached(next, time.Minute)

	_, err := c.Recognize(context.Background(), []byte("a"), "image/png")
	assert.Error(t, err)
	_, err = c.Recognize(context.Background(), []byte("a"), "image/png")
	assert.Error(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCached_RejectsUnsupportedMediaType(t *testing.T) {
	next := &countingRecognizer{}
	c := NewCached(next, time.Minute)
	ctx := context.Background()

	_, err := c.Recognize(ctx, []byte("a"), "image/png")
	require.NoError(t, err)

	_, err = c.Recognize(ctx, []byte("a"), "application/pdf")
	require.ErrorIs(t, err, ErrUnsupportedMediaType)
	assert.Equal(t, 1, next.calls)
}
