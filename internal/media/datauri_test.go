package media

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Smallest valid PNG: signature + IHDR + IDAT + IEND for a 1x1 pixel.
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func TestDataURI_PNG(t *testing.T) {
	uri, err := DataURI(context.Background(), bytes.NewReader(tinyPNG), 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,iVBOR"), uri)
}

func TestDataURI_RejectsNonImage(t *testing.T) {
	_, err := DataURI(context.Background(), strings.NewReader("just some text, honest"), 0)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestDataURI_Limits(t *testing.T) {
	_, err := DataURI(context.Background(), bytes.NewReader(tinyPNG), int64(len(tinyPNG)-1))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = DataURI(context.Background(), bytes.NewReader(tinyPNG), int64(len(tinyPNG)))
	assert.NoError(t, err)

	_, err = DataURI(context.Background(), bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestDataURI_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DataURI(ctx, bytes.NewReader(tinyPNG), 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheck(t *testing.T) {
	uri, err := DataURI(context.Background(), bytes.NewReader(tinyPNG), 0)
	require.NoError(t, err)
	assert.NoError(t, Check(uri, 0))

	// The declared type is not trusted.
	assert.NoError(t, Check(strings.Replace(uri, "image/png", "text/plain", 1), 0))

	assert.ErrorIs(t, Check(uri, int64(len(tinyPNG)-1)), ErrTooLarge)
	assert.ErrorIs(t, Check("https://example.com/me.png", 0), ErrMalformed)
	assert.ErrorIs(t, Check("data:image/png,raw", 0), ErrMalformed)
	assert.ErrorIs(t, Check("data:image/png;base64,!!!", 0), ErrMalformed)
	assert.ErrorIs(t, Check("data:image/png;base64,", 0), ErrEmpty)
	assert.ErrorIs(t, Check("data:image/png;base64,aGVsbG8gd29ybGQ=", 0), ErrNotImage)
}
