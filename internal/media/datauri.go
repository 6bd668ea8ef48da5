// Package media turns uploaded photos into data URIs stored directly on
// profile and listing records.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes caps an uploaded photo at 5 MiB.
const DefaultMaxBytes = 5 << 20

var (
	ErrTooLarge  = errors.New("photo is too large")
	ErrNotImage  = errors.New("photo must be an image")
	ErrEmpty     = errors.New("photo is empty")
	ErrMalformed = errors.New("photo is not a base64 data URI")
)

// DataURI reads r fully and returns "data:<mime>;base64,<payload>".
// The content type is sniffed from the bytes, not trusted from the
// client. If ctx is cancelled while reading, the result is discarded.
func DataURI(ctx context.Context, r io.Reader, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	// Read one byte past the limit to tell "exactly max" from "over".
	b, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", ErrEmpty
	}
	if int64(len(b)) > maxBytes {
		return "", ErrTooLarge
	}

	mime, err := sniffImage(b)
	if err != nil {
		return "", err
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

// Check applies the DataURI rules to a URI that arrived already encoded,
// as a listing photo does. The declared type is ignored; the decoded
// bytes are sniffed.
func Check(uri string, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return ErrMalformed
	}
	_, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return ErrMalformed
	}
	if int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+2 {
		return ErrTooLarge
	}

	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(b) == 0 {
		return ErrEmpty
	}
	if int64(len(b)) > maxBytes {
		return ErrTooLarge
	}
	_, err = sniffImage(b)
	return err
}

func sniffImage(b []byte) (string, error) {
	mime := mimetype.Detect(b)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("%w: got %s", ErrNotImage, mime.String())
	}
	return mime.String(), nil
}
