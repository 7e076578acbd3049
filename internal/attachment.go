package internal

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

const defaultMIME = "application/octet-stream"

// Codec turns captured frames and files into inline attachments
type Codec struct {
	newID func() string
	now   func() time.Time
}

// NewCodec creates a codec using random ids and the wall clock
func NewCodec() *Codec {
	return &Codec{newID: uuid.NewString, now: time.Now}
}

// FromCapturedImage encodes a still frame as an inline PNG
func (c *Codec) FromCapturedImage(frame image.Image) (Attachment, error) {
	now := c.now()
	name := fmt.Sprintf("photo-%d.png", now.UnixMilli())
	if frame == nil {
		return Attachment{}, &EncodingError{Name: name, Err: errors.New("no frame captured")}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return Attachment{}, &EncodingError{Name: name, Err: err}
	}

	dataURL := DataURL("image/png", buf.Bytes())
	return Attachment{
		ID:        c.newID(),
		Name:      name,
		MIME:      "image/png",
		Size:      int64(math.Round(float64(len(dataURL)) * 0.75)),
		DataURL:   dataURL,
		CreatedAt: now.UnixMilli(),
	}, nil
}

// FromImageFile decodes an image file and re-encodes it as a captured photo
func (c *Codec) FromImageFile(ctx context.Context, path string) (Attachment, error) {
	if err := ctx.Err(); err != nil {
		return Attachment{}, &EncodingError{Name: filepath.Base(path), Err: err}
	}
	f, err := os.Open(path)
	if err != nil {
		return Attachment{}, &EncodingError{Name: filepath.Base(path), Err: err}
	}
	defer f.Close()

	frame, _, err := image.Decode(f)
	if err != nil {
		return Attachment{}, &EncodingError{Name: filepath.Base(path), Err: err}
	}
	return c.FromCapturedImage(frame)
}

// FromFile reads a file from disk and embeds it inline
func (c *Codec) FromFile(ctx context.Context, path string) (Attachment, error) {
	name := filepath.Base(path)
	if err := ctx.Err(); err != nil {
		return Attachment{}, &EncodingError{Name: name, Err: err}
	}
	f, err := os.Open(path)
	if err != nil {
		return Attachment{}, &EncodingError{Name: name, Err: err}
	}
	defer f.Close()

	return c.FromReader(name, "", f)
}

// FromReader reads r fully and embeds it inline. An empty declaredMIME is
// resolved from the file extension, then from the content.
func (c *Codec) FromReader(name, declaredMIME string, r io.Reader) (Attachment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Attachment{}, &EncodingError{Name: name, Err: err}
	}

	mimeType := detectMIME(name, declaredMIME, data)
	return Attachment{
		ID:        c.newID(),
		Name:      name,
		MIME:      mimeType,
		Size:      int64(len(data)),
		DataURL:   DataURL(mimeType, data),
		CreatedAt: c.now().UnixMilli(),
	}, nil
}

// DataURL builds a base64 data URL
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Decode extracts the bytes and MIME type embedded in an attachment
func Decode(att Attachment) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(att.DataURL, "data:")
	if !ok {
		return nil, "", &EncodingError{Name: att.Name, Err: errors.New("not a data URL")}
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", &EncodingError{Name: att.Name, Err: errors.New("data URL has no payload")}
	}

	mimeType, isBase64 := strings.CutSuffix(header, ";base64")
	if mimeType == "" {
		mimeType = att.MIME
	}
	if !isBase64 {
		return []byte(payload), mimeType, nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", &EncodingError{Name: att.Name, Err: err}
	}
	return data, mimeType, nil
}

// PreviewImage decodes an image attachment for display
func PreviewImage(att Attachment) (image.Image, error) {
	if !att.IsImage() {
		return nil, &EncodingError{Name: att.Name, Err: fmt.Errorf("%s is not an image", att.MIME)}
	}
	data, _, err := Decode(att)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &EncodingError{Name: att.Name, Err: err}
	}
	return img, nil
}

// Describe returns a one-line summary such as "report.pdf · application/pdf · 12 kB"
func Describe(att Attachment) string {
	parts := []string{att.Name, att.MIME}
	if att.Size > 0 {
		parts = append(parts, humanize.Bytes(uint64(att.Size)))
	}
	return strings.Join(parts, " · ")
}

func detectMIME(name, declared string, data []byte) string {
	candidates := []string{declared, mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))}
	if len(data) > 0 {
		candidates = append(candidates, http.DetectContentType(data))
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if mediaType, _, err := mime.ParseMediaType(candidate); err == nil {
			return mediaType
		}
	}
	return defaultMIME
}
