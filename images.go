package philofeed

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
)

const (
	defaultMaxUploadSize = 10 << 20 // 10MB
	jpegQuality          = 80
)

// Attachment is an optional file sent with a submission.
type Attachment struct {
	Filename  string
	MediaType string // as declared by the client; may be empty
	Size      int64
	Open      func() (io.ReadCloser, error)
}

// readAttachment reads the whole file, refusing anything above max bytes.
func readAttachment(a *Attachment, max int64) ([]byte, error) {
	if a.Size > max {
		return nil, fmt.Errorf("%w: %s is larger than %s", ErrFileRead, a.Filename, FormatFileSize(max))
	}
	if a.Open == nil {
		return nil, fmt.Errorf("%w: %s cannot be opened", ErrFileRead, a.Filename)
	}
	src, err := a.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrFileRead, a.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, max+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrFileRead, a.Filename, err)
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: %s is larger than %s", ErrFileRead, a.Filename, FormatFileSize(max))
	}
	return data, nil
}

// normalizeMediaType strips parameters and lowercases a declared type.
func normalizeMediaType(mt string) string {
	if mt == "" {
		return ""
	}
	parsed, _, err := mime.ParseMediaType(mt)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mt))
	}
	return parsed
}

func isImageType(mt string) bool {
	return strings.HasPrefix(mt, "image/")
}

// needsSniffing reports whether the declared type says nothing useful.
func needsSniffing(mt string) bool {
	return mt == "" || mt == "application/octet-stream"
}

// sniffMediaType detects the type from the file's leading bytes.
func sniffMediaType(data []byte) string {
	return normalizeMediaType(mimetype.Detect(data).String())
}

// downscaleImage re-encodes data as JPEG no wider than maxWidth. Images that
// already fit are returned untouched with their original media type.
func downscaleImage(data []byte, mediaType string, maxWidth int) ([]byte, string, error) {
	if maxWidth <= 0 {
		return data, mediaType, nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// Formats the standard decoders don't know (webp, svg) are kept as sent.
		return data, mediaType, nil
	}
	if cfg.Width <= maxWidth {
		return data, mediaType, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// DataURL embeds data as a base64 data URL.
func DataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// IsEmbeddedImage reports whether u is a base64 image data URL, the only
// form of ImageURL the renderer will emit.
func IsEmbeddedImage(u string) bool {
	return strings.HasPrefix(u, "data:image/") && strings.Contains(u, ";base64,")
}

// FormatFileSize renders n bytes for display, e.g. "1.5 kB".
func FormatFileSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
