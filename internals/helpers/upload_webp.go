package helper

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	maxUploadBytes = 8 << 20
	maxImageWidth  = 1600
	webpQuality    = 85
)

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func sanitizeFilename(filename string) string {
	return unsafeName.ReplaceAllString(filename, "_")
}

// GenerateUniqueFilename: <folder>/<yyyymmdd>-<uuid>-<name>
func GenerateUniqueFilename(folder, originalFilename string) string {
	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("%s/%s-%s-%s", folder, timestamp, uuid.New().String(), sanitizeFilename(originalFilename))
}

// DecodeImage reads jpeg, png or webp bytes.
func DecodeImage(all []byte) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	if img, err := webp.Decode(bytes.NewReader(all)); err == nil {
		return img, nil
	}
	img, _, err := image.Decode(bytes.NewReader(all))
	if err != nil {
		return nil, fmt.Errorf("unsupported image: %w", err)
	}
	return img, nil
}

// EncodeWebP downsizes wide images and re-encodes them as lossy webp.
func EncodeWebP(img image.Image) ([]byte, error) {
	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: webpQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveImageAsWebP converts an uploaded image and writes it under baseDir/folder.
// It returns the relative path, always ending in .webp.
func SaveImageAsWebP(fh *multipart.FileHeader, baseDir, folder string) (string, error) {
	if fh.Size > maxUploadBytes {
		return "", fmt.Errorf("file too large (%d KB)", fh.Size/1024)
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	all, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	img, err := DecodeImage(all)
	if err != nil {
		return "", err
	}
	out, err := EncodeWebP(img)
	if err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}

	name := strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename)) + ".webp"
	rel := GenerateUniqueFilename(folder, name)
	full := filepath.Join(baseDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, out, 0o644); err != nil {
		return "", err
	}
	return rel, nil
}
