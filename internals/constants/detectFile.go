package constants

import (
	"path/filepath"
	"strings"
)

const (
	MediaTypeImage = "IMAGE"
	MediaTypeVideo = "VIDEO"
	MediaTypeFile  = "FILE"
)

// DetectMediaTypeFromExt maps a filename or URL to the news-feed media type.
func DetectMediaTypeFromExt(filename string) string {
	if i := strings.IndexAny(filename, "?#"); i >= 0 {
		filename = filename[:i]
	}
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return MediaTypeImage
	case ".mp4", ".webm", ".mov":
		return MediaTypeVideo
	default:
		return MediaTypeFile
	}
}

func IsDecodableImageExt(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return true
	}
	return false
}
