package media

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"
)

// ErrUnsupportedMediaType rejects uploads whose filename maps to a type the
// board does not accept.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// ErrInvalidMedia rejects uploads whose bytes do not decode as the declared
// image type. The stored file is removed before this is returned.
var ErrInvalidMedia = errors.New("invalid media content")

// ErrMediaTooLarge rejects uploads exceeding the configured byte cap.
var ErrMediaTooLarge = errors.New("media too large")

// Accepted subtypes. Videos are stored as-is without content validation;
// only the extension/MIME classification gates them.
var (
	imageSubtypes = map[string]bool{"jpeg": true, "png": true, "gif": true, "webp": true}
	videoSubtypes = map[string]bool{"mp4": true}
)

// fallbackTypes covers extensions the platform mime table may not know.
var fallbackTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
}

// classify maps a client filename to a (top, subtype) MIME pair, best
// effort from the extension. It returns ErrUnsupportedMediaType when the
// result is neither an accepted image nor an accepted video.
func classify(filename string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	mt := mime.TypeByExtension(ext)
	if mt == "" {
		mt = fallbackTypes[ext]
	}
	if mt == "" {
		return "", "", ErrUnsupportedMediaType
	}
	mt, _, err := mime.ParseMediaType(mt)
	if err != nil {
		return "", "", ErrUnsupportedMediaType
	}
	top, sub, ok := strings.Cut(mt, "/")
	if !ok {
		return "", "", ErrUnsupportedMediaType
	}
	switch top {
	case "image":
		if !imageSubtypes[sub] {
			return "", "", ErrUnsupportedMediaType
		}
	case "video":
		if !videoSubtypes[sub] {
			return "", "", ErrUnsupportedMediaType
		}
	default:
		return "", "", ErrUnsupportedMediaType
	}
	return top, sub, nil
}
