package media

import (
	"fmt"
	"image"
	_ "image/gif" // register gif decoder
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register webp decoder

	"imageboard/pkg/config"
	"imageboard/pkg/logger"
	"imageboard/pkg/models"
)

// Thumbnails are bounded to this square, aspect ratio preserved.
const thumbMaxDim = 200

// partSuffix marks in-flight uploads. A .part file never backs a public
// URL; the sweeper reclaims stale ones left by aborted requests.
const partSuffix = ".part"

// Pipeline validates, stores, and derives thumbnails for uploaded media.
type Pipeline struct {
	ImageDir       string
	VideoDir       string
	ThumbDir       string
	MaxUploadBytes int64 // 0 = unlimited
}

// New builds a Pipeline from the media configuration.
func New(cfg config.MediaConfig) *Pipeline {
	return &Pipeline{
		ImageDir:       cfg.ImageDir,
		VideoDir:       cfg.VideoDir,
		ThumbDir:       cfg.ThumbDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
}

// EnsureDirs creates the upload and thumbnail directories if absent.
func (p *Pipeline) EnsureDirs() error {
	for _, dir := range []string{p.ImageDir, p.VideoDir, p.ThumbDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create media dir %s: %w", dir, err)
		}
	}
	return nil
}

// Stored describes a successfully ingested attachment: the Media record to
// persist on the thread, plus the on-disk files backing it so the caller
// can Discard them if thread creation is rejected afterwards.
type Stored struct {
	Media models.Media
	paths []string
}

// Discard removes the stored files. Used when validation fails after the
// upload was already written, so no unreferenced media lingers.
func (s *Stored) Discard() {
	for _, path := range s.paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("media_discard_failed", "file", path, "error", err)
		}
	}
}

// Ingest consumes a streamed upload named by the client-supplied filename.
// An empty or whitespace-only filename means "no attachment" and returns
// (nil, nil). On success the returned Stored carries the public URL the
// static file server exposes. All filesystem failures abort before any
// database record references the file.
func (p *Pipeline) Ingest(filename string, r io.Reader) (*Stored, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, nil
	}
	top, sub, err := classify(filename)
	if err != nil {
		ingestTotal.WithLabelValues("none", "rejected").Inc()
		return nil, err
	}
	unique := uuid.NewString() + "." + sub

	switch top {
	case "image":
		return p.ingestImage(unique, sub, r)
	default:
		return p.ingestVideo(unique, r)
	}
}

func (p *Pipeline) ingestImage(name, sub string, r io.Reader) (*Stored, error) {
	final := filepath.Join(p.ImageDir, name)
	part := final + partSuffix
	if err := p.streamTo(part, r); err != nil {
		ingestTotal.WithLabelValues("image", "error").Inc()
		return nil, err
	}

	img, err := decodeImageFile(part)
	if err != nil {
		_ = os.Remove(part)
		ingestTotal.WithLabelValues("image", "invalid").Inc()
		logger.Warn("media_decode_failed", "file", name, "error", err)
		return nil, ErrInvalidMedia
	}
	if err := os.Rename(part, final); err != nil {
		_ = os.Remove(part)
		ingestTotal.WithLabelValues("image", "error").Inc()
		return nil, fmt.Errorf("finalize upload %s: %w", name, err)
	}

	st := &Stored{
		Media: models.Media{URL: "/uploads/images/" + name, Kind: models.MediaImage},
		paths: []string{final},
	}
	if sub == "gif" {
		// animated uploads keep the original only
		ingestTotal.WithLabelValues("image", "ok").Inc()
		logger.Info("media_stored", "file", name, "kind", "image", "thumb", false)
		return st, nil
	}

	thumbName, err := p.writeThumb(name, sub, img)
	if err != nil {
		// fall back to the original; the board still renders
		logger.Warn("thumbnail_failed", "file", name, "error", err)
		ingestTotal.WithLabelValues("image", "ok").Inc()
		return st, nil
	}
	st.Media.URL = "/thumbs/images/" + thumbName
	st.paths = append(st.paths, filepath.Join(p.ThumbDir, thumbName))
	ingestTotal.WithLabelValues("image", "ok").Inc()
	logger.Info("media_stored", "file", name, "kind", "image", "thumb", true)
	return st, nil
}

func (p *Pipeline) ingestVideo(name string, r io.Reader) (*Stored, error) {
	final := filepath.Join(p.VideoDir, name)
	part := final + partSuffix
	if err := p.streamTo(part, r); err != nil {
		ingestTotal.WithLabelValues("video", "error").Inc()
		return nil, err
	}
	if err := os.Rename(part, final); err != nil {
		_ = os.Remove(part)
		ingestTotal.WithLabelValues("video", "error").Inc()
		return nil, fmt.Errorf("finalize upload %s: %w", name, err)
	}
	ingestTotal.WithLabelValues("video", "ok").Inc()
	logger.Info("media_stored", "file", name, "kind", "video")
	return &Stored{
		Media: models.Media{URL: "/uploads/videos/" + name, Kind: models.MediaVideo},
		paths: []string{final},
	}, nil
}

// streamTo copies the upload chunk-by-chunk into path, enforcing the byte
// cap. The partial file is removed on any failure.
func (p *Pipeline) streamTo(path string, r io.Reader) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	src := r
	if p.MaxUploadBytes > 0 {
		src = io.LimitReader(r, p.MaxUploadBytes+1)
	}
	n, err := io.Copy(f, src)
	cerr := f.Close()
	if err == nil && cerr != nil {
		err = cerr
	}
	if err == nil && p.MaxUploadBytes > 0 && n > p.MaxUploadBytes {
		err = ErrMediaTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		if err == ErrMediaTooLarge {
			return err
		}
		return fmt.Errorf("write upload: %w", err)
	}
	return nil
}

// writeThumb scales img to fit thumbMaxDim and stores it under the thumbs
// directory as "thumb_<name>". Webp thumbnails are re-encoded as PNG since
// the standard toolchain has no webp encoder.
func (p *Pipeline) writeThumb(name, sub string, img image.Image) (string, error) {
	thumbName := "thumb_" + name
	if sub == "webp" {
		thumbName = strings.TrimSuffix(thumbName, ".webp") + ".png"
	}
	path := filepath.Join(p.ThumbDir, thumbName)

	dst := scaleToFit(img, thumbMaxDim)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	switch sub {
	case "jpeg":
		err = jpeg.Encode(f, dst, &jpeg.Options{Quality: 85})
	default:
		err = png.Encode(f, dst)
	}
	cerr := f.Close()
	if err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return thumbName, nil
}

// scaleToFit downscales img so neither dimension exceeds maxDim, keeping
// aspect ratio. Images already within bounds are returned unchanged.
func scaleToFit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	tw, th := maxDim, maxDim
	if w > h {
		th = h * maxDim / w
	} else {
		tw = w * maxDim / h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// decodeImageFile fully decodes the stored file as an image. The gif, jpeg,
// png, and webp decoders are registered via imports.
func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}
