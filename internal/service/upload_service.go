package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"math/rand/v2"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"folio/internal/config"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/observability"

	"github.com/chai2010/webp"
	"go.opentelemetry.io/otel/attribute"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	// MaxUploadSizeMB is the per-file upload ceiling.
	MaxUploadSizeMB    = 5
	MaxUploadSizeBytes = MaxUploadSizeMB * 1024 * 1024
	// PublicUploadPrefix is the URL prefix stored files are served under.
	PublicUploadPrefix = "/uploads"
	// MsgUnexpectedField rejects files sent under a field that is not accepted.
	MsgUnexpectedField = "Unexpected field name for file upload."
	JPEGQuality        = 82
	WebPQuality        = 80
)

// Upload directories.
const (
	DirTestimonials = "testimonials"
	DirProjects     = "projects"
	DirBlogs        = "blogs"
	DirMisc         = "misc"
)

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadInput is one multipart file part.
type UploadInput struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// StoredFile describes a file written to the upload area.
type StoredFile struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"sizeBytes"`
	MimeType  string `json:"mimeType"`
}

// FileStore saves and removes uploaded files.
type FileStore interface {
	Save(ctx context.Context, in UploadInput) (*StoredFile, error)
	Remove(ctx context.Context, publicPath string) error
}

// UploadService writes validated image uploads below the upload root.
type UploadService struct {
	root         string
	maxDimension int
	now          func() time.Time
	suffix       func() int64
}

// NewUploadService returns an UploadService rooted at UPLOAD_DIR.
func NewUploadService(cfg *config.Config) *UploadService {
	root := "uploads"
	maxDimension := 0
	if cfg != nil {
		if cfg.UploadDir != "" {
			root = cfg.UploadDir
		}
		maxDimension = cfg.UploadMaxDimension
	}
	return &UploadService{
		root:         root,
		maxDimension: maxDimension,
		now:          time.Now,
		suffix:       func() int64 { return rand.Int64N(1e9) },
	}
}

// Root returns the directory files are written to.
func (s *UploadService) Root() string {
	return s.root
}

// DirForField maps a form field name to its upload directory.
func DirForField(field string) string {
	switch field {
	case "image", "testimonialImage":
		return DirTestimonials
	case "projectImage":
		return DirProjects
	case "blogImage":
		return DirBlogs
	default:
		return DirMisc
	}
}

// Save validates and stores one file. Nothing is written when validation fails.
func (s *UploadService) Save(ctx context.Context, in UploadInput) (_ *StoredFile, err error) {
	dir := DirForField(in.Field)
	ctx, span := observability.StartSpan(ctx, "upload", "save",
		attribute.String("upload.dir", dir),
		attribute.Int("upload.size", len(in.Content)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if !validFieldName(in.Field) {
		observability.UploadsTotal.WithLabelValues(dir, observability.ResultRejected).Inc()
		return nil, models.NewValidationError(MsgUnexpectedField)
	}
	if len(in.Content) == 0 {
		observability.UploadsTotal.WithLabelValues(dir, observability.ResultRejected).Inc()
		return nil, models.NewValidationError("No file uploaded")
	}
	if len(in.Content) > MaxUploadSizeBytes {
		observability.UploadsTotal.WithLabelValues(dir, observability.ResultRejected).Inc()
		return nil, models.NewFileTooLargeError(MaxUploadSizeMB)
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	mimeType := normalizeContentType(in.ContentType)
	if mimeType == "" {
		mimeType = normalizeContentType(http.DetectContentType(in.Content))
	}
	if !allowedExtensions[ext] || !isAllowedImageMIME(mimeType) {
		observability.UploadsTotal.WithLabelValues(dir, observability.ResultRejected).Inc()
		return nil, models.NewInvalidFileTypeError()
	}

	content := s.downscale(ctx, in.Content)

	name := fmt.Sprintf("%s-%d-%d%s", in.Field, s.now().UnixMilli(), s.suffix(), ext)
	if err := writeBytesToFile(filepath.Join(s.root, dir, name), content); err != nil {
		observability.UploadsTotal.WithLabelValues(dir, observability.ResultError).Inc()
		return nil, models.NewInternalError(err)
	}

	observability.UploadsTotal.WithLabelValues(dir, observability.ResultSuccess).Inc()
	return &StoredFile{
		Path:      path.Join(PublicUploadPrefix, dir, name),
		SizeBytes: int64(len(content)),
		MimeType:  mimeType,
	}, nil
}

// validFieldName reports whether field can be used as a file name prefix:
// letters, digits, '_' and '-' only.
func validFieldName(field string) bool {
	if field == "" {
		return false
	}
	for _, r := range field {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// IsUploadRef reports whether ref names a file directly inside one of the
// upload directories, e.g. "/uploads/blogs/blogImage-1-2.png".
func IsUploadRef(ref string) bool {
	rel, ok := strings.CutPrefix(ref, PublicUploadPrefix+"/")
	if !ok {
		return false
	}
	dir, name, ok := strings.Cut(rel, "/")
	if !ok {
		return false
	}
	switch dir {
	case DirTestimonials, DirProjects, DirBlogs, DirMisc:
	default:
		return false
	}
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, "/\\")
}

// Remove deletes a stored file. Missing files and references outside the
// upload area are ignored; traversal attempts are refused.
func (s *UploadService) Remove(ctx context.Context, publicPath string) error {
	if !strings.HasPrefix(publicPath, PublicUploadPrefix+"/") {
		return nil
	}
	rel := strings.TrimPrefix(publicPath, PublicUploadPrefix+"/")
	if rel == "" || strings.Contains(rel, "..") {
		return models.NewValidationError("Invalid upload path")
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	within, err := filepath.Rel(s.root, full)
	if err != nil || strings.HasPrefix(within, "..") {
		return models.NewValidationError("Invalid upload path")
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		middleware.Logger.WarnContext(ctx, "failed to remove stored file",
			slog.String("path", publicPath),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// downscale shrinks images wider or taller than maxDimension. Anything it
// cannot decode is stored as received.
func (s *UploadService) downscale(ctx context.Context, content []byte) []byte {
	if s.maxDimension <= 0 {
		return content
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil || format == "gif" {
		return content
	}
	if cfg.Width <= s.maxDimension && cfg.Height <= s.maxDimension {
		return content
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return content
	}
	resized := resizeToFit(decoded, s.maxDimension, s.maxDimension)

	encoded, err := encodeAs(format, resized)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "image re-encode failed, keeping original",
			slog.String("format", format),
			slog.String("error", err.Error()),
		)
		return content
	}
	return encoded
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if scaleH := float64(maxHeight) / float64(h); scaleH < scale {
		scale = scaleH
	}
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeAs(format string, img image.Image) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: JPEGQuality})
	case "png":
		err = png.Encode(buf, img)
	case "webp":
		err = webp.Encode(buf, img, &webp.Options{Quality: WebPQuality})
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		return strings.ToLower(parsed)
	}
	return strings.ToLower(contentType)
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
