package media

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/redact"
	"github.com/phrazzld/catalog-api/internal/store"
	"github.com/phrazzld/catalog-api/internal/validation"
)

// Upload is an image received from a client.
type Upload struct {
	FileName string
	// Size is the size reported by the client; Data holds the content.
	Size int64
	Data []byte
}

// acceptedTypes are the sniffed content types accepted as images.
var acceptedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/bmp":  true,
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Library attaches uploaded images to products. Originals and conversions are
// written to a Storage and their keys recorded through a store.MediaStore.
type Library struct {
	storage   Storage
	processor *Processor
	maxBytes  int64
	logger    *slog.Logger
}

// NewLibrary creates a Library. maxBytes is the per-image upload limit.
func NewLibrary(storage Storage, processor *Processor, maxBytes int64, logger *slog.Logger) *Library {
	if storage == nil {
		panic("storage cannot be nil")
	}
	if processor == nil {
		processor = NewProcessor()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{
		storage:   storage,
		processor: processor,
		maxBytes:  maxBytes,
		logger:    logger.With(slog.String("component", "media_library")),
	}
}

// Validate records a failure on v for every upload that is too large or not
// a supported image. Failures are keyed "<field>.<index>".
func (l *Library) Validate(v *validation.Validator, field string, uploads []Upload) {
	for i, u := range uploads {
		key := fmt.Sprintf("%s.%d", field, i)
		if !acceptedTypes[sniff(u.Data)] {
			v.Add(key, validation.NotImage(key))
			continue
		}
		if size(u) > l.maxBytes {
			v.Add(key, validation.TooLarge(key, l.maxBytes/1024))
		}
	}
}

// Attach stores every upload with its conversions and creates a media row for
// each through ms. On failure the objects written so far are removed. The
// returned media have their URLs resolved.
func (l *Library) Attach(
	ctx context.Context,
	ms store.MediaStore,
	productID int64,
	uploads []Upload,
) ([]*domain.Media, error) {
	log := logger.FromContextOrDefault(ctx, l.logger)

	items := make([]*domain.Media, 0, len(uploads))
	var written []string
	fail := func(err error) ([]*domain.Media, error) {
		if len(written) > 0 {
			if perr := l.storage.Delete(ctx, written...); perr != nil {
				log.Error("failed to remove objects of a failed upload",
					slog.Int64("product_id", productID),
					slog.String("error", redact.Error(perr)))
			}
		}
		return nil, err
	}

	for i, u := range uploads {
		variants, err := l.processor.Convert(u.Data)
		if err != nil {
			return fail(fmt.Errorf("image %d: %w", i, err))
		}

		dir := fmt.Sprintf("%s/%d/%s", domain.ProductMediaCollection, productID, uuid.NewString())
		fileName := safeFileName(u.FileName)
		mimeType := sniff(u.Data)

		m := &domain.Media{
			ProductID:   productID,
			Collection:  domain.ProductMediaCollection,
			FileName:    fileName,
			MimeType:    mimeType,
			Size:        int64(len(u.Data)),
			Disk:        l.storage.Name(),
			OriginalKey: dir + "/" + fileName,
			Conversions: make(map[string]string, len(variants)),
			OrderColumn: i + 1,
		}

		if err := l.storage.Put(ctx, m.OriginalKey, u.Data, mimeType); err != nil {
			return fail(err)
		}
		written = append(written, m.OriginalKey)

		base := strings.TrimSuffix(fileName, path.Ext(fileName))
		for _, c := range l.processor.Conversions() {
			key := fmt.Sprintf("%s/conversions/%s-%s.jpg", dir, base, c.Name)
			if err := l.storage.Put(ctx, key, variants[c.Name], "image/jpeg"); err != nil {
				return fail(err)
			}
			written = append(written, key)
			m.Conversions[c.Name] = key
		}

		if err := ms.Create(ctx, m); err != nil {
			return fail(err)
		}
		l.ResolveURLs(m)
		items = append(items, m)
	}

	log.Debug("attached product images",
		slog.Int64("product_id", productID),
		slog.Int("count", len(items)))
	return items, nil
}

// Detach deletes the media rows of a product and returns them. The stored
// objects are left in place so they survive a rolled back transaction; pass
// the result to Purge once the change is committed.
func (l *Library) Detach(ctx context.Context, ms store.MediaStore, productID int64) ([]*domain.Media, error) {
	return ms.DeleteByProduct(ctx, productID)
}

// Purge removes the stored objects of items.
func (l *Library) Purge(ctx context.Context, items []*domain.Media) error {
	var keys []string
	for _, m := range items {
		keys = append(keys, m.Keys()...)
	}
	if len(keys) == 0 {
		return nil
	}
	return l.storage.Delete(ctx, keys...)
}

// ResolveURLs fills the public URLs of m.
func (l *Library) ResolveURLs(m *domain.Media) {
	m.URLs = domain.MediaURLs{Original: l.storage.URL(m.OriginalKey)}
	if key, ok := m.Conversions[ConversionNormal]; ok {
		m.URLs.Normal = l.storage.URL(key)
	}
	if key, ok := m.Conversions[ConversionThumb]; ok {
		m.URLs.Thumb = l.storage.URL(key)
	}
}

func sniff(data []byte) string {
	return http.DetectContentType(data)
}

func size(u Upload) int64 {
	if n := int64(len(u.Data)); n > u.Size {
		return n
	}
	return u.Size
}

func safeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Trim(unsafeFileChars.ReplaceAllString(name, "-"), "-.")
	if name == "" {
		return "image"
	}
	return name
}
