package media_test

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/media"
	"github.com/phrazzld/catalog-api/internal/mocks"
	"github.com/phrazzld/catalog-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngUpload(t *testing.T, name string) media.Upload {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(64, 32, color.NRGBA{G: 255, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return media.Upload{FileName: name, Size: int64(buf.Len()), Data: buf.Bytes()}
}

func TestNewLibraryPanicsWithoutStorage(t *testing.T) {
	assert.Panics(t, func() { media.NewLibrary(nil, nil, 1024, nil) })
}

func TestLibraryValidate(t *testing.T) {
	t.Parallel()

	lib := media.NewLibrary(mocks.NewMemoryStorage(), nil, 1024*1024, nil)
	good := pngUpload(t, "ok.png")
	huge := pngUpload(t, "huge.png")
	huge.Size = 2 * 1024 * 1024

	v := validation.New()
	lib.Validate(v, "images", []media.Upload{
		good,
		{FileName: "notes.txt", Data: []byte("plain text")},
		huge,
	})

	err := v.Err()
	require.Error(t, err)
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))

	byField := verrs.ByField()
	assert.NotContains(t, byField, "images.0")
	assert.Equal(t, []string{"The images.1 field must be an image."}, byField["images.1"])
	assert.Equal(t, []string{"The images.2 field must not be greater than 1024 kilobytes."}, byField["images.2"])
}

func TestLibraryAttach(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	storage := mocks.NewMemoryStorage()
	ms := mocks.NewMockMediaStore()
	lib := media.NewLibrary(storage, nil, 1024*1024, nil)

	items, err := lib.Attach(ctx, ms, 7, []media.Upload{
		pngUpload(t, "front view.png"),
		pngUpload(t, "../../back.png"),
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, ms.Len())

	// One original and two conversions per image.
	assert.Len(t, storage.Keys(), 6)

	first := items[0]
	assert.Equal(t, int64(7), first.ProductID)
	assert.Equal(t, domain.ProductMediaCollection, first.Collection)
	assert.Equal(t, "front-view.png", first.FileName)
	assert.Equal(t, "image/png", first.MimeType)
	assert.Equal(t, "memory", first.Disk)
	assert.Equal(t, 1, first.OrderColumn)
	assert.True(t, strings.HasPrefix(first.OriginalKey, "products/7/"))
	assert.True(t, strings.HasSuffix(first.OriginalKey, "/front-view.png"))
	assert.True(t, strings.HasSuffix(first.Conversions[media.ConversionThumb], "/conversions/front-view-thumb.jpg"))
	assert.Equal(t, "http://media.test/"+first.OriginalKey, first.URLs.Original)
	assert.Equal(t, "http://media.test/"+first.Conversions[media.ConversionNormal], first.URLs.Normal)

	second := items[1]
	assert.Equal(t, "back.png", second.FileName)
	assert.Equal(t, 2, second.OrderColumn)

	for _, key := range first.Keys() {
		_, ok := storage.Get(key)
		assert.True(t, ok, key)
	}
}

func TestLibraryAttachCleansUpOnFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("storage failure", func(t *testing.T) {
		storage := mocks.NewMemoryStorage()
		storage.PutErr = errors.New("disk full")
		storage.FailAfter = 4
		ms := mocks.NewMockMediaStore()
		lib := media.NewLibrary(storage, nil, 1024*1024, nil)

		_, err := lib.Attach(ctx, ms, 1, []media.Upload{pngUpload(t, "a.png"), pngUpload(t, "b.png")})
		require.Error(t, err)
		assert.Empty(t, storage.Keys())
	})

	t.Run("media store failure", func(t *testing.T) {
		storage := mocks.NewMemoryStorage()
		ms := mocks.NewMockMediaStore()
		ms.CreateFn = func(context.Context, *domain.Media) error { return errors.New("insert failed") }
		lib := media.NewLibrary(storage, nil, 1024*1024, nil)

		_, err := lib.Attach(ctx, ms, 1, []media.Upload{pngUpload(t, "a.png")})
		require.Error(t, err)
		assert.Empty(t, storage.Keys())
	})

	t.Run("undecodable image", func(t *testing.T) {
		storage := mocks.NewMemoryStorage()
		lib := media.NewLibrary(storage, nil, 1024*1024, nil)

		_, err := lib.Attach(ctx, mocks.NewMockMediaStore(), 1, []media.Upload{{FileName: "x.png", Data: []byte("junk")}})
		require.Error(t, err)
		assert.Empty(t, storage.Keys())
	})
}

func TestLibraryDetachAndPurge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	storage := mocks.NewMemoryStorage()
	ms := mocks.NewMockMediaStore()
	lib := media.NewLibrary(storage, nil, 1024*1024, nil)

	_, err := lib.Attach(ctx, ms, 3, []media.Upload{pngUpload(t, "a.png")})
	require.NoError(t, err)
	_, err = lib.Attach(ctx, ms, 4, []media.Upload{pngUpload(t, "b.png")})
	require.NoError(t, err)

	removed, err := lib.Detach(ctx, ms, 3)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, 1, ms.Len())
	assert.Len(t, storage.Keys(), 6, "detach leaves objects in place")

	require.NoError(t, lib.Purge(ctx, removed))
	assert.Len(t, storage.Keys(), 3)
	require.NoError(t, lib.Purge(ctx, nil))
}

func TestLibraryResolveURLs(t *testing.T) {
	t.Parallel()

	lib := media.NewLibrary(mocks.NewMemoryStorage(), nil, 1024, nil)
	m := &domain.Media{
		OriginalKey: "products/1/x/a.png",
		Conversions: map[string]string{media.ConversionThumb: "products/1/x/conversions/a-thumb.jpg"},
	}
	lib.ResolveURLs(m)

	assert.Equal(t, "http://media.test/products/1/x/a.png", m.URLs.Original)
	assert.Equal(t, "http://media.test/products/1/x/conversions/a-thumb.jpg", m.URLs.Thumb)
	assert.Empty(t, m.URLs.Normal)
}
