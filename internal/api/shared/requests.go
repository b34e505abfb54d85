package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/catalog-api/internal/media"
)

// ErrInvalidBody is returned when a request body cannot be decoded.
var ErrInvalidBody = errors.New("invalid request body")

// Form field names under which product images are uploaded.
var imageFields = []string{"images[]", "images"}

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// Fields holds scalar request fields as strings. A field that was not sent is
// absent from the map.
type Fields map[string]string

// Get returns a pointer to the value of name, or nil if it was not sent.
func (f Fields) Get(name string) *string {
	v, ok := f[name]
	if !ok {
		return nil
	}
	return &v
}

// ReadFields reads the scalar fields of a JSON, urlencoded or multipart body.
// JSON numbers and booleans are converted to their text form and null to the
// empty string. An empty body yields no fields.
func ReadFields(r *http.Request, maxMemory int64) (Fields, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		return formFields(r.MultipartForm.Value), nil
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		return formFields(r.PostForm), nil
	default:
		return readJSONFields(r.Body)
	}
}

func formFields(values map[string][]string) Fields {
	out := make(Fields, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func readJSONFields(body io.Reader) (Fields, error) {
	if body == nil {
		return Fields{}, nil
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Fields{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	out := make(Fields, len(values))
	for k, v := range values {
		switch val := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = val
		case json.Number:
			out[k] = val.String()
		case bool:
			out[k] = strconv.FormatBool(val)
		default:
			// Objects and arrays keep their JSON text so validation rejects them.
			encoded, _ := json.Marshal(val)
			out[k] = string(encoded)
		}
	}
	return out, nil
}

// ReadUploads returns the image files of a parsed multipart request. At most
// maxBytes+1 bytes of each file are read; the size declared by the client is
// kept on the upload so oversized files are still reported as such.
func ReadUploads(r *http.Request, maxBytes int64) ([]media.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var uploads []media.Upload
	for _, field := range imageFields {
		for _, fh := range r.MultipartForm.File[field] {
			u, err := readUpload(fh, maxBytes)
			if err != nil {
				return nil, err
			}
			uploads = append(uploads, u)
		}
	}
	return uploads, nil
}

func readUpload(fh *multipart.FileHeader, maxBytes int64) (media.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return media.Upload{}, fmt.Errorf("%w: open %s: %v", ErrInvalidBody, fh.Filename, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return media.Upload{}, fmt.Errorf("%w: read %s: %v", ErrInvalidBody, fh.Filename, err)
	}
	return media.Upload{FileName: fh.Filename, Size: fh.Size, Data: data}, nil
}

// PageParam returns the "page" query parameter. Missing or malformed values
// yield page 1.
func PageParam(r *http.Request) int {
	page, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("page")))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// QueryParam returns a pointer to a query parameter, or nil if it is absent.
func QueryParam(r *http.Request, name string) *string {
	values, ok := r.URL.Query()[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// IDParam parses a positive integer path parameter.
func IDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
