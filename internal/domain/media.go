package domain

import "time"

// ProductMediaCollection is the collection name product images are stored under.
const ProductMediaCollection = "products"

// Media is an uploaded image owned by one product, together with the storage
// keys of its generated conversions.
type Media struct {
	ID          int64             `json:"id"`
	ProductID   int64             `json:"product_id"`
	Collection  string            `json:"collection_name"`
	FileName    string            `json:"file_name"`
	MimeType    string            `json:"mime_type"`
	Size        int64             `json:"size"`
	Disk        string            `json:"disk"`
	OriginalKey string            `json:"-"`
	Conversions map[string]string `json:"-"`
	OrderColumn int               `json:"order_column"`
	CreatedAt   time.Time         `json:"created_at"`

	// URLs is resolved by the media library at read time and never stored.
	URLs MediaURLs `json:"urls"`
}

// MediaURLs holds the public URLs of an image and its conversions.
type MediaURLs struct {
	Original string `json:"original"`
	Normal   string `json:"normal,omitempty"`
	Thumb    string `json:"thumb,omitempty"`
}

// Keys returns every storage key the media item occupies.
func (m *Media) Keys() []string {
	keys := make([]string, 0, len(m.Conversions)+1)
	if m.OriginalKey != "" {
		keys = append(keys, m.OriginalKey)
	}
	for _, k := range m.Conversions {
		keys = append(keys, k)
	}
	return keys
}
