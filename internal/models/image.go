package models

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// ImageData is the canonical in-memory representation of an item image: a
// data-URL string, or empty when no image is attached. The backend has been
// observed to ship the same field as a data URL, a bare base64 string, or a
// JSON byte array; normalization happens once here, at the API boundary, so
// the rest of the client only ever sees one shape.
type ImageData string

const defaultImageMIME = "image/png"

func (d ImageData) String() string { return string(d) }

// Bytes decodes the image payload back to raw bytes. Empty image data yields
// a nil slice and no error.
func (d ImageData) Bytes() ([]byte, error) {
	if d == "" {
		return nil, nil
	}
	s := string(d)
	idx := strings.Index(s, ";base64,")
	if !strings.HasPrefix(s, "data:") || idx < 0 {
		return nil, fmt.Errorf("image data is not a base64 data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(s[idx+len(";base64,"):])
	if err != nil {
		return nil, fmt.Errorf("decode image data: %w", err)
	}
	return raw, nil
}

// EncodeImage builds the canonical data URL from raw bytes. An empty mime
// defaults to image/png, matching what the backend assumes.
func EncodeImage(raw []byte, mime string) ImageData {
	if len(raw) == 0 {
		return ""
	}
	if mime == "" {
		mime = defaultImageMIME
	}
	return ImageData(fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(raw)))
}

// NormalizeImage coerces any of the observed wire encodings into the
// canonical data-URL form. Bare base64 gets the default PNG prefix; anything
// unrecognizable normalizes to empty rather than failing, since an image is
// never load-bearing.
func NormalizeImage(value string) ImageData {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "data:") {
		return ImageData(value)
	}
	if _, err := base64.StdEncoding.DecodeString(value); err == nil {
		return ImageData("data:" + defaultImageMIME + ";base64," + value)
	}
	return ""
}

// UnmarshalJSON accepts a string (data URL or bare base64), a JSON byte
// array, or null.
func (d *ImageData) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = NormalizeImage(s)
		return nil
	}
	// Java serializes byte[] as an array of signed ints.
	var nums []int
	if err := json.Unmarshal(data, &nums); err == nil {
		raw := make([]byte, len(nums))
		for i, n := range nums {
			raw[i] = byte(n)
		}
		*d = EncodeImage(raw, "")
		return nil
	}
	// Unknown shape: drop it instead of failing the whole record.
	*d = ""
	return nil
}

// MarshalJSON always emits the canonical data URL, or null when empty.
func (d ImageData) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}
