package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultDocumentMIMEType is used when the picker does not report a type.
	DefaultDocumentMIMEType = "image/jpeg"

	// MaxDocumentBytes caps an uploaded document image.
	MaxDocumentBytes = 10 << 20
)

// DocumentAsset is the selected identity-document image. It is replaced
// wholesale on every selection and never mutated in place.
type DocumentAsset struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mime_type,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// IsZero reports whether no document has been selected.
func (d DocumentAsset) IsZero() bool {
	return d == DocumentAsset{}
}

// HasURI reports whether the asset points at a resource on the device. The
// uri is a descriptor only; the server never dereferences it.
func (d DocumentAsset) HasURI() bool {
	return strings.TrimSpace(d.URI) != ""
}

// TypeOrDefault returns the reported MIME type or DefaultDocumentMIMEType.
func (d DocumentAsset) TypeOrDefault() string {
	if t := strings.TrimSpace(d.MIMEType); t != "" {
		return t
	}
	return DefaultDocumentMIMEType
}

// NameOrDefault returns the reported file name or a timestamped fallback.
func (d DocumentAsset) NameOrDefault(now time.Time) string {
	if n := strings.TrimSpace(d.FileName); n != "" {
		return n
	}
	return fmt.Sprintf("cnic_%d.jpg", now.UnixMilli())
}
