package models

import (
	"bytes"
	"io"
)

// Multipart part names of the submission request.
const (
	PartName      = "name"
	PartEmail     = "email"
	PartPassword  = "password"
	PartCNIC      = "cnic"
	PartAddress   = "address"
	PartRole      = "role"
	PartLatitude  = "latitude"
	PartLongitude = "longitude"
	PartDocument  = "document"
)

// PayloadField is one text part of the submission.
type PayloadField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DocumentPart is the file part of the submission.
type DocumentPart struct {
	FieldName string `json:"field_name"`
	URI       string `json:"uri"`
	Type      string `json:"type"`
	Name      string `json:"name"`
}

// SubmissionPayload is the validated bundle handed to the transport. It is
// built once and exposes copies only. The document bytes are the ones the
// client uploaded for the selected asset.
type SubmissionPayload struct {
	fields   []PayloadField
	document DocumentPart
	content  []byte
}

// NewSubmissionPayload freezes fields and document into a payload.
func NewSubmissionPayload(fields []PayloadField, document DocumentPart) SubmissionPayload {
	owned := make([]PayloadField, len(fields))
	copy(owned, fields)
	return SubmissionPayload{fields: owned, document: document}
}

// Fields returns the text parts in submission order.
func (p SubmissionPayload) Fields() []PayloadField {
	out := make([]PayloadField, len(p.fields))
	copy(out, p.fields)
	return out
}

// Value returns the value of the named text part.
func (p SubmissionPayload) Value(name string) (string, bool) {
	for _, f := range p.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Document returns the file part.
func (p SubmissionPayload) Document() DocumentPart {
	return p.document
}

// WithContent returns a copy of p carrying the document bytes.
func (p SubmissionPayload) WithContent(content []byte) SubmissionPayload {
	p.content = bytes.Clone(content)
	return p
}

// Content streams the document bytes.
func (p SubmissionPayload) Content() io.Reader {
	return bytes.NewReader(p.content)
}

// ContentLength is the size of the document bytes; zero means none were
// attached.
func (p SubmissionPayload) ContentLength() int {
	return len(p.content)
}
