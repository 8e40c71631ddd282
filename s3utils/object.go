package s3utils

import (
	"encoding/base64"
	"encoding/json"
)

// Object is a fetched S3 object with its body fully in memory.
type Object struct {
	contentType string
	buf         []byte
}

// ContentType returns the object's content type, empty when the response
// carried none.
func (o *Object) ContentType() string {
	return o.contentType
}

// Bytes returns the raw body.
func (o *Object) Bytes() []byte {
	return o.buf
}

// String returns the body as a string.
func (o *Object) String() string {
	return string(o.buf)
}

// Base64String returns the body encoded as standard base64.
func (o *Object) Base64String() string {
	return base64.StdEncoding.EncodeToString(o.buf)
}

// DecodeJSON unmarshals the body into v.
func (o *Object) DecodeJSON(v any) error {
	return json.Unmarshal(o.buf, v)
}
