// Package http serves the wallet JSON API.
//
// This file decodes request bodies. Clients send loosely typed JSON: numbers
// and strings are interchangeable for field values, and null means absent.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"sheetwallet/internal/core"
)

const maxBodyBytes = 1 << 20

var errNotObject = core.Invalid("request body must be a JSON object")

// RequestBody is a decoded JSON object keyed by field name.
type RequestBody map[string]json.RawMessage

// ParseRequestBody reads r's body as a JSON object. An empty body decodes to
// an empty object.
func ParseRequestBody(w http.ResponseWriter, r *http.Request) (RequestBody, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, core.Invalid("request body too large")
		}
		return nil, fmt.Errorf("read request body: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return RequestBody{}, nil
	}
	if raw[0] != '{' {
		return nil, errNotObject
	}
	body := RequestBody{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, core.Invalid("invalid JSON body")
	}
	return body, nil
}

// Has reports whether key is present with a non-null value.
func (b RequestBody) Has(key string) bool {
	v, ok := b[key]
	return ok && !isNull(v)
}

// String returns the field as text. Absent and null fields return nil;
// objects and arrays are rejected.
func (b RequestBody) String(key string) (*string, error) {
	v, ok := b[key]
	if !ok || isNull(v) {
		return nil, nil
	}
	s, err := scalarText(v)
	if err != nil {
		return nil, core.Invalid(fmt.Sprintf("%s must be a string or number", key))
	}
	s = sanitizeInput(s)
	return &s, nil
}

// Strings fills each target from the field of the same key.
func (b RequestBody) Strings(targets map[string]**string) error {
	for key, dst := range targets {
		v, err := b.String(key)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func scalarText(v json.RawMessage) (string, error) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return "", errNotObject
	}
	switch v[0] {
	case '"':
		var s string
		err := json.Unmarshal(v, &s)
		return s, err
	case 't', 'f':
		var bv bool
		if err := json.Unmarshal(v, &bv); err != nil {
			return "", err
		}
		return strconv.FormatBool(bv), nil
	case '{', '[':
		return "", errNotObject
	default:
		var n json.Number
		if err := json.Unmarshal(v, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}

// sanitizeInput drops control characters other than tab and newlines.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
