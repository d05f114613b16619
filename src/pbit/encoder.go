package pbit

import (
	"encoding/json"

	"golang.org/x/text/encoding/unicode"
)

// -----------------------------------------------------------------------------
// Part encoder
//
// Serializes a part payload into the exact byte sequence stored at its path.
// The model schema, layout and settings parts must be UTF-16 little-endian
// with no byte-order mark; theme and metadata are plain UTF-8 JSON.
// -----------------------------------------------------------------------------

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// EncodePart serializes value as pretty-printed JSON and transcodes it per
// the part table entry for path. Failures are reported as *EncodeError
// naming the offending path.
func EncodePart(path string, value interface{}) ([]byte, error) {
	spec, err := PartByPath(path)
	if err != nil {
		return nil, &EncodeError{Path: path, Err: err}
	}

	if spec.Encoding == EncodeBinary {
		// Binary parts are literal constants, never derived from input.
		return spec.Skeleton, nil
	}

	text, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, &EncodeError{Path: path, Err: err}
	}

	if spec.Encoding == EncodeUTF8 {
		return text, nil
	}

	wide, err := utf16le.NewEncoder().Bytes(text)
	if err != nil {
		return nil, &EncodeError{Path: path, Err: err}
	}
	return wide, nil
}

// -----------------------------------------------------------------------------

// DecodePart reverses EncodePart for a part's stored bytes, returning UTF-8
// JSON text. Used by tests and the offline harness to inspect archives.
func DecodePart(path string, data []byte) ([]byte, error) {
	spec, err := PartByPath(path)
	if err != nil {
		return nil, &EncodeError{Path: path, Err: err}
	}

	if spec.Encoding != EncodeUTF16LE {
		return data, nil
	}

	narrow, err := utf16le.NewDecoder().Bytes(data)
	if err != nil {
		return nil, &EncodeError{Path: path, Err: err}
	}
	return narrow, nil
}
