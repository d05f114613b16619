package pbit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePart_UTF16LENoBOM(t *testing.T) {
	doc := SettingsDoc{Locale: "en-US"}

	payload, err := EncodePart(PathSettings, doc)
	require.NoError(t, err)

	// Two bytes per code unit, no byte-order mark.
	require.True(t, len(payload) >= 4)
	assert.Equal(t, 0, len(payload)%2, "UTF-16LE payload must have even length")
	assert.NotEqual(t, []byte{0xFF, 0xFE}, payload[:2], "payload must not start with a BOM")
	assert.Equal(t, byte('{'), payload[0])
	assert.Equal(t, byte(0x00), payload[1], "second byte of '{' in little-endian must be zero")

	// Round-trips to the pretty-printed JSON text.
	narrow, err := DecodePart(PathSettings, payload)
	require.NoError(t, err)

	expected, err := json.MarshalIndent(doc, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, expected, narrow)
}

func TestEncodePart_UTF8(t *testing.T) {
	doc := map[string]string{"type": "Report"}

	payload, err := EncodePart(PathMetadata, doc)
	require.NoError(t, err)

	expected, err := json.MarshalIndent(doc, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, expected, payload)
}

func TestEncodePart_BinaryIsConstant(t *testing.T) {
	payload, err := EncodePart(PathVersion, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x13}, payload)
}

func TestEncodePart_UnknownPath(t *testing.T) {
	_, err := EncodePart("Report/Unknown", nil)
	require.Error(t, err)

	var encErr *EncodeError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "Report/Unknown", encErr.Path)
}

func TestEncodePart_MarshalFailure(t *testing.T) {
	_, err := EncodePart(PathSettings, make(chan int))
	require.Error(t, err)

	var encErr *EncodeError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, PathSettings, encErr.Path)
}
