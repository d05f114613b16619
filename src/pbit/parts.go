package pbit

import (
	"bytes"
	"fmt"
)

// -----------------------------------------------------------------------------
// Declarative part table
//
// One table drives the content-type manifest, the relationship manifest and
// the set of files materialized in the archive. Adding a part here updates
// all three facets at once; they can never drift apart.
// -----------------------------------------------------------------------------

// PartEncoding selects the byte representation for a part payload.
type PartEncoding int

const (
	// EncodeUTF16LE stores JSON text transcoded to 2-byte little-endian
	// code units with no byte-order mark. The consumer rejects the model
	// schema, layout and settings parts in any other encoding.
	EncodeUTF16LE PartEncoding = iota

	// EncodeUTF8 stores plain single-byte JSON text.
	EncodeUTF8

	// EncodeBinary stores a literal byte constant.
	EncodeBinary
)

// PartSpec describes one archive entry: its case-sensitive path, how the two
// manifests declare it, and how its payload is encoded.
type PartSpec struct {
	Path        string       // archive path
	ContentType string       // Override entry; empty means covered by extension default
	RelType     string       // relationship role URI
	RelID       string       // stable relationship identifier
	Encoding    PartEncoding //
	Skeleton    []byte       // fixed payload written by the container builder; nil for variable parts
}

// Variable is true for parts whose payload is produced per request by the
// assembler rather than by the container skeleton.
func (p PartSpec) Variable() bool {
	return p.Skeleton == nil
}

// -----------------------------------------------------------------------------

// Fixed archive paths.
const (
	PathContentTypes = "[Content_Types].xml"
	PathRels         = "_rels/.rels"
	PathVersion      = "Version"
	PathSettings     = "Settings"
	PathModelSchema  = "DataModelSchema"
	PathLayout       = "Report/Layout"
	PathTheme        = "Report/Theme"
	PathMetadata     = "Metadata"
)

// versionBlob is the fixed binary version marker the consumer expects.
var versionBlob = []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x13}

// themeSkeleton and metadataSkeleton are static single-byte JSON payloads.
var (
	themeSkeleton = []byte(`{
  "name": "Theme",
  "dataColors": ["#118DFF", "#12239E", "#E66C37", "#6B007B"],
  "background": "#FFFFFF",
  "foreground": "#000000"
}`)

	metadataSkeleton = []byte(`{
  "type": "Report",
  "name": "GeneratedReport"
}`)
)

// Parts is the full ordered part table of the template archive. The content
// manifests live at PathContentTypes and PathRels and are generated from this
// table, so they do not appear in it.
var Parts = []PartSpec{
	{
		Path:        PathLayout,
		ContentType: "application/vnd.ms-powerbi.content.layout+json",
		RelType:     "http://schemas.microsoft.com/powerbi/2016/06/reportlayout",
		RelID:       "rId1",
		Encoding:    EncodeUTF16LE,
	},
	{
		Path:        PathModelSchema,
		ContentType: "application/vnd.ms-powerbi.content.schema+json",
		RelType:     "http://schemas.microsoft.com/powerbi/2016/06/datamodelschema",
		RelID:       "rId2",
		Encoding:    EncodeUTF16LE,
	},
	{
		Path:        PathTheme,
		ContentType: "application/vnd.ms-powerbi.content.theme+json",
		RelType:     "http://schemas.microsoft.com/powerbi/2016/06/theme",
		RelID:       "rId3",
		Encoding:    EncodeUTF8,
		Skeleton:    themeSkeleton,
	},
	{
		Path:        PathSettings,
		ContentType: "application/vnd.ms-powerbi.content.settings+json",
		RelType:     "http://schemas.microsoft.com/powerbi/2016/06/settings",
		RelID:       "rId4",
		Encoding:    EncodeUTF16LE,
	},
	{
		Path:        PathVersion,
		ContentType: "application/vnd.ms-powerbi.content.version+binary",
		RelType:     "http://schemas.microsoft.com/powerbi/2016/06/version",
		RelID:       "rId5",
		Encoding:    EncodeBinary,
		Skeleton:    versionBlob,
	},
	{
		Path:        PathMetadata,
		ContentType: "application/json",
		RelType:     "http://schemas.microsoft.com/powerbi/2016/06/metadata",
		RelID:       "rId6",
		Encoding:    EncodeUTF8,
		Skeleton:    metadataSkeleton,
	},
}

// -----------------------------------------------------------------------------

// PartByPath returns the spec for an archive path.
func PartByPath(path string) (PartSpec, error) {
	for _, p := range Parts {
		if p.Path == path {
			return p, nil
		}
	}
	return PartSpec{}, fmt.Errorf("unknown archive part: %q", path)
}

// -----------------------------------------------------------------------------
// Manifest generation
// -----------------------------------------------------------------------------

// defaultContentTypes covers skeleton entries by file extension.
var defaultContentTypes = []struct{ Extension, ContentType string }{
	{"json", "application/json"},
	{"rels", "application/vnd.openxmlformats-package.relationships+xml"},
	{"xml", "application/xml"},
}

// ContentTypesXML renders the [Content_Types].xml manifest from the part table.
func ContentTypesXML() []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	buf.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` + "\n")
	for _, d := range defaultContentTypes {
		fmt.Fprintf(&buf, "  <Default Extension=%q ContentType=%q/>\n", d.Extension, d.ContentType)
	}
	for _, p := range Parts {
		if p.ContentType == "" {
			continue
		}
		fmt.Fprintf(&buf, "  <Override PartName=%q ContentType=%q/>\n", "/"+p.Path, p.ContentType)
	}
	buf.WriteString("</Types>")
	return buf.Bytes()
}

// -----------------------------------------------------------------------------

// RelationshipsXML renders the _rels/.rels manifest from the part table.
func RelationshipsXML() []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	buf.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + "\n")
	for _, p := range Parts {
		if p.RelType == "" {
			continue
		}
		fmt.Fprintf(&buf, "  <Relationship Id=%q Type=%q Target=%q/>\n", p.RelID, p.RelType, p.Path)
	}
	buf.WriteString("</Relationships>")
	return buf.Bytes()
}
