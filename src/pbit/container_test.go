package pbit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"market-reporter/src/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialize_WritesSkeleton(t *testing.T) {
	scratch := t.TempDir()
	b := NewContainerBuilder(logger.NewLogger("", "test"))

	require.NoError(t, b.Materialize(scratch))

	for _, path := range []string{PathContentTypes, PathRels, PathVersion, PathTheme, PathMetadata} {
		_, err := os.Stat(filepath.Join(scratch, filepath.FromSlash(path)))
		assert.NoError(t, err, "skeleton part %s must exist", path)
	}

	// Variable parts are the assembler's job.
	for _, path := range []string{PathModelSchema, PathLayout, PathSettings} {
		_, err := os.Stat(filepath.Join(scratch, filepath.FromSlash(path)))
		assert.True(t, os.IsNotExist(err), "variable part %s must not be materialized", path)
	}
}

func TestVerifyManifestConsistency(t *testing.T) {
	scratch := t.TempDir()
	b := NewContainerBuilder(logger.NewLogger("", "test"))
	require.NoError(t, b.Materialize(scratch))

	// Variable parts missing: every relationship target must exist.
	err := VerifyManifestConsistency(scratch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not materialized")

	for _, path := range []string{PathModelSchema, PathLayout, PathSettings} {
		require.NoError(t, WriteScratchPart(scratch, path, []byte("{}")))
	}
	assert.NoError(t, VerifyManifestConsistency(scratch))
}

// -----------------------------------------------------------------------------

func TestContentTypesXML_CoversEveryPart(t *testing.T) {
	manifest := string(ContentTypesXML())

	assert.Contains(t, manifest, `<Default Extension="json"`)
	assert.Contains(t, manifest, `<Default Extension="rels"`)
	assert.Contains(t, manifest, `<Default Extension="xml"`)

	for _, p := range Parts {
		if p.ContentType == "" {
			continue
		}
		assert.Contains(t, manifest, `PartName="/`+p.Path+`"`)
		assert.Contains(t, manifest, `ContentType="`+p.ContentType+`"`)
	}
}

func TestRelationshipsXML_DeclaresEveryPart(t *testing.T) {
	manifest := string(RelationshipsXML())

	for _, p := range Parts {
		assert.Contains(t, manifest, `Id="`+p.RelID+`"`)
		assert.Contains(t, manifest, `Target="`+p.Path+`"`)
	}
}

func TestParts_Lockstep(t *testing.T) {
	seenIDs := make(map[string]bool)
	seenPaths := make(map[string]bool)

	for _, p := range Parts {
		assert.False(t, seenIDs[p.RelID], "duplicate relationship id %s", p.RelID)
		assert.False(t, seenPaths[p.Path], "duplicate part path %s", p.Path)
		seenIDs[p.RelID] = true
		seenPaths[p.Path] = true

		assert.True(t, strings.HasPrefix(p.RelID, "rId"))
		assert.NotEmpty(t, p.RelType)

		// Every relationship target carries a content-type declaration.
		if p.ContentType == "" {
			assert.True(t, coveredByExtension(p.Path),
				"part %s needs an override or an extension default", p.Path)
		}
	}
}
