package pbit

import (
	"fmt"
	"os"
	"path/filepath"

	"market-reporter/src/logger"
)

// -----------------------------------------------------------------------------
// Container builder
//
// Materializes the fixed archive skeleton (manifests, theme, metadata,
// version marker) as a directory tree on a scratch location. Variable parts
// (model schema, layout, settings) are written afterwards by the assembler.
// -----------------------------------------------------------------------------

type ContainerBuilder struct {
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewContainerBuilder(log *logger.Logger) *ContainerBuilder {
	return &ContainerBuilder{Logger: log}
}

// -----------------------------------------------------------------------------

// Materialize writes every skeleton entry under scratchDir, mirroring the
// archive's internal path layout.
func (b *ContainerBuilder) Materialize(scratchDir string) error {
	entries := map[string][]byte{
		PathContentTypes: ContentTypesXML(),
		PathRels:         RelationshipsXML(),
	}
	for _, p := range Parts {
		if p.Variable() {
			continue
		}
		entries[p.Path] = p.Skeleton
	}

	for path, payload := range entries {
		if err := WriteScratchPart(scratchDir, path, payload); err != nil {
			return err
		}
	}

	b.Logger.Debug("Materialized %d skeleton parts under %s", len(entries), scratchDir)
	return nil
}

// -----------------------------------------------------------------------------

// WriteScratchPart writes one archive entry below scratchDir, creating parent
// directories as needed. Archive paths use forward slashes regardless of host.
func WriteScratchPart(scratchDir, partPath string, payload []byte) error {
	dest := filepath.Join(scratchDir, filepath.FromSlash(partPath))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating directory for %q: %w", partPath, err)
	}
	if err := os.WriteFile(dest, payload, 0644); err != nil {
		return fmt.Errorf("writing part %q: %w", partPath, err)
	}
	return nil
}

// -----------------------------------------------------------------------------

// VerifyManifestConsistency checks the archive's core invariant on a scratch
// tree: every relationship target exists on disk and carries a content-type
// declaration. Returns the first violation found.
func VerifyManifestConsistency(scratchDir string) error {
	for _, p := range Parts {
		dest := filepath.Join(scratchDir, filepath.FromSlash(p.Path))
		if _, err := os.Stat(dest); err != nil {
			return fmt.Errorf("relationship %s targets %q which is not materialized: %w", p.RelID, p.Path, err)
		}
		if p.ContentType == "" && !coveredByExtension(p.Path) {
			return fmt.Errorf("part %q has neither a content-type override nor an extension default", p.Path)
		}
	}
	return nil
}

func coveredByExtension(path string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	for _, d := range defaultContentTypes {
		if "."+d.Extension == ext {
			return true
		}
	}
	return false
}
