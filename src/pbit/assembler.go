package pbit

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"market-reporter/src/logger"
	"market-reporter/src/models"
)

// -----------------------------------------------------------------------------
// Package assembler
//
// Orchestrates the full pipeline: table -> expression -> documents -> encoded
// parts -> skeleton on scratch storage -> single compressed archive. Scratch
// state is per-call and released on every exit path; callers either get a
// complete, internally consistent archive or an error, never both.
// -----------------------------------------------------------------------------

// zipEpoch is the fixed modification time stamped on every archive entry so
// that identical inputs produce byte-identical archives.
var zipEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

type Assembler struct {
	Config    models.MReportConfig
	Container *ContainerBuilder
	Logger    *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAssembler(cfg models.MReportConfig, log *logger.Logger) *Assembler {
	return &Assembler{
		Config:    cfg,
		Container: NewContainerBuilder(log),
		Logger:    log,
	}
}

// -----------------------------------------------------------------------------

// Build produces the complete template archive for a set of derived report
// rows plus report metadata, returning its bytes.
func (a *Assembler) Build(rows []models.MReportRow, meta models.MReportMeta) ([]byte, error) {
	table := FinanceTable(a.Config.TableName, rows)

	// 1. Embedded table expression. Empty input fails here, before any
	// scratch state exists.
	expression, err := DataTableExpression(table, FormatOptions{EscapeStrings: a.Config.EscapeStrings})
	if err != nil {
		return nil, err
	}

	// 2. Variable documents.
	schemaDoc := BuildModelSchema(a.Config, table, expression)
	layoutDoc, err := BuildLayout(a.Config.TableName, meta)
	if err != nil {
		return nil, err
	}
	settingsDoc := SettingsDoc{Locale: a.Config.Locale}

	// 3. Per-call scratch location; concurrent builds never share a path.
	scratch, err := os.MkdirTemp("", "report-template-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			a.Logger.Warning("Failed to release scratch %s: %v", scratch, rmErr)
		}
	}()

	// 4. Fixed skeleton.
	if err := a.Container.Materialize(scratch); err != nil {
		return nil, err
	}

	// 5. Variable parts, encoded per the part table.
	variable := map[string]interface{}{
		PathModelSchema: schemaDoc,
		PathLayout:      layoutDoc,
		PathSettings:    settingsDoc,
	}
	for path, doc := range variable {
		payload, err := EncodePart(path, doc)
		if err != nil {
			return nil, err
		}
		if err := WriteScratchPart(scratch, path, payload); err != nil {
			return nil, err
		}
	}

	// 6. Core invariant: manifests and materialized entries in lockstep.
	if err := VerifyManifestConsistency(scratch); err != nil {
		return nil, err
	}

	// 7. Compress the tree into one archive, preserving relative paths.
	archive, err := zipDirectory(scratch)
	if err != nil {
		return nil, err
	}

	a.Logger.Info("Assembled template archive: %d rows, %d bytes", len(rows), len(archive))
	return archive, nil
}

// -----------------------------------------------------------------------------

// zipDirectory walks root and deflate-compresses every file into an in-memory
// archive. WalkDir visits paths in lexical order, so entry order is stable.
func zipDirectory(root string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		header := &zip.FileHeader{
			Name:     filepath.ToSlash(rel),
			Method:   zip.Deflate,
			Modified: zipEpoch,
		}
		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
	if err != nil {
		zw.Close()
		return nil, fmt.Errorf("zipping scratch tree: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}
	return buf.Bytes(), nil
}
