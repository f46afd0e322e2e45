package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/officeai"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	if c.Path == "" {
		if err := writeSnapshot(deps.Ctx, deps.Knowledge, deps.Stdout); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", officeai.ErrorMessage(err))
			return err
		}
		return nil
	}

	if err := exportFile(deps.Ctx, deps.Knowledge, c.Path); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", officeai.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Exported knowledge base to %s\n", c.Path)
	return nil
}

// backupPath returns a timestamped export path in dir.
func backupPath(dir string, now time.Time) string {
	return filepath.Join(dir, "officeai_backup_"+now.Format("20060102_150405")+".json")
}

func exportFile(ctx context.Context, store officeai.KnowledgeService, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return officeai.Errorf(officeai.EINVALID, "cannot create %s: %v", path, err)
	}
	if err := writeSnapshot(ctx, store, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSnapshot(ctx context.Context, store officeai.KnowledgeService, w io.Writer) error {
	snap, err := store.Snapshot(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
