// Package manifest persists samples as paired JSON and CSV files. Both
// forms of one sample serialize the same slice in the same order, so the
// pair is always row-consistent.
package manifest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/EBB2675/nomad-curator/internal/catalog"
)

// Columns is the fixed CSV column order.
var Columns = []string{"entry_id", "upload_id", "mainfile", "main_author", "system", "structural_type"}

// Write persists one sample as <prefix>_<size>.json and <prefix>_<size>.csv
// under dir, creating dir if needed. The two files are written
// concurrently. Returns the JSON and CSV paths.
func Write(dir, prefix string, size int, sample []catalog.Entry) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("manifest: create output dir: %w", err)
	}

	base := prefix + "_" + strconv.Itoa(size)
	jsonPath := filepath.Join(dir, base+".json")
	csvPath := filepath.Join(dir, base+".csv")

	var g errgroup.Group
	g.Go(func() error { return writeJSON(jsonPath, sample) })
	g.Go(func() error { return writeCSV(csvPath, sample) })
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return jsonPath, csvPath, nil
}

func writeJSON(path string, sample []catalog.Entry) error {
	if sample == nil {
		sample = []catalog.Entry{}
	}
	data, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest: encode json: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}

func writeCSV(path string, sample []catalog.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		f.Close()
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	for _, e := range sample {
		record := []string{e.EntryID, e.UploadID, e.Mainfile, e.MainAuthor, e.System, e.StructuralType}
		if err := w.Write(record); err != nil {
			f.Close()
			return fmt.Errorf("manifest: write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return f.Close()
}
