package sqlite

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// RowsFile is the default name of the rows export.
const RowsFile = "rows.jsonl"

// rowJSON is one line of a rows export.
type rowJSON struct {
	RowID     string         `json:"row_id"`
	Name      string         `json:"name"`
	Cells     map[string]any `json:"cells,omitempty"`
	CreatedAt string         `json:"created_at,omitempty"`
	UpdatedAt string         `json:"updated_at,omitempty"`
}

// readJSONL returns each non-empty, well-formed line of path. Malformed
// lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to path, one per line, through a
// synced temp file renamed into place.
func writeJSONL(path string, records []json.RawMessage) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail(fmt.Errorf("writing record: %w", err))
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail(fmt.Errorf("writing newline: %w", err))
		}
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// ExportRows writes every row to path as JSONL and returns the row count.
func (b *Backend) ExportRows(path string) (int, error) {
	rows, err := b.Rows().List()
	if err != nil {
		return 0, err
	}
	records := make([]json.RawMessage, 0, len(rows))
	for _, r := range rows {
		raw, err := json.Marshal(rowJSON{
			RowID:     r.RowID,
			Name:      r.Name,
			Cells:     r.Cells,
			CreatedAt: formatTime(r.CreatedAt),
			UpdatedAt: formatTime(r.UpdatedAt),
		})
		if err != nil {
			return 0, fmt.Errorf("encoding row %s: %w", r.RowID, err)
		}
		records = append(records, raw)
	}
	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ImportRows reads rows from a JSONL file and stores each one, replacing
// rows with the same ID. Malformed lines are ignored; well-formed records
// the store rejects are counted as skipped.
func (b *Backend) ImportRows(path string) (imported, skipped int, err error) {
	records, err := readJSONL(path)
	if err != nil {
		return 0, 0, err
	}
	for _, rec := range records {
		var rj rowJSON
		if err := json.Unmarshal(rec, &rj); err != nil {
			skipped++
			continue
		}
		row := &types.Row{RowID: rj.RowID, Name: rj.Name, Cells: rj.Cells}
		if t, err := parseTime(rj.CreatedAt); err == nil {
			row.CreatedAt = t
		}
		if _, err := b.Rows().Set(row); err != nil {
			if errors.Is(err, types.ErrStoreDetached) {
				return imported, skipped, err
			}
			skipped++
			continue
		}
		imported++
	}
	return imported, skipped, nil
}
