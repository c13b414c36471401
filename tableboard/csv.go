package tableboard

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/jayz-blip/askboard/tableboard/internal/store"
)

// readTable reads a CSV file into header-keyed records. A missing file is
// not an error: the export may legitimately ship only one of the two
// tables, so it degrades to an empty table with a warning.
func readTable(path string, logger *slog.Logger) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("tableboard: table file missing", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // exports in the wild have ragged rows

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []map[string]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip the malformed row, keep the rest.
			logger.Warn("tableboard: bad row", "path", path, "error", err)
			continue
		}
		rec := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// postRows maps raw post records to store rows, sanitising content.
func postRows(records []map[string]string, clean func(string) string) []store.PostRow {
	rows := make([]store.PostRow, 0, len(records))
	for _, rec := range records {
		commCnt, _ := strconv.Atoi(strings.TrimSpace(rec["comm_cnt"]))
		hitCnt, _ := strconv.Atoi(strings.TrimSpace(rec["hit_cnt"]))
		rows = append(rows, store.PostRow{
			ID:      rec["id"],
			Name:    strings.TrimSpace(rec["name"]),
			Writer:  strings.TrimSpace(rec["writer"]),
			Subject: strings.TrimSpace(rec["subject"]),
			Content: clean(rec["content"]),
			RegDate: strings.TrimSpace(rec["reg_date"]),
			CommCnt: commCnt,
			HitCnt:  hitCnt,
		})
	}
	return rows
}

// commentRows maps raw comment records to store rows.
func commentRows(records []map[string]string, clean func(string) string) []store.CommentRow {
	rows := make([]store.CommentRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, store.CommentRow{
			ID:      rec["id"],
			PostID:  rec["post_id"],
			Writer:  strings.TrimSpace(rec["writer"]),
			Content: clean(rec["content"]),
			RegDate: strings.TrimSpace(rec["reg_date"]),
		})
	}
	return rows
}
