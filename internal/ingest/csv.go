// Package ingest turns uploaded CSV text into raw datasets and raw datasets
// into canonical records under a user column mapping.
package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// ParseCSV reads a headered CSV into the raw dataset shape the engine works
// over: rows keyed by original header. Ragged rows are tolerated; short rows
// leave trailing columns blank, long rows drop the overflow.
func ParseCSV(r io.Reader) (headers []string, rows []map[string]string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err == io.EOF {
		return nil, nil, eris.New("csv: empty input")
	}
	if err != nil {
		return nil, nil, eris.Wrap(err, "csv: read header")
	}
	head[0] = strings.TrimPrefix(head[0], "\uFEFF")
	for i := range head {
		head[i] = strings.TrimSpace(head[i])
	}

	rows = []map[string]string{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrap(err, "csv: read row")
		}
		if isBlankRow(rec) {
			continue
		}
		row := make(map[string]string, len(head))
		for i, h := range head {
			if h == "" {
				continue
			}
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return head, rows, nil
}

func isBlankRow(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
