package workbook

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/assaystat"
	"github.com/carbocation/pfx"
)

// readText loads a delimited text export as a single sheet named after the
// file (without directory or extensions). Compressed exports are accepted.
func readText(path string) ([]string, map[string][][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, pfx.Err(err)
	}
	defer f.Close()

	r, err := assaystat.MaybeDecompressReader(f)
	if err != nil {
		return nil, nil, pfx.Err(err)
	}

	// The delimiter detector consumes its reader, so buffer the content.
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, pfx.Err(err)
	}

	grid, err := parseDelimited(raw)
	if err != nil {
		return nil, nil, pfx.Err(err)
	}

	name := sheetNameFromPath(path)
	return []string{name}, map[string][][]string{name: grid}, nil
}

func parseDelimited(raw []byte) ([][]string, error) {
	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = assaystat.DetermineDelimiter(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	return cr.ReadAll()
}

func sheetNameFromPath(path string) string {
	base := filepath.Base(path)
	for {
		ext := filepath.Ext(base)
		if ext == "" {
			return base
		}
		switch strings.ToLower(ext) {
		case ".csv", ".tsv", ".txt", ".gz", ".bz2", ".xz":
			base = strings.TrimSuffix(base, ext)
		default:
			return base
		}
	}
}
