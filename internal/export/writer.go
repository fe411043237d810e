package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes a semicolon-delimited CSV with a UTF-8 BOM, the way the
// destination system expects its imports. The header is always written, so
// an empty rows slice yields a header-only file.
func WriteCSV(path string, cols []string, rows [][]string) error {
	return WriteCSVWith(path, cols, rows, ';', true)
}

// WriteCSVWith is WriteCSV with the delimiter and BOM configurable via the
// export options.
func WriteCSVWith(path string, cols []string, rows [][]string, comma rune, bom bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if bom {
		if _, err := f.Write(utf8BOM); err != nil {
			return err
		}
	}
	w := csv.NewWriter(f)
	w.Comma = comma
	if err := w.Write(cols); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
