package export

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadHeader reads a physical template file: the first line is the column
// list, the optional second line carries per-column format hints. Files
// come from the destination system with a UTF-8 BOM and ";" delimiters.
func ReadHeader(path string) (cols []string, formats map[string]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, nil, fmt.Errorf("read template %s: %w", path, err)
		}
		return nil, nil, fmt.Errorf("template %s is empty", path)
	}
	header := strings.TrimPrefix(sc.Text(), "\uFEFF")
	for _, c := range strings.Split(header, ";") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("template %s has no columns", path)
	}

	if sc.Scan() {
		hints := strings.Split(sc.Text(), ";")
		formats = make(map[string]string, len(cols))
		for i, c := range cols {
			if i < len(hints) {
				if h := strings.TrimSpace(hints[i]); h != "" {
					formats[c] = h
				}
			}
		}
	}
	return cols, formats, nil
}
