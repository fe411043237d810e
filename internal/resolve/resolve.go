// Package resolve maps stored event records onto template columns: value
// lookup with fallbacks, then display formatting in the Brazilian
// conventions the downstream importer expects (comma decimals, DD/MM/YYYY
// dates).
package resolve

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"esocialetl/internal/tree"
)

// FieldDef binds one template column to its data sources. Resolution
// priority: flat record column, primary path into the event payload, each
// alternative path in order, then Default.
type FieldDef struct {
	Column       string     `json:"column"`
	RecordColumn string     `json:"record_column,omitempty"`
	Path         []string   `json:"path,omitempty"`
	Alternatives [][]string `json:"alternatives,omitempty"`
	Default      string     `json:"default,omitempty"`

	// Format is one of "", "decimal", "date", "datetime".
	Format string `json:"format,omitempty"`
}

// Value resolves a field against a database record and the event payload
// the record was extracted from. The payload may be nil when json_data was
// not stored.
func Value(rec map[string]any, payload tree.Tree, def FieldDef) string {
	col := def.RecordColumn
	if col == "" {
		col = def.Column
	}
	if v, ok := rec[col]; ok {
		if s := scalarString(v); s != "" {
			return s
		}
	}

	if payload != nil {
		if s := pathText(payload, def.Path); s != "" {
			return s
		}
		for _, alt := range def.Alternatives {
			if s := pathText(payload, alt); s != "" {
				return s
			}
		}
	}

	return def.Default
}

// pathText descends the payload one named element at a time, each hop a
// descendant search scoped to the previous hop. Mapping documents written
// against differently rooted payloads keep working that way. A trailing
// "_text" segment is accepted and ignored.
func pathText(payload tree.Tree, path []string) string {
	if len(path) > 0 && path[len(path)-1] == tree.TextKey {
		path = path[:len(path)-1]
	}
	if len(path) == 0 {
		return ""
	}
	var cur any = payload
	for _, seg := range path {
		t, ok := cur.(tree.Tree)
		if !ok {
			if list, isList := cur.([]any); isList && len(list) > 0 {
				t, ok = list[0].(tree.Tree)
			}
			if !ok {
				return ""
			}
		}
		next, found := tree.FindFirst(t, seg)
		if !found {
			return ""
		}
		cur = next
	}
	if s, ok := tree.Text(cur); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// scalarString renders database values the way they appear in exports.
// Floats stored by SQLite print without a trailing .0 when integral.
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Display renders a raw value under a field format. Unknown formats and
// unparseable values pass through unchanged; the exported file should show
// the stored value rather than lose it.
func Display(raw string, format string) string {
	if raw == "" {
		return ""
	}
	switch format {
	case "decimal":
		return FormatDecimal(raw, 2)
	case "date":
		return FormatDate(raw)
	case "datetime":
		// Time-of-day is dropped on purpose: the import templates only
		// take dates, and partial timestamps broke the legacy importer.
		return FormatDate(raw)
	default:
		return raw
	}
}

// FormatDecimal renders a numeric string with the given number of decimal
// places and a comma separator, no thousands grouping: "1.234,56" and
// "1234.56" both become "1234,56".
func FormatDecimal(raw string, places int) string {
	f, ok := parseNumber(raw)
	if !ok {
		return raw
	}
	return strings.Replace(strconv.FormatFloat(f, 'f', places, 64), ".", ",", 1)
}

// parseNumber accepts both Brazilian ("1.234,56") and plain ("1234.56")
// spellings.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// FormatDate renders any supported date or datetime spelling as
// DD/MM/YYYY.
func FormatDate(raw string) string {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format("02/01/2006")
		}
	}
	return raw
}

// FormatTime renders a datetime spelling as HH:MM:SS, used by the "time"
// template hint.
func FormatTime(raw string) string {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format("15:04:05")
		}
	}
	if d, err := time.Parse("15:04:05", s); err == nil {
		return d.Format("15:04:05")
	}
	return raw
}

// ApplyHint formats a cell under a physical-template hint from the format
// line: "date", "time", "money", "number" or "number.N". Unmatched hints
// pass the value through.
func ApplyHint(raw string, hint string) string {
	if raw == "" || hint == "" {
		return raw
	}
	h := strings.ToLower(strings.TrimSpace(hint))
	switch {
	case strings.Contains(h, "date"), strings.Contains(h, "data"), h == "dd/mm/yyyy":
		return FormatDate(raw)
	case strings.Contains(h, "time"):
		return FormatTime(raw)
	case strings.Contains(h, "money"), strings.Contains(hint, "R$"):
		return FormatDecimal(raw, 2)
	case strings.Contains(h, "number"):
		places := 2
		if i := strings.Index(h, "."); i >= 0 {
			if n, err := strconv.Atoi(h[i+1:]); err == nil {
				places = n
			}
		}
		return FormatDecimal(raw, places)
	default:
		return raw
	}
}
