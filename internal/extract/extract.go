// Package extract turns identified event trees into flat records ready
// for storage. Which fields a layout produces is data, not code: each
// layout is described by a LayoutSpec that names tree paths, fallback
// paths, constants and lookups, and the engine here resolves them.
//
// Path segments follow descendant search semantics: each segment finds
// the first element with that local name anywhere under the previous
// scope. That keeps specs short and tolerant of optional intermediate
// wrappers, which vary across schema versions.
package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"esocialetl/internal/tree"
)

// FieldDef computes one flat column from an event or item scope.
type FieldDef struct {
	Column string
	// Paths are tried in order; the first non-blank wins.
	Paths [][]string
	// FromEvent resolves against the whole event instead of the
	// current collection item.
	FromEvent bool
	// Const short-circuits resolution with a fixed value.
	Const string
	// Number converts the resolved text to float64, accepting a
	// decimal comma. Blank or malformed input becomes 0.
	Number bool
	// Lookup maps the value of another already-resolved column.
	LookupFrom    string
	Lookup        map[string]string
	LookupDefault string
}

// Step is one level of collection descent. All elements matching any of
// Names are gathered under the current scopes; Capture pulls context
// values from each found element that stay visible to deeper steps and
// to the final record.
type Step struct {
	Names   []string
	Capture []FieldDef
}

// ChildSpec emits extra records into a secondary table, one per item
// found under the event. Parent maps child columns to columns already
// resolved on the main record.
type ChildSpec struct {
	Table  string
	Steps  []Step
	Fields []FieldDef
	Parent map[string]string
}

// LayoutSpec describes extraction for one layout code.
type LayoutSpec struct {
	Code  string
	Event string
	Table string
	// RequirePath, when set, must resolve or the event yields no
	// records at all.
	RequirePath []string
	// Steps descend into repeated substructures. Empty means the
	// event itself is the single record.
	Steps    []Step
	Fields   []FieldDef
	Children []ChildSpec
}

// Records groups the rows one event produced, keyed by table name.
type Records map[string][]map[string]any

// Set is a compiled collection of layout specs.
type Set struct {
	specs map[string]LayoutSpec
	now   func() time.Time
}

// Compile validates the specs and builds a Set. Duplicate layout codes
// and column-less fields are rejected up front so a bad external config
// fails at startup, not mid-batch.
func Compile(specs []LayoutSpec) (*Set, error) {
	m := make(map[string]LayoutSpec, len(specs))
	for _, s := range specs {
		if s.Code == "" || s.Table == "" {
			return nil, fmt.Errorf("extract: layout spec needs code and table (code=%q table=%q)", s.Code, s.Table)
		}
		if _, dup := m[s.Code]; dup {
			return nil, fmt.Errorf("extract: duplicate layout code %s", s.Code)
		}
		for _, f := range s.Fields {
			if f.Column == "" {
				return nil, fmt.Errorf("extract: layout %s has a field without a column", s.Code)
			}
		}
		m[s.Code] = s
	}
	return &Set{specs: m, now: time.Now}, nil
}

// SetClock replaces the import timestamp source. Tests use it to pin
// data_importacao.
func (s *Set) SetClock(now func() time.Time) { s.now = now }

// Known reports whether a layout code has an extraction spec.
func (s *Set) Known(code string) bool {
	_, ok := s.specs[code]
	return ok
}

// Extract resolves one identified event into records. Unknown codes
// return an error so the caller can decide between skipping and storing
// the raw payload.
func (s *Set) Extract(code string, event tree.Tree) (Records, error) {
	spec, ok := s.specs[code]
	if !ok {
		return nil, fmt.Errorf("extract: no spec for layout %s", code)
	}

	if len(spec.RequirePath) > 0 {
		if v := resolvePath(event, spec.RequirePath); strings.TrimSpace(v) == "" {
			return Records{}, nil
		}
	}

	stamp := s.now().UTC().Format(time.RFC3339)
	out := Records{}

	items := descend(event, spec.Steps)
	parentOnly := false
	if len(items) == 0 {
		// The collection the steps descend into is absent. The event still
		// yields its main record, resolved against the event itself, so the
		// payload is stored rather than dropped.
		parentOnly = true
		items = []item{{scope: event, ctx: map[string]string{}}}
	}
	for _, it := range items {
		rec := resolveFields(spec.Fields, event, it.scope, it.ctx)
		rec["json_data"] = itemJSON(spec, event, it, parentOnly)
		rec["data_importacao"] = stamp
		out[spec.Table] = append(out[spec.Table], rec)

		for _, child := range spec.Children {
			for _, cit := range descend(it.scope, child.Steps) {
				crec := resolveFields(child.Fields, event, cit.scope, cit.ctx)
				for childCol, parentCol := range child.Parent {
					crec[childCol] = rec[parentCol]
				}
				raw, _ := json.Marshal(cit.scope)
				crec["json_data"] = string(raw)
				crec["data_importacao"] = stamp
				out[child.Table] = append(out[child.Table], crec)
			}
		}
	}
	return out, nil
}

// item is one collection element with the context captured on the way
// down.
type item struct {
	scope tree.Tree
	ctx   map[string]string
}

func descend(root tree.Tree, steps []Step) []item {
	current := []item{{scope: root, ctx: map[string]string{}}}
	for _, step := range steps {
		var next []item
		for _, it := range current {
			for _, name := range step.Names {
				for _, v := range tree.FindAll(it.scope, name) {
					t, ok := v.(tree.Tree)
					if !ok {
						continue
					}
					ctx := it.ctx
					if len(step.Capture) > 0 {
						ctx = copyCtx(ctx)
						for _, f := range step.Capture {
							ctx[f.Column] = resolveField(f, t, t, it.ctx)
						}
					}
					next = append(next, item{scope: t, ctx: ctx})
				}
			}
		}
		current = next
	}
	return current
}

func copyCtx(ctx map[string]string) map[string]string {
	out := make(map[string]string, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}

func resolveFields(fields []FieldDef, event, scope tree.Tree, ctx map[string]string) map[string]any {
	rec := make(map[string]any, len(fields)+2)
	text := make(map[string]string, len(fields))
	for _, f := range fields {
		v := resolveField(f, event, scope, ctx)
		if f.Lookup != nil {
			key := text[f.LookupFrom]
			mapped, ok := f.Lookup[key]
			if !ok {
				mapped = f.LookupDefault
			}
			v = mapped
		}
		text[f.Column] = v
		if f.Number {
			rec[f.Column] = parseNumber(v)
		} else {
			rec[f.Column] = v
		}
	}
	return rec
}

func resolveField(f FieldDef, event, scope tree.Tree, ctx map[string]string) string {
	if f.Const != "" {
		return f.Const
	}
	base := scope
	if f.FromEvent {
		base = event
	}
	for _, p := range f.Paths {
		if len(p) == 1 {
			if v, ok := ctx[p[0]]; ok && strings.TrimSpace(v) != "" {
				return v
			}
		}
		if v := resolvePath(base, p); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// resolvePath walks one descendant-search path and unwraps the final
// value to text.
func resolvePath(scope tree.Tree, path []string) string {
	var cur any = scope
	for _, seg := range path {
		t, ok := cur.(tree.Tree)
		if !ok {
			return ""
		}
		cur, ok = tree.FindFirst(t, seg)
		if !ok {
			return ""
		}
	}
	if s, ok := tree.Text(cur); ok {
		return s
	}
	return ""
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// itemJSON serializes what gets stored alongside the flat columns. A
// single-record layout stores the whole event wrapped under its element
// name; a collection item stores the item merged with its captured
// context so later field resolution can reach both.
func itemJSON(spec LayoutSpec, event tree.Tree, it item, parentOnly bool) string {
	if len(spec.Steps) == 0 || parentOnly {
		raw, _ := json.Marshal(map[string]any{spec.Event: event})
		return string(raw)
	}
	merged := make(tree.Tree, len(it.scope)+len(it.ctx))
	for k, v := range it.scope {
		merged[k] = v
	}
	for k, v := range it.ctx {
		if _, exists := merged[k]; !exists {
			merged[k] = tree.Tree{tree.TextKey: v}
		}
	}
	raw, _ := json.Marshal(merged)
	return string(raw)
}
