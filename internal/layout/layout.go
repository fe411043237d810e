// Package layout identifies which eSocial event layout a parsed document
// carries. Identification is namespace-agnostic: it works on element local
// names only, so S-1.0 and S-1.1 schema revisions of the same event resolve
// to the same layout code.
package layout

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"esocialetl/internal/tree"
)

// ErrUnknownLayout reports a document with no recognizable eSocial event.
var ErrUnknownLayout = errors.New("layout: no recognizable event element")

// Envelope is the standard eSocial wrapper element.
const Envelope = "eSocial"

// Markers maps event element names to layout codes. The seven codes below
// are the layouts this system normalizes; unknown evt* elements still get
// an ad-hoc code so future layouts are stored rather than dropped.
var Markers = map[string]string{
	"evtTabLotacao":    "S-1020",
	"evtTabCargo":      "S-1030",
	"evtRemun":         "S-1200",
	"evtAdmissao":      "S-2200",
	"evtAltCadastral":  "S-2205",
	"evtAltContratual": "S-2206",
	"evtAfastTemp":     "S-2230",
}

// markerOrder is the deterministic scan order for marker lookups. A fresh
// sort on every call would work too; eSocial files carry one event each,
// so the order only matters for malformed multi-event documents.
var markerOrder = sortedKeys(Markers)

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Identify returns the layout code and the event subtree for a parsed
// document. Resolution order:
//
//  1. Locate the eSocial envelope (root or nested) and scan its children
//     for a known marker.
//  2. Check whether a root element is itself a known marker.
//  3. Scan the whole tree for a known marker.
//  4. Scan the whole tree for any evt* element; its name becomes the code.
//
// Step 4 keeps events from newer layout revisions ingestible: the raw name
// (e.g. "evtTabRubrica") is used as the code as-is.
func Identify(doc tree.Tree) (string, tree.Tree, error) {
	if env := findEnvelope(doc); env != nil {
		if code, ev, ok := markerChild(env); ok {
			return code, ev, nil
		}
	}

	if code, ev, ok := markerChild(doc); ok {
		return code, ev, nil
	}

	if code, ev, ok := scanForMarker(doc); ok {
		return code, ev, nil
	}

	if name, ev, ok := scanForEventPrefix(doc); ok {
		return name, ev, nil
	}

	return "", nil, ErrUnknownLayout
}

// findEnvelope returns the first eSocial element found depth-first, or nil.
func findEnvelope(t tree.Tree) tree.Tree {
	if env, ok := t[Envelope].(tree.Tree); ok {
		return env
	}
	for _, k := range treeKeys(t) {
		if sub, ok := t[k].(tree.Tree); ok {
			if env := findEnvelope(sub); env != nil {
				return env
			}
		}
	}
	return nil
}

// markerChild checks the direct children of t for a known marker.
func markerChild(t tree.Tree) (string, tree.Tree, bool) {
	for _, name := range markerOrder {
		if ev, ok := t[name].(tree.Tree); ok {
			return Markers[name], ev, true
		}
	}
	return "", nil, false
}

func scanForMarker(t tree.Tree) (string, tree.Tree, bool) {
	if code, ev, ok := markerChild(t); ok {
		return code, ev, ok
	}
	for _, k := range treeKeys(t) {
		if sub, ok := t[k].(tree.Tree); ok {
			if code, ev, ok := scanForMarker(sub); ok {
				return code, ev, true
			}
		}
	}
	return "", nil, false
}

func scanForEventPrefix(t tree.Tree) (string, tree.Tree, bool) {
	for _, k := range treeKeys(t) {
		if ev, ok := t[k].(tree.Tree); ok && strings.HasPrefix(k, "evt") {
			return k, ev, true
		}
	}
	for _, k := range treeKeys(t) {
		if sub, ok := t[k].(tree.Tree); ok {
			if name, ev, ok := scanForEventPrefix(sub); ok {
				return name, ev, true
			}
		}
	}
	return "", nil, false
}

func treeKeys(t tree.Tree) []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MatchesFilename reports whether a file name mentions the given layout
// code. Producers write codes as S-2200, S2200 or S_2200 in any case, so
// all three spellings are accepted anywhere in the name.
func MatchesFilename(name, code string) bool {
	if code == "" {
		return false
	}
	n := strings.ToLower(name)
	c := strings.ToLower(code)
	bare := strings.ReplaceAll(c, "-", "")
	for _, variant := range []string{c, bare, strings.Replace(c, "-", "_", 1)} {
		if strings.Contains(n, variant) {
			return true
		}
	}
	return false
}

// KnownCodes returns the configured layout codes, sorted, for logging and
// validation messages.
func KnownCodes() []string {
	seen := map[string]bool{}
	var out []string
	for _, code := range Markers {
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}

// CodeForEvent returns the layout code for an event element name, falling
// back to the name itself for evt* elements.
func CodeForEvent(name string) (string, error) {
	if code, ok := Markers[name]; ok {
		return code, nil
	}
	if strings.HasPrefix(name, "evt") {
		return name, nil
	}
	return "", fmt.Errorf("layout: %q is not an event element", name)
}
