package tree

import "encoding/json"

// FromJSON decodes a stored json_data payload back into a Tree. Nested
// objects come out of encoding/json as plain maps, so the structure is
// normalized recursively; Walk, FindFirst and Text then behave the same
// as on a freshly parsed document.
func FromJSON(b []byte) (Tree, error) {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return normalize(m), nil
}

func normalize(m map[string]any) Tree {
	t := make(Tree, len(m))
	for k, v := range m {
		t[k] = normalizeValue(v)
	}
	return t
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return normalize(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}
