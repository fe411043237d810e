package tree

import "sort"

// FindFirst locates the first value named name anywhere under t. Direct
// children win over deeper matches; otherwise the search descends child
// trees in sorted key order so repeated runs agree. A repeated sibling
// list yields its first element.
func FindFirst(t Tree, name string) (any, bool) {
	if v, ok := t[name]; ok {
		if l, isList := v.([]any); isList {
			if len(l) == 0 {
				return nil, false
			}
			return l[0], true
		}
		return v, true
	}
	for _, k := range sortedKeys(t) {
		for _, child := range childTrees(t[k]) {
			if v, ok := FindFirst(child, name); ok {
				return v, true
			}
		}
	}
	return nil, false
}

// FindAll collects every value named name under t, depth first with
// sorted keys, preserving document order within repeated siblings.
func FindAll(t Tree, name string) []any {
	var out []any
	if v, ok := t[name]; ok {
		if l, isList := v.([]any); isList {
			out = append(out, l...)
		} else {
			out = append(out, v)
		}
	}
	for _, k := range sortedKeys(t) {
		if k == name {
			continue
		}
		for _, child := range childTrees(t[k]) {
			out = append(out, FindAll(child, name)...)
		}
	}
	return out
}

func sortedKeys(t Tree) []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func childTrees(v any) []Tree {
	switch x := v.(type) {
	case Tree:
		return []Tree{x}
	case []any:
		var out []Tree
		for _, item := range x {
			if t, ok := item.(Tree); ok {
				out = append(out, t)
			}
		}
		return out
	default:
		return nil
	}
}
