package access

import "strings"

// Normalize turns a raw request URI into the form the permission table is
// written against: no query string, no trailing slash, one leading slash.
func Normalize(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimRight(raw, "/")
	raw = "/" + strings.TrimLeft(raw, "/")
	return raw
}

// matchPath matches a normalized path against a pattern. Pattern segments
// starting with ':' match any single non-empty segment; a final '*' segment
// matches one or more remaining segments.
func matchPath(pattern, path string) bool {
	pp := splitPath(pattern)
	sp := splitPath(path)

	for i, seg := range pp {
		if seg == "*" && i == len(pp)-1 {
			return len(sp) > i
		}
		if i >= len(sp) {
			return false
		}
		if strings.HasPrefix(seg, ":") {
			if sp[i] == "" {
				return false
			}
			continue
		}
		if !strings.EqualFold(seg, sp[i]) {
			return false
		}
	}
	return len(pp) == len(sp)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
