package dispatch

import (
	"fmt"
	"strings"
)

// segment is one path segment of a route pattern. Dynamic segments are
// written "<name>" or "{name}"; a trailing segment "<name..>" matches
// the remainder of the request path.
type segment struct {
	value    string
	dynamic  bool
	trailing bool
}

// queryParam is one declared query parameter of a route pattern. A
// static param "key=value" requires the exact value, a dynamic param
// "key=<name>" requires a non-empty value, and a bare "key" requires
// presence only.
type queryParam struct {
	key     string
	value   string
	dynamic bool
}

// parseSegment interprets one raw pattern segment.
func parseSegment(raw string) segment {
	value := raw
	dynamic := false

	switch {
	case strings.HasPrefix(raw, "<") && strings.HasSuffix(raw, ">"):
		dynamic = true
		value = raw[1 : len(raw)-1]
	case strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}"):
		dynamic = true
		value = raw[1 : len(raw)-1]
	}

	trailing := false
	if dynamic && strings.HasSuffix(value, "..") {
		trailing = true
		value = value[:len(value)-2]
	}

	return segment{value: value, dynamic: dynamic, trailing: trailing}
}

// parsePattern splits a route pattern into path segments and query
// parameters. The pattern must start with "/"; the optional query part
// follows a "?" and declares "&"-separated parameters.
func parsePattern(pattern string) ([]segment, []queryParam, error) {
	if pattern == "" || pattern[0] != '/' {
		return nil, nil, fmt.Errorf("dispatch: pattern %q must start with a slash", pattern)
	}

	pathPart := pattern
	queryPart := ""
	if idx := strings.IndexByte(pattern, '?'); idx >= 0 {
		pathPart = pattern[:idx]
		queryPart = pattern[idx+1:]
	}

	var segments []segment
	seen := make(map[string]struct{})

	for _, raw := range splitPath(pathPart) {
		seg := parseSegment(raw)

		if len(segments) > 0 && segments[len(segments)-1].trailing {
			return nil, nil, fmt.Errorf("dispatch: pattern %q has segments after a trailing parameter", pattern)
		}

		if seg.dynamic {
			if seg.value == "" {
				return nil, nil, fmt.Errorf("dispatch: pattern %q has an unnamed dynamic segment", pattern)
			}
			if _, dup := seen[seg.value]; dup {
				return nil, nil, fmt.Errorf("dispatch: duplicated route variable %q", seg.value)
			}
			seen[seg.value] = struct{}{}
		} else if strings.ContainsAny(seg.value, "<>{}") {
			return nil, nil, fmt.Errorf("dispatch: pattern %q has a malformed segment %q", pattern, raw)
		}

		segments = append(segments, seg)
	}

	var query []queryParam
	if queryPart != "" {
		for _, raw := range strings.Split(queryPart, "&") {
			if raw == "" {
				return nil, nil, fmt.Errorf("dispatch: pattern %q has an empty query parameter", pattern)
			}

			key, value, hasValue := strings.Cut(raw, "=")
			if key == "" {
				return nil, nil, fmt.Errorf("dispatch: pattern %q has an unnamed query parameter", pattern)
			}

			param := queryParam{key: key}
			if hasValue {
				seg := parseSegment(value)
				if seg.trailing {
					return nil, nil, fmt.Errorf("dispatch: pattern %q has a trailing query parameter", pattern)
				}
				if seg.dynamic {
					if seg.value == "" {
						return nil, nil, fmt.Errorf("dispatch: pattern %q has an unnamed dynamic query parameter", pattern)
					}
					if _, dup := seen[seg.value]; dup {
						return nil, nil, fmt.Errorf("dispatch: duplicated route variable %q", seg.value)
					}
					seen[seg.value] = struct{}{}
					param.dynamic = true
					param.value = seg.value
				} else {
					param.value = seg.value
				}
			}

			query = append(query, param)
		}
	}

	return segments, query, nil
}

// splitPath splits a request or pattern path into its non-root segments.
// The root path "/" has zero segments.
func splitPath(p string) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// pathKind classifies a parsed path for default rank derivation.
type pathKind int

const (
	pathStatic pathKind = iota
	pathPartiallyDynamic
	pathWhollyDynamic
)

// classifyPath reports how dynamic a parsed path is. The root path
// counts as static.
func classifyPath(segments []segment) pathKind {
	dynamic := 0
	for _, seg := range segments {
		if seg.dynamic {
			dynamic++
		}
	}

	switch {
	case dynamic == 0:
		return pathStatic
	case dynamic == len(segments):
		return pathWhollyDynamic
	default:
		return pathPartiallyDynamic
	}
}

// queryKind classifies declared query parameters for rank derivation.
type queryKind int

const (
	queryStatic queryKind = iota
	queryDynamic
	queryNone
)

// classifyQuery reports how dynamic the declared query parameters are.
func classifyQuery(params []queryParam) queryKind {
	if len(params) == 0 {
		return queryNone
	}
	for _, param := range params {
		if param.dynamic {
			return queryDynamic
		}
	}
	return queryStatic
}

// defaultRank derives a route's rank from its pattern shape. Lower
// ranks are tried first. More static patterns are considered more
// specific; declared query parameters make a pattern more specific than
// the same pattern without them.
//
//	path               query    rank
//	static             static   -6
//	static             dynamic  -5
//	static             none     -4
//	partially dynamic  static   -3
//	partially dynamic  dynamic  -2
//	partially dynamic  none     -1
//	wholly dynamic     static    0
//	wholly dynamic     dynamic   1
//	wholly dynamic     none      2
func defaultRank(segments []segment, params []queryParam) int {
	base := 0
	switch classifyPath(segments) {
	case pathStatic:
		base = -6
	case pathPartiallyDynamic:
		base = -3
	case pathWhollyDynamic:
		base = 0
	}

	switch classifyQuery(params) {
	case queryStatic:
		return base
	case queryDynamic:
		return base + 1
	default:
		return base + 2
	}
}
