package dispatch

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// ErrTableSealed is returned when registering a route after Seal.
var ErrTableSealed = errors.New("dispatch: route table is sealed")

// ErrDuplicateRoute is returned when a route with an identical
// (method, pattern, rank) triple is already registered. Ambiguous
// matching is rejected at build time, not discovered at request time.
var ErrDuplicateRoute = errors.New("dispatch: duplicate route")

// Table is the build-time-populated collection of routes. Registration
// happens before Seal; after Seal the table is immutable and safe for
// concurrent reads without locking.
type Table struct {
	routes []*Route
	keys   map[string]struct{}
	sealed bool
}

// NewTable returns an empty route table.
func NewTable() *Table {
	return &Table{
		keys: make(map[string]struct{}),
	}
}

// NewRoute creates an empty route attached to the table. The route is
// checked and ordered when the table is sealed. After Seal the returned
// route is detached: it carries ErrTableSealed as its configuration
// error and never joins the table.
func (t *Table) NewRoute() *Route {
	if t.sealed {
		return &Route{err: ErrTableSealed}
	}

	route := &Route{}
	t.routes = append(t.routes, route)
	return route
}

// Register adds a fully configured route to the table. It returns
// ErrTableSealed after Seal, the route's own configuration error if any,
// and ErrDuplicateRoute when an identical (method, pattern, rank) triple
// already exists.
func (t *Table) Register(route *Route) error {
	if t.sealed {
		return ErrTableSealed
	}
	if route.err != nil {
		return route.err
	}
	if err := t.check(route); err != nil {
		return err
	}

	t.routes = append(t.routes, route)
	return nil
}

// check verifies the route against already-admitted routes and records
// its identity keys.
func (t *Table) check(route *Route) error {
	methods := route.methods
	if len(methods) == 0 {
		methods = []string{"*"}
	}

	keys := make([]string, 0, len(methods))
	for _, method := range methods {
		key := fmt.Sprintf("%s %s rank=%d", method, route.pattern, route.GetRank())
		if _, dup := t.keys[key]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateRoute, key)
		}
		keys = append(keys, key)
	}

	for _, key := range keys {
		t.keys[key] = struct{}{}
	}
	return nil
}

// Seal transitions the table to its immutable, servable state: pending
// routes are checked, registration order is recorded, and routes are
// ordered by (rank ascending, registration order). Seal fails on the
// first configuration error or duplicate and may be retried after the
// conflict is resolved.
func (t *Table) Seal() error {
	if t.sealed {
		return nil
	}

	for i, route := range t.routes {
		route.index = i
		if route.err != nil {
			return route.err
		}
	}

	// Routes created via NewRoute bypass Register, so duplicates are
	// checked here for the whole set.
	t.keys = make(map[string]struct{})
	for _, route := range t.routes {
		if err := t.check(route); err != nil {
			return err
		}
	}

	sort.SliceStable(t.routes, func(i, j int) bool {
		ri, rj := t.routes[i].GetRank(), t.routes[j].GetRank()
		if ri != rj {
			return ri < rj
		}
		return t.routes[i].index < t.routes[j].index
	})

	t.sealed = true
	return nil
}

// Sealed reports whether the table has been sealed.
func (t *Table) Sealed() bool {
	return t.sealed
}

// Routes returns the sealed routes in candidate order. It returns nil
// before Seal.
func (t *Table) Routes() []*Route {
	if !t.sealed {
		return nil
	}
	return t.routes
}

// Candidates returns the routes matching the request, most specific
// first: rank ascending, then registration order. The result references
// routes owned by the table. An empty result is normal and does not
// signal an error. It returns nil before Seal.
func (t *Table) Candidates(req *http.Request) []*Route {
	if !t.sealed {
		return nil
	}

	var matched []*Route
	for _, route := range t.routes {
		if _, ok := route.match(req); ok {
			matched = append(matched, route)
		}
	}
	return matched
}
