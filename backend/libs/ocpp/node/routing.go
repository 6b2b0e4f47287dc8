package node

import (
	"sort"
	"sync"
	"time"

	"ocppnode/backend/libs/ocpp"
)

// RouteKind orders route sources. Lower kinds win.
type RouteKind int

const (
	RouteDirect RouteKind = iota
	RouteStatic
	RouteLearned
	RouteDefault
)

func (k RouteKind) String() string {
	switch k {
	case RouteDirect:
		return "direct"
	case RouteStatic:
		return "static"
	case RouteLearned:
		return "learned"
	case RouteDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Route says that Destination is reached through the link to NextHop.
type Route struct {
	Destination ocpp.NodeID `json:"destination"`
	NextHop     ocpp.NodeID `json:"nextHop"`
	Kind        RouteKind   `json:"-"`
	KindName    string      `json:"kind"`
	Priority    int         `json:"priority"`
	Distance    int         `json:"distance"`
	ExpiresAt   time.Time   `json:"expiresAt,omitempty"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (r Route) expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// better reports whether r is preferred over o for the same destination.
func (r Route) better(o Route) bool {
	if r.Kind != o.Kind {
		return r.Kind < o.Kind
	}
	if r.Priority != o.Priority {
		return r.Priority < o.Priority
	}
	if r.Distance != o.Distance {
		return r.Distance < o.Distance
	}
	return r.UpdatedAt.After(o.UpdatedAt)
}

// RoutingTable resolves destinations to next hops. Only routes whose next hop
// has an attached link are ever returned.
type RoutingTable struct {
	mu      sync.RWMutex
	links   map[ocpp.NodeID]time.Time
	static  map[ocpp.NodeID]Route
	learned map[ocpp.NodeID]map[ocpp.NodeID]Route
	def     *Route
	now     func() time.Time
}

// NewRoutingTable returns an empty table.
func NewRoutingTable() *RoutingTable {
	return &RoutingTable{
		links:   make(map[ocpp.NodeID]time.Time),
		static:  make(map[ocpp.NodeID]Route),
		learned: make(map[ocpp.NodeID]map[ocpp.NodeID]Route),
		now:     time.Now,
	}
}

// LinkUp marks peer as directly reachable.
func (t *RoutingTable) LinkUp(peer ocpp.NodeID) {
	t.mu.Lock()
	t.links[peer] = t.now()
	t.mu.Unlock()
}

// LinkDown forgets the direct link and every route learned through it.
func (t *RoutingTable) LinkDown(peer ocpp.NodeID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.links, peer)
	t.removeViaLocked(peer)
}

// AddStatic installs a configured route.
func (t *RoutingTable) AddStatic(dest, nextHop ocpp.NodeID, priority int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.static[dest] = Route{Destination: dest, NextHop: nextHop, Kind: RouteStatic, Priority: priority, UpdatedAt: t.now()}
}

// RemoveStatic deletes a configured route.
func (t *RoutingTable) RemoveStatic(dest ocpp.NodeID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.static, dest)
}

// SetDefault routes every otherwise unknown destination through nextHop. An
// empty nextHop clears the default route.
func (t *RoutingTable) SetDefault(nextHop ocpp.NodeID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if nextHop.IsZero() {
		t.def = nil
		return
	}
	t.def = &Route{NextHop: nextHop, Kind: RouteDefault, UpdatedAt: t.now()}
}

// Learn records that dest answers through via. ttl <= 0 keeps the route until
// the link goes down. It reports whether dest was not known through via yet.
func (t *RoutingTable) Learn(dest, via ocpp.NodeID, distance, priority int, ttl time.Duration) bool {
	if dest == via || dest.IsZero() || via.IsZero() {
		return false
	}
	now := t.now()
	r := Route{Destination: dest, NextHop: via, Kind: RouteLearned, Priority: priority, Distance: distance, UpdatedAt: now}
	if ttl > 0 {
		r.ExpiresAt = now.Add(ttl)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	byVia, ok := t.learned[dest]
	if !ok {
		byVia = make(map[ocpp.NodeID]Route)
		t.learned[dest] = byVia
	}
	_, known := byVia[via]
	byVia[via] = r
	return !known
}

// Forget withdraws a learned route.
func (t *RoutingTable) Forget(dest, via ocpp.NodeID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if byVia, ok := t.learned[dest]; ok {
		delete(byVia, via)
		if len(byVia) == 0 {
			delete(t.learned, dest)
		}
	}
}

// ForgetVia drops every route learned through via.
func (t *RoutingTable) ForgetVia(via ocpp.NodeID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.removeViaLocked(via)
}

func (t *RoutingTable) removeViaLocked(via ocpp.NodeID) {
	for dest, byVia := range t.learned {
		delete(byVia, via)
		if len(byVia) == 0 {
			delete(t.learned, dest)
		}
	}
}

// Lookup returns the best usable route to dest.
func (t *RoutingTable) Lookup(dest ocpp.NodeID) (Route, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	now := t.now()

	if at, ok := t.links[dest]; ok {
		return Route{Destination: dest, NextHop: dest, Kind: RouteDirect, KindName: RouteDirect.String(), UpdatedAt: at}, true
	}

	var best Route
	found := false
	consider := func(r Route) {
		if r.expired(now) {
			return
		}
		if _, up := t.links[r.NextHop]; !up {
			return
		}
		if !found || r.better(best) {
			best = r
			found = true
		}
	}
	if r, ok := t.static[dest]; ok {
		consider(r)
	}
	for _, r := range t.learned[dest] {
		consider(r)
	}
	if !found && t.def != nil {
		r := *t.def
		r.Destination = dest
		consider(r)
	}
	if found {
		best.KindName = best.Kind.String()
	}
	return best, found
}

// Routes lists every known route including unusable ones, sorted by
// destination then preference.
func (t *RoutingTable) Routes() []Route {
	t.mu.RLock()
	defer t.mu.RUnlock()
	now := t.now()

	var out []Route
	for peer, at := range t.links {
		out = append(out, Route{Destination: peer, NextHop: peer, Kind: RouteDirect, UpdatedAt: at})
	}
	for _, r := range t.static {
		out = append(out, r)
	}
	for _, byVia := range t.learned {
		for _, r := range byVia {
			if !r.expired(now) {
				out = append(out, r)
			}
		}
	}
	if t.def != nil {
		out = append(out, *t.def)
	}
	for i := range out {
		out[i].KindName = out[i].Kind.String()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Destination != out[j].Destination {
			return out[i].Destination < out[j].Destination
		}
		return out[i].better(out[j])
	})
	return out
}

// Reachable lists destinations behind this node with their shortest distance
// in hops. Routes through except, and except itself, are left out so a
// neighbour is never told about paths that lead back to it.
func (t *RoutingTable) Reachable(except ocpp.NodeID) map[ocpp.NodeID]int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	now := t.now()

	out := make(map[ocpp.NodeID]int, len(t.links))
	add := func(dest ocpp.NodeID, distance int) {
		if dest == except {
			return
		}
		if d, ok := out[dest]; !ok || distance < d {
			out[dest] = distance
		}
	}
	for peer := range t.links {
		add(peer, 1)
	}
	for dest, r := range t.static {
		if _, up := t.links[r.NextHop]; up && r.NextHop != except {
			add(dest, 2)
		}
	}
	for dest, byVia := range t.learned {
		for _, r := range byVia {
			if _, up := t.links[r.NextHop]; up && r.NextHop != except && !r.expired(now) {
				add(dest, r.Distance)
			}
		}
	}
	return out
}

// Purge removes expired learned routes and returns how many were dropped.
func (t *RoutingTable) Purge() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	removed := 0
	for dest, byVia := range t.learned {
		for via, r := range byVia {
			if r.expired(now) {
				delete(byVia, via)
				removed++
			}
		}
		if len(byVia) == 0 {
			delete(t.learned, dest)
		}
	}
	return removed
}
