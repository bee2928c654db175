package roadgraph

// Sink is whatever draws the road network. The Editor hands it a fresh
// Snapshot after every edit that changes the graph; it never sees the
// RoadSystem itself.
type Sink interface {
	Sync(s *Snapshot)
}

// SinkFunc adapts a function to a Sink
type SinkFunc func(s *Snapshot)

// Sync implements Sink
func (f SinkFunc) Sync(s *Snapshot) {
	f(s)
}
