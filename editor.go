package roadgraph

import (
	"fmt"
	"log/slog"

	"github.com/voidshard/roadgraph/internal/geom"
)

// Mode is what the Editor does with pointer input
type Mode int

const (
	// Idle ignores all input
	Idle Mode = iota

	// Building draws new roads; press to anchor, drag to preview, release to build
	Building

	// Demolishing removes the road under a press
	Demolishing
)

// String returns the name of the mode
func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Building:
		return "building"
	case Demolishing:
		return "demolishing"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// EventKind is the type of pointer event
type EventKind int

const (
	// Press is the pointer going down
	Press EventKind = iota

	// Drag is the pointer moving while down
	Drag

	// Release is the pointer coming back up
	Release
)

// Event is a pointer event, already converted into world space
type Event struct {
	Kind     EventKind
	Position geom.Point
}

// Outcome is what handling an Event did
type Outcome int

const (
	// OutcomeIgnored means the event meant nothing in the current mode
	OutcomeIgnored Outcome = iota

	// OutcomePreview means the preview was started or moved
	OutcomePreview

	// OutcomeBuilt means a road was added
	OutcomeBuilt

	// OutcomeRejected means the candidate road failed validation & was dropped
	OutcomeRejected

	// OutcomeDemolished means a road was removed
	OutcomeDemolished

	// OutcomeMissed means a demolition press hit no road
	OutcomeMissed
)

// String returns the name of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomePreview:
		return "preview"
	case OutcomeBuilt:
		return "built"
	case OutcomeRejected:
		return "rejected"
	case OutcomeDemolished:
		return "demolished"
	case OutcomeMissed:
		return "missed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result is returned from Editor.Handle
type Result struct {
	Outcome Outcome

	// Change is set for OutcomeBuilt & OutcomeDemolished
	Change *Change
}

// Preview is the road currently being dragged out. It only exists in the
// Editor; the graph is untouched until release.
type Preview struct {
	Anchor geom.Point
	End    geom.Point

	// Valid reports if releasing now would build the road
	Valid bool
}

// Segment returns the previewed road
func (p Preview) Segment() geom.Segment {
	return geom.Seg(p.Anchor, p.End)
}

// Midpoint returns where a sprite for the preview should be centred
func (p Preview) Midpoint() geom.Point {
	return p.Segment().Midpoint()
}

// Length of the preview
func (p Preview) Length() float64 {
	return p.Segment().Length()
}

// Rotation of the preview, radians counter clockwise from +X
func (p Preview) Rotation() float64 {
	return p.Segment().Rotation()
}

// EditorStats counts what an Editor has done
type EditorStats struct {
	Built      int
	Rejected   int
	Demolished int
}

// String implements fmt.Stringer
func (s EditorStats) String() string {
	return fmt.Sprintf("Editor built:%d rejected:%d demolished:%d", s.Built, s.Rejected, s.Demolished)
}

// Editor turns pointer events into edits of a RoadSystem
type Editor struct {
	rs   *RoadSystem
	sink Sink
	log  *slog.Logger

	mode    Mode
	preview *Preview
	stats   EditorStats
}

// NewEditor returns an Idle editor over rs. Sink may be nil.
func NewEditor(rs *RoadSystem, sink Sink) *Editor {
	return &Editor{
		rs:   rs,
		sink: sink,
		log:  rs.cfg.Logger.With("component", "editor"),
		mode: Idle,
	}
}

// Mode returns the current mode
func (e *Editor) Mode() Mode {
	return e.mode
}

// SetMode switches mode, dropping any preview in progress
func (e *Editor) SetMode(m Mode) {
	if m == e.mode {
		return
	}
	e.log.Debug("mode changed", "from", e.mode, "to", m)
	e.mode = m
	e.preview = nil
}

// Preview returns the road being dragged out, if any
func (e *Editor) Preview() (Preview, bool) {
	if e.preview == nil {
		return Preview{}, false
	}
	return *e.preview, true
}

// Cancel drops any preview in progress
func (e *Editor) Cancel() {
	e.preview = nil
}

// Stats returns counts of what the editor has done
func (e *Editor) Stats() EditorStats {
	return e.stats
}

// Handle processes a single pointer event
func (e *Editor) Handle(ev Event) (*Result, error) {
	switch e.mode {
	case Building:
		return e.build(ev)
	case Demolishing:
		return e.demolish(ev)
	}
	return &Result{Outcome: OutcomeIgnored}, nil
}

// build handles events in Building mode
func (e *Editor) build(ev Event) (*Result, error) {
	switch ev.Kind {
	case Press:
		anchor := e.snap(ev.Position)
		e.preview = &Preview{Anchor: anchor, End: anchor}
		return &Result{Outcome: OutcomePreview}, nil
	case Drag:
		if e.preview == nil {
			return &Result{Outcome: OutcomeIgnored}, nil
		}
		e.preview.End = ev.Position
		e.preview.Valid = e.rs.ValidConnection(e.preview.Anchor, e.snap(ev.Position))
		return &Result{Outcome: OutcomePreview}, nil
	case Release:
		if e.preview == nil {
			return &Result{Outcome: OutcomeIgnored}, nil
		}
		anchor, end := e.preview.Anchor, e.snap(ev.Position)
		e.preview = nil

		if !e.rs.ValidConnection(anchor, end) {
			e.stats.Rejected++
			e.log.Debug("road rejected", "from", anchor, "to", end)
			return &Result{Outcome: OutcomeRejected}, nil
		}

		chg, err := e.rs.AddRoad(anchor, end)
		if err != nil {
			return nil, err
		}

		e.stats.Built++
		e.log.Info("road built", "from", anchor, "to", end, "roads", len(chg.AddedRoads), "split", len(chg.RemovedRoads))
		e.sync()

		return &Result{Outcome: OutcomeBuilt, Change: chg}, nil
	}
	return &Result{Outcome: OutcomeIgnored}, nil
}

// demolish handles events in Demolishing mode
func (e *Editor) demolish(ev Event) (*Result, error) {
	if ev.Kind != Press {
		return &Result{Outcome: OutcomeIgnored}, nil
	}

	road, ok := e.rs.PointIntersectConnection(ev.Position)
	if !ok {
		return &Result{Outcome: OutcomeMissed}, nil
	}

	chg, err := e.rs.RemoveRoad(road.ID)
	if err != nil {
		return nil, err
	}
	chg.merge(&Change{RemovedIntersections: e.rs.PruneIsolated(road.A, road.B)})

	e.stats.Demolished++
	e.log.Info("road demolished", "road", road.ID, "pruned", len(chg.RemovedIntersections))
	e.sync()

	return &Result{Outcome: OutcomeDemolished, Change: chg}, nil
}

// snap moves p onto an intersection within SnapDistance, if there is one
func (e *Editor) snap(p geom.Point) geom.Point {
	id, ok := e.rs.NearestIntersection(p, e.rs.cfg.SnapDistance)
	if !ok {
		return p
	}
	n, _ := e.rs.Intersection(id)
	return n.Position
}

// sync sends a fresh snapshot to the sink
func (e *Editor) sync() {
	if e.sink == nil {
		return
	}
	e.sink.Sync(e.rs.Snapshot())
}
