package roadgraph

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/roadgraph/internal/geom"
)

// recorder is a Sink that keeps everything it's sent
type recorder struct {
	snaps []*Snapshot
}

func (r *recorder) Sync(s *Snapshot) {
	r.snaps = append(r.snaps, s)
}

func newTestEditor(t *testing.T) (*Editor, *RoadSystem, *recorder) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SnapDistance = 20
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	rs, err := NewRoadSystem(cfg)
	require.NoError(t, err)
	rec := &recorder{}
	return NewEditor(rs, rec), rs, rec
}

func handle(t *testing.T, e *Editor, kind EventKind, x, y float64) Outcome {
	t.Helper()
	res, err := e.Handle(Event{Kind: kind, Position: geom.Pt(x, y)})
	require.NoError(t, err)
	return res.Outcome
}

func TestEditorIdleIgnoresInput(t *testing.T) {
	e, rs, rec := newTestEditor(t)
	assert.Equal(t, Idle, e.Mode())

	assert.Equal(t, OutcomeIgnored, handle(t, e, Press, 0, 0))
	assert.Equal(t, OutcomeIgnored, handle(t, e, Release, 400, 0))

	assert.Equal(t, Stats{}, rs.Stats())
	assert.Empty(t, rec.snaps)
}

func TestEditorBuild(t *testing.T) {
	e, rs, rec := newTestEditor(t)
	e.SetMode(Building)

	assert.Equal(t, OutcomePreview, handle(t, e, Press, 0, 0))
	assert.Equal(t, OutcomePreview, handle(t, e, Drag, 200, 0))

	p, ok := e.Preview()
	require.True(t, ok)
	assert.False(t, p.Valid)
	assert.Equal(t, geom.Pt(100, 0), p.Midpoint())
	assert.Equal(t, 200.0, p.Length())

	assert.Equal(t, OutcomePreview, handle(t, e, Drag, 0, 400))
	p, _ = e.Preview()
	assert.True(t, p.Valid)
	assert.InDelta(t, math.Pi/2, p.Rotation(), 1e-9)

	// the graph isn't touched until release
	assert.Equal(t, Stats{}, rs.Stats())

	res, err := e.Handle(Event{Kind: Release, Position: geom.Pt(0, 400)})
	require.NoError(t, err)
	assert.Equal(t, OutcomeBuilt, res.Outcome)
	assert.Len(t, res.Change.AddedRoads, 1)

	_, ok = e.Preview()
	assert.False(t, ok)

	assert.Equal(t, Stats{Intersections: 2, Roads: 1}, rs.Stats())
	require.Len(t, rec.snaps, 1)
	assert.Len(t, rec.snaps[0].Roads, 1)
	assert.Equal(t, EditorStats{Built: 1}, e.Stats())
}

func TestEditorRejectsShortRoad(t *testing.T) {
	e, rs, rec := newTestEditor(t)
	e.SetMode(Building)

	handle(t, e, Press, 0, 0)
	assert.Equal(t, OutcomeRejected, handle(t, e, Release, 299, 0))

	assert.Equal(t, Stats{}, rs.Stats())
	assert.Empty(t, rec.snaps)
	assert.Equal(t, EditorStats{Rejected: 1}, e.Stats())
}

func TestEditorReleaseWithoutPress(t *testing.T) {
	e, rs, _ := newTestEditor(t)
	e.SetMode(Building)

	assert.Equal(t, OutcomeIgnored, handle(t, e, Drag, 0, 0))
	assert.Equal(t, OutcomeIgnored, handle(t, e, Release, 400, 0))
	assert.Equal(t, Stats{}, rs.Stats())
}

func TestEditorModeChangeCancelsPreview(t *testing.T) {
	e, rs, _ := newTestEditor(t)
	e.SetMode(Building)

	handle(t, e, Press, 0, 0)
	_, ok := e.Preview()
	require.True(t, ok)

	e.SetMode(Demolishing)
	_, ok = e.Preview()
	assert.False(t, ok)

	e.SetMode(Building)
	assert.Equal(t, OutcomeIgnored, handle(t, e, Release, 400, 0))

	handle(t, e, Press, 0, 0)
	e.Cancel()
	assert.Equal(t, OutcomeIgnored, handle(t, e, Release, 400, 0))

	assert.Equal(t, Stats{}, rs.Stats())
}

func TestEditorSnapsToIntersections(t *testing.T) {
	e, rs, _ := newTestEditor(t)
	e.SetMode(Building)

	handle(t, e, Press, 0, 0)
	require.Equal(t, OutcomeBuilt, handle(t, e, Release, 400, 0))

	// press near the existing end, release near nothing
	handle(t, e, Press, 405, 3)
	p, _ := e.Preview()
	assert.Equal(t, geom.Pt(400, 0), p.Anchor)
	require.Equal(t, OutcomeBuilt, handle(t, e, Release, 400, 400))

	assert.Equal(t, Stats{Intersections: 3, Roads: 2}, rs.Stats())
	corner := nodeAt(t, rs, geom.Pt(400, 0))
	deg, err := rs.Degree(corner)
	require.NoError(t, err)
	assert.Equal(t, 2, deg)
}

func TestEditorBuildAcrossRoad(t *testing.T) {
	e, rs, rec := newTestEditor(t)
	e.SetMode(Building)

	handle(t, e, Press, 0, 0)
	handle(t, e, Release, 1000, 0)
	handle(t, e, Press, 500, -500)
	require.Equal(t, OutcomeBuilt, handle(t, e, Release, 500, 500))

	assert.Equal(t, Stats{Intersections: 5, Roads: 4}, rs.Stats())
	require.Len(t, rec.snaps, 2)
	assert.Equal(t, rs.Snapshot(), rec.snaps[1])
	assert.NoError(t, rs.Validate())
}

func TestEditorDemolish(t *testing.T) {
	e, rs, rec := newTestEditor(t)
	e.SetMode(Building)

	handle(t, e, Press, 0, 0)
	handle(t, e, Release, 400, 0)
	handle(t, e, Press, 400, 0)
	handle(t, e, Release, 400, 400)
	require.Equal(t, Stats{Intersections: 3, Roads: 2}, rs.Stats())

	e.SetMode(Demolishing)
	assert.Equal(t, OutcomeMissed, handle(t, e, Press, 200, 200))
	assert.Equal(t, OutcomeIgnored, handle(t, e, Release, 200, 200))

	res, err := e.Handle(Event{Kind: Press, Position: geom.Pt(402, 200)})
	require.NoError(t, err)
	assert.Equal(t, OutcomeDemolished, res.Outcome)
	assert.Len(t, res.Change.RemovedRoads, 1)
	assert.Len(t, res.Change.RemovedIntersections, 1) // the far end only

	assert.Equal(t, Stats{Intersections: 2, Roads: 1}, rs.Stats())

	assert.Equal(t, OutcomeDemolished, handle(t, e, Press, 200, -1))
	assert.Equal(t, Stats{}, rs.Stats())

	assert.Len(t, rec.snaps, 4)
	assert.Equal(t, EditorStats{Built: 2, Demolished: 2}, e.Stats())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "building", Building.String())
	assert.Equal(t, "mode(9)", Mode(9).String())
	assert.Equal(t, "rejected", OutcomeRejected.String())
}
