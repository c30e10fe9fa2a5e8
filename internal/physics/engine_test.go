package physics

import (
	"testing"

	"github.com/annel0/terra2d/internal/vec"
	"github.com/stretchr/testify/assert"
)

func TestBoxIntersects(t *testing.T) {
	a := Box{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}
	assert.True(t, a.Intersects(Box{MinX: 10, MinY: 10, MaxX: 30, MaxY: 30}))
	assert.False(t, a.Intersects(Box{MinX: 20, MinY: 0, MaxX: 40, MaxY: 20}), "касание гранью не считается пересечением")
	assert.True(t, a.Contains(vec.Vec2Float{X: 0, Y: 19.9}))
	assert.False(t, a.Contains(vec.Vec2Float{X: 20, Y: 5}))
}

func TestCheckBoxCollision(t *testing.T) {
	c := NewBoxCollider(20, 20)
	assert.True(t, CheckBoxCollision(vec.Vec2Float{X: 0, Y: 0}, c, vec.Vec2Float{X: 15, Y: 0}, c))
	assert.False(t, CheckBoxCollision(vec.Vec2Float{X: 0, Y: 0}, c, vec.Vec2Float{X: 20, Y: 0}, c))
}

func TestEngineSurfaces(t *testing.T) {
	e := NewEngine()
	player := NewBoxCollider(16, 36)

	assert.True(t, e.CanMoveToPosition(vec.Vec2Float{X: 0, Y: 0}, player), "пустой мир не мешает движению")

	e.SetSurfaces([]Surface{StaticSurface{CellBox(vec.Vec2Float{X: 0, Y: 0}, 20)}})
	assert.Equal(t, uint64(1), e.Version())
	assert.Equal(t, 1, e.SurfaceCount())
	assert.Equal(t, 1, e.WallCount())
	assert.False(t, e.CanMoveToPosition(vec.Vec2Float{X: 5, Y: 10}, player))
	assert.True(t, e.CanMoveToPosition(vec.Vec2Float{X: 5, Y: 40}, player))

	e.SetSurfaces(nil)
	assert.Equal(t, uint64(2), e.Version())
	assert.False(t, e.Collides(CellBox(vec.Vec2Float{}, 20)))
}

type countingSurface struct {
	walls []Box
	calls int
}

func (s *countingSurface) Walls() []Box {
	s.calls++
	return s.walls
}

func TestSnapshotDetachesFromSource(t *testing.T) {
	src := &countingSurface{walls: []Box{CellBox(vec.Vec2Float{X: 0, Y: 0}, 20)}}
	snap := Snapshot(src)
	assert.Equal(t, 1, src.calls)

	src.walls[0] = CellBox(vec.Vec2Float{X: 100, Y: 100}, 20)
	src.walls = append(src.walls, CellBox(vec.Vec2Float{X: 200, Y: 0}, 20))

	e := NewEngine()
	e.SetSurfaces([]Surface{snap})
	assert.Equal(t, 1, e.WallCount())
	assert.True(t, e.Collides(CellBox(vec.Vec2Float{X: 5, Y: 5}, 10)), "снимок хранит стены на момент копирования")
	assert.Equal(t, 1, src.calls, "движок не обращается к исходной поверхности")
}
