package main

import (
	"github.com/annel0/terra2d/internal/physics"
	"github.com/annel0/terra2d/internal/storage"
	"github.com/annel0/terra2d/internal/streaming"
	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world"
)

// walker игрок, который ходит между границами мира на высоте неба
type walker struct {
	pos        vec.Vec2Float
	facing     streaming.Facing
	speed      float64
	minX, maxX float64
	collider   *physics.BoxCollider
}

func newWalker(meta storage.WorldMeta, speed float64) *walker {
	minX := world.ChunkWorldX(meta.MinIndex)
	maxX := world.ChunkWorldX(meta.MaxIndex) + world.ChunkPixels - world.CellSize
	x := min(max(0, minX), maxX)
	return &walker{
		pos:      vec.Vec2Float{X: x, Y: float64(meta.YMin+meta.Height-8) * world.CellSize},
		facing:   streaming.FacingRight,
		speed:    speed,
		minX:     minX,
		maxX:     maxX,
		collider: physics.NewBoxCollider(world.CellSize*0.8, world.CellSize*1.8),
	}
}

// step сдвигает игрока и разворачивает его у границы мира
func (w *walker) step() (vec.Vec2Float, streaming.Facing) {
	next := w.pos.X + float64(w.facing)*w.speed
	if next > w.maxX || next < w.minX {
		w.facing = -w.facing
		next = w.pos.X + float64(w.facing)*w.speed
	}
	w.pos.X = next
	return w.pos, w.facing
}
