// Package arena holds the static scene a pawn moves through: obstacles, the
// fence and the two kings.
package arena

import (
	"github.com/zeusync/duel/internal/core/collision"
	"github.com/zeusync/duel/internal/core/geometry"
)

// Response is what happens to the moving pawn when an obstacle's sweep hits.
type Response uint8

const (
	// Block retreats the pawn onto the contact point and ends its motion.
	Block Response = iota
	// Destroy blocks the pawn and sends it to the dying set, unless it is
	// already flagged to vanish.
	Destroy
	// Vanish lets the pawn keep moving and removes it once the shot ends.
	Vanish
)

func (r Response) String() string {
	switch r {
	case Block:
		return "block"
	case Destroy:
		return "destroy"
	case Vanish:
		return "vanish"
	default:
		return "unknown"
	}
}

// Obstacle is anything a moving pawn can be swept against.
type Obstacle interface {
	// Sweep returns the time of impact of moving along velocity, or
	// collision.NoHit.
	Sweep(moving geometry.Circle, velocity geometry.Line) float32
	Response() Response
	Kind() string
}

var (
	_ Obstacle = Wall{}
	_ Obstacle = Tree{}
	_ Obstacle = Hazard{}
	_ Obstacle = Window{}
	_ Obstacle = Fence{}
)

// Wall is a solid box.
type Wall struct {
	Shape geometry.Rectangle
}

func NewWall(origin, size geometry.Vector) Wall {
	return Wall{Shape: geometry.Rect(origin, size)}
}

func (w Wall) Sweep(moving geometry.Circle, velocity geometry.Line) float32 {
	return collision.CircleVsRectangle(moving, w.Shape, velocity)
}

func (Wall) Response() Response { return Block }
func (Wall) Kind() string       { return "wall" }

func (w *Wall) Translate(d geometry.Vector) { w.Shape.Translate(d) }

func (w Wall) MirrorX(p geometry.Vector) Wall { return Wall{w.Shape.MirrorX(p)} }
func (w Wall) MirrorY(p geometry.Vector) Wall { return Wall{w.Shape.MirrorY(p)} }

var (
	treeXs = [6]float32{1, 0.5, -0.5, -1, -0.5, 0.5}
	treeYs = [6]float32{0, 0.5, 0.5, 0, -0.5, -0.5}
)

const sqrt3 = 1.73205080756887729352

// Tree is a closed ring of six circles around a filler disc. Only the ring
// takes part in sweeps; no pawn fits through a gap or reaches the filler.
type Tree struct {
	Ring     [6]geometry.Circle
	Filler   geometry.Circle
	Diameter float32
}

func NewTree(center geometry.Vector, diameter float32) Tree {
	r := diameter / 6
	t := Tree{
		Filler:   geometry.Disc(center, r*1.7321),
		Diameter: diameter,
	}
	for i := range t.Ring {
		t.Ring[i] = geometry.Disc(center.Add(geometry.Vec(2*r*treeXs[i], 2*r*treeYs[i]*sqrt3)), r)
	}
	return t
}

func (t Tree) Center() geometry.Vector { return t.Filler.Center }

func (t Tree) Sweep(moving geometry.Circle, velocity geometry.Line) float32 {
	hit := collision.NoHit
	for _, c := range t.Ring {
		hit = collision.Min(hit, collision.CircleVsCircle(moving, c, velocity))
	}
	return hit
}

func (Tree) Response() Response { return Block }
func (Tree) Kind() string       { return "tree" }

func (t *Tree) Translate(d geometry.Vector) {
	for i := range t.Ring {
		t.Ring[i].Translate(d)
	}
	t.Filler.Translate(d)
}

func (t Tree) MirrorX(p geometry.Vector) Tree {
	for i := range t.Ring {
		t.Ring[i] = t.Ring[i].MirrorX(p)
	}
	t.Filler = t.Filler.MirrorX(p)
	return t
}

// Hazard is an X of four arms from its centre. Touching it kills the pawn.
type Hazard struct {
	Arms [4]geometry.Line
	Size float32
}

func NewHazard(center geometry.Vector, size float32) Hazard {
	half := geometry.Vec(size, size).Div(2)
	return Hazard{
		Arms: [4]geometry.Line{
			geometry.Seg(center, center.Add(half)),
			geometry.Seg(center, center.Sub(half)),
			geometry.Seg(center, center.Add(geometry.Vec(-half.X, half.Y))),
			geometry.Seg(center, center.Add(geometry.Vec(half.X, -half.Y))),
		},
		Size: size,
	}
}

func (h Hazard) Center() geometry.Vector { return h.Arms[0].Start }

func (h Hazard) Sweep(moving geometry.Circle, velocity geometry.Line) float32 {
	hit := collision.NoHit
	for _, arm := range h.Arms {
		hit = collision.Min(hit, collision.CircleVsLine(moving, arm, velocity))
	}
	return hit
}

func (Hazard) Response() Response { return Destroy }
func (Hazard) Kind() string       { return "hazard" }

func (h *Hazard) Translate(d geometry.Vector) {
	for i := range h.Arms {
		h.Arms[i].Translate(d)
	}
}

// Window is a pane a pawn shoots through and dies behind.
type Window struct {
	Shape geometry.Line
}

func NewWindow(start, end geometry.Vector) Window {
	return Window{Shape: geometry.Seg(start, end)}
}

func (w Window) Sweep(moving geometry.Circle, velocity geometry.Line) float32 {
	return collision.CircleVsLine(moving, w.Shape, velocity)
}

func (Window) Response() Response { return Vanish }
func (Window) Kind() string       { return "window" }

func (w *Window) Translate(d geometry.Vector) { w.Shape.Translate(d) }

func (w Window) Length() float32         { return w.Shape.Length() }
func (w Window) Center() geometry.Vector { return w.Shape.Center() }

// Fence bounds the arena. Leaving it kills the pawn.
type Fence struct {
	Shape geometry.Rectangle
}

func (f Fence) Sweep(moving geometry.Circle, velocity geometry.Line) float32 {
	return collision.CircleInsideRectangle(moving, f.Shape, velocity)
}

func (Fence) Response() Response { return Destroy }
func (Fence) Kind() string       { return "fence" }

func (f Fence) Origin() geometry.Vector { return f.Shape.Origin }
func (f Fence) Center() geometry.Vector { return f.Shape.Center() }
func (f Fence) Width() float32          { return f.Shape.Width() }
func (f Fence) Height() float32         { return f.Shape.Height() }
