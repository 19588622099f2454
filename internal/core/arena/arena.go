package arena

import (
	"github.com/zeusync/duel/internal/config"
	"github.com/zeusync/duel/internal/core/geometry"
)

// Arena is the built scene.
type Arena struct {
	Fence   Fence
	Walls   []Wall
	Trees   []Tree
	Hazards []Hazard
	Windows []Window

	kings [2]*King
}

// King returns the side's king.
func (a *Arena) King(s Side) *King { return a.kings[s] }

// Obstacles lists every obstacle in the order responses are applied:
// walls, trees, hazards, windows, then the fence.
func (a *Arena) Obstacles() []Obstacle {
	out := make([]Obstacle, 0, len(a.Walls)+len(a.Trees)+len(a.Hazards)+len(a.Windows)+1)
	for _, w := range a.Walls {
		out = append(out, w)
	}
	for _, t := range a.Trees {
		out = append(out, t)
	}
	for _, h := range a.Hazards {
		out = append(out, h)
	}
	for _, w := range a.Windows {
		out = append(out, w)
	}
	return append(out, a.Fence)
}

// ResetLives restores both kings.
func (a *Arena) ResetLives() {
	for _, k := range a.kings {
		k.ResetLife()
	}
}

// New builds the arena described by layout.
func New(p config.Params, layout config.Layout) *Arena {
	var a *Arena
	if layout.Empty() {
		a = Classic(p)
	} else {
		a = &Arena{Fence: ClassicFence(p)}
		if layout.Fence != nil {
			a.Fence = Fence{Shape: rect(*layout.Fence)}
		}
		for _, w := range layout.Walls {
			a.Walls = append(a.Walls, Wall{Shape: rect(w)})
		}
		for _, t := range layout.Trees {
			a.Trees = append(a.Trees, NewTree(vec(t.Center), t.Diameter))
		}
		for _, h := range layout.Hazards {
			a.Hazards = append(a.Hazards, NewHazard(vec(h.Center), h.Size))
		}
		for _, w := range layout.Windows {
			a.Windows = append(a.Windows, NewWindow(vec(w.Start), vec(w.End)))
		}
		a.kings = classicKings(p)
	}

	for _, k := range layout.Kings {
		side, ok := ParseSide(k.Side)
		if !ok {
			continue
		}
		a.kings[side] = NewKing(side, geometry.Disc(vec(k.Body), k.Radius), rect(k.Throne), p.Life)
	}
	return a
}

// ClassicFence keeps two units of margin left and right and one unit top
// and bottom.
func ClassicFence(p config.Params) Fence {
	u := p.UnitLength
	return Fence{Shape: geometry.RectXYWH(2*u, u, p.Width-4*u, p.Height-2*u)}
}

// Classic builds the first map: six walls in two columns, four windows
// closing the column gaps, two hazards on the centre line and four trees.
func Classic(p config.Params) *Arena {
	u := p.UnitLength
	fence := ClassicFence(p)
	a := &Arena{
		Fence:   fence,
		Walls:   make([]Wall, 6),
		Windows: make([]Window, 4),
		Hazards: make([]Hazard, 2),
		Trees:   make([]Tree, 2),
		kings:   classicKings(p),
	}

	for i := range a.Walls {
		a.Walls[i] = NewWall(fence.Origin(), geometry.Vec(u, u).Mul(6))
	}
	wallSize := a.Walls[0].Shape.Size()
	for i := range a.Windows {
		a.Windows[i] = NewWindow(fence.Origin(), fence.Origin().Add(geometry.Vec(0, wallSize.Y)))
	}
	for i := range a.Hazards {
		a.Hazards[i] = NewHazard(geometry.Vector{}, 6*u)
	}
	for i := range a.Trees {
		a.Trees[i] = NewTree(fence.Center(), 6*u)
	}

	// Windows are placed relative to the walls and hazards relative to the
	// windows, so the order matters.
	arrangeWalls(a, fence)
	arrangeWindows(a, fence, wallSize)
	arrangeHazards(a, p)
	arrangeTrees(a, fence)
	return a
}

func arrangeWalls(a *Arena, fence Fence) {
	for i := range a.Walls {
		w := &a.Walls[i]
		if i%2 == 0 {
			w.Translate(geometry.Vec(fence.Width()/4-w.Shape.Width(), 0))
		} else {
			w.Translate(geometry.Vec(fence.Width()*3/4, 0))
		}
		w.Translate(geometry.Vec(0, fence.Height()/2-w.Shape.Height()/2))
	}
	for i := range a.Walls[:2] {
		a.Walls[i].Translate(geometry.Vec(0, -a.Walls[i].Shape.Height()*2))
	}
	for i := len(a.Walls) - 2; i < len(a.Walls); i++ {
		a.Walls[i].Translate(geometry.Vec(0, a.Walls[i].Shape.Height()*2))
	}
}

func arrangeWindows(a *Arena, fence Fence, wallSize geometry.Vector) {
	for i := range a.Windows {
		w := &a.Windows[i]
		if i%2 == 0 {
			w.Translate(geometry.Vec(fence.Width()/4-wallSize.X/2, 0))
		} else {
			w.Translate(geometry.Vec(fence.Width()*3/4+wallSize.X/2, 0))
		}
		w.Translate(geometry.Vec(0, fence.Height()/2-w.Length()/2))
	}
	for i := range a.Windows[:2] {
		a.Windows[i].Translate(geometry.Vec(0, -a.Windows[i].Length()))
	}
	for i := len(a.Windows) - 2; i < len(a.Windows); i++ {
		a.Windows[i].Translate(geometry.Vec(0, a.Windows[i].Length()))
	}
}

func arrangeHazards(a *Arena, p config.Params) {
	first, last := a.Windows[0], a.Windows[len(a.Windows)-1]
	a.Hazards[0].Translate(geometry.Vec(p.Width/2, first.Center().Y))
	a.Hazards[len(a.Hazards)-1].Translate(geometry.Vec(p.Width/2, last.Center().Y))
}

func arrangeTrees(a *Arena, fence Fence) {
	front, back := &a.Trees[0], &a.Trees[len(a.Trees)-1]
	front.Translate(geometry.Vec(0, -fence.Height()*0.5+front.Diameter*0.5))
	back.Translate(geometry.Vec(0, -fence.Height()*0.5+back.Diameter*1.5))

	mirrored := make([]Tree, len(a.Trees))
	for i, t := range a.Trees {
		mirrored[i] = t.MirrorX(fence.Center())
	}
	a.Trees = append(a.Trees, mirrored...)
}

func classicKings(p config.Params) [2]*King {
	u := p.UnitLength
	var kings [2]*King
	kings[Magenta] = NewKing(Magenta,
		geometry.Disc(geometry.Vec(p.Width-u*3.5, p.Height/2), u/2),
		geometry.RectXYWH(p.Width-u*5, p.Height/2-u*1.5, u*3, u*3),
		p.Life)
	kings[Cyan] = NewKing(Cyan,
		geometry.Disc(geometry.Vec(u*3.5, p.Height/2), u/2),
		geometry.RectXYWH(u*2, p.Height/2-u*1.5, u*3, u*3),
		p.Life)
	return kings
}

func vec(p config.Point) geometry.Vector { return geometry.Vec(p[0], p[1]) }

func rect(r config.Rect) geometry.Rectangle { return geometry.RectXYWH(r.X, r.Y, r.W, r.H) }
