package viz

import (
	"math"

	"github.com/san-kum/matsim/internal/lattice"
	"github.com/san-kum/matsim/internal/particle"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera projects normalised scene coordinates, roughly [-1, 1] on each
// axis, onto the canvas with a simple perspective.
type Camera struct {
	RotX, RotY float64
	Zoom       float64
	Distance   float64
}

func NewCamera() *Camera {
	return &Camera{RotX: 0.35, RotY: -0.5, Zoom: 1, Distance: 4}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotate(p r3.Vec) r3.Vec {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	return p
}

// Project maps p to pixel coordinates on a sw×sh raster and reports whether
// it lands on screen.
func (c *Camera) Project(p r3.Vec, sw, sh int) (int, int, bool) {
	rot := r3.Scale(c.Zoom, c.rotate(p))
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, false
	}
	persp := c.Distance / (c.Distance - rot.Z)
	half := 0.45 * math.Min(float64(sw), float64(sh)*0.5)
	x := int(rot.X*persp*half) + sw/2
	// dots are twice as tall as wide
	y := int(-rot.Y*persp*half*0.5) + sh/2
	return x, y, x >= 0 && x < sw && y >= 0 && y < sh
}

// normaliser maps cell coordinates into the camera's [-1, 1] box centred
// on the cell centre.
type normaliser struct {
	centre r3.Vec
	scale  float64
}

func newNormaliser(cell lattice.Lattice) normaliser {
	diag := r3.Add(r3.Add(cell.A1, cell.A2), cell.A3)
	size := math.Max(r3.Norm(cell.A1), math.Max(r3.Norm(cell.A2), r3.Norm(cell.A3)))
	if size == 0 {
		size = 1
	}
	return normaliser{centre: r3.Scale(0.5, diag), scale: 2 / size}
}

func (n normaliser) apply(p r3.Vec) r3.Vec {
	return r3.Scale(n.scale, r3.Sub(p, n.centre))
}

// cellEdges lists the 12 edges of the parallelepiped spanned by the cell.
func cellEdges(cell lattice.Lattice) [12][2]r3.Vec {
	o := r3.Vec{}
	a, b, c := cell.A1, cell.A2, cell.A3
	ab, ac, bc := r3.Add(a, b), r3.Add(a, c), r3.Add(b, c)
	abc := r3.Add(ab, c)
	return [12][2]r3.Vec{
		{o, a}, {o, b}, {o, c},
		{a, ab}, {a, ac}, {b, ab}, {b, bc}, {c, ac}, {c, bc},
		{ab, abc}, {ac, abc}, {bc, abc},
	}
}

// RenderParticles draws the cell outline and every particle. Without a cell
// the particles' bounding box is used for scaling.
func RenderParticles(cv *Canvas, cam *Camera, sys *particle.System, cell *lattice.Lattice) {
	cv.Clear()
	if sys == nil {
		return
	}
	sw, sh := cv.Pixels()

	var norm normaliser
	if cell != nil {
		norm = newNormaliser(*cell)
		for _, e := range cellEdges(*cell) {
			x0, y0, ok0 := cam.Project(norm.apply(e[0]), sw, sh)
			x1, y1, ok1 := cam.Project(norm.apply(e[1]), sw, sh)
			if ok0 && ok1 {
				cv.DrawLine(x0, y0, x1, y1)
			}
		}
	} else {
		norm = boundsNormaliser(sys)
	}
	for _, p := range sys.Particles() {
		if x, y, ok := cam.Project(norm.apply(p.Pos), sw, sh); ok {
			cv.Blob(x, y)
		}
	}
}

func boundsNormaliser(sys *particle.System) normaliser {
	if sys.Len() == 0 {
		return normaliser{scale: 1}
	}
	lo, hi := sys.At(0).Pos, sys.At(0).Pos
	for _, p := range sys.Particles() {
		lo = r3.Vec{X: math.Min(lo.X, p.Pos.X), Y: math.Min(lo.Y, p.Pos.Y), Z: math.Min(lo.Z, p.Pos.Z)}
		hi = r3.Vec{X: math.Max(hi.X, p.Pos.X), Y: math.Max(hi.Y, p.Pos.Y), Z: math.Max(hi.Z, p.Pos.Z)}
	}
	ext := r3.Sub(hi, lo)
	side := math.Max(ext.X, math.Max(ext.Y, ext.Z))
	if side == 0 {
		side = 1
	}
	return normaliser{centre: r3.Scale(0.5, r3.Add(lo, hi)), scale: 2 / side}
}
