package layout

import (
	"math"
	"math/rand/v2"
)

// Force simulation defaults.
const (
	DefaultIterations = 300
	DefaultRepulsion  = 20000.0
	DefaultAttraction = 0.05
	DefaultDamping    = 0.85
	DefaultCutoff     = 600.0
	DefaultMaxStep    = 50.0
	DefaultSpacing    = 100.0
)

// Force is a spring-electrical simulation. Every pair of nodes closer than
// Cutoff repels with strength Repulsion/d², every edge pulls its endpoints
// together with strength Attraction*d, and velocities are multiplied by
// Damping each step. Each iteration is O(n²).
//
// Nodes start at uniformly random points drawn from a generator seeded with
// Seed, so equal inputs and seeds give equal layouts. A connected pair
// settles at distance cbrt(Repulsion/Attraction).
type Force struct {
	Iterations int
	Repulsion  float64
	Attraction float64
	Damping    float64
	Cutoff     float64
	MaxStep    float64
	Seed       uint64
}

func (Force) Name() string { return NameForce }

func (f Force) withDefaults() Force {
	if f.Iterations <= 0 {
		f.Iterations = DefaultIterations
	}
	if f.Repulsion <= 0 {
		f.Repulsion = DefaultRepulsion
	}
	if f.Attraction <= 0 {
		f.Attraction = DefaultAttraction
	}
	if f.Damping <= 0 || f.Damping >= 1 {
		f.Damping = DefaultDamping
	}
	if f.Cutoff <= 0 {
		f.Cutoff = DefaultCutoff
	}
	if f.MaxStep <= 0 {
		f.MaxStep = DefaultMaxStep
	}
	return f
}

type vec struct{ x, y float64 }

// Layout implements [Strategy]. Positions are top-left corners of boxes
// centered on the simulated points.
func (f Force) Layout(nodes []Node, edges []Edge) Result {
	f = f.withDefaults()
	nodes = uniqueNodes(nodes)
	r := make(Result, len(nodes))
	if len(nodes) == 0 {
		return r
	}

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}
	type link struct{ a, b int }
	links := make([]link, 0, len(edges))
	for _, e := range edges {
		a, ok1 := index[e.Source]
		b, ok2 := index[e.Target]
		if ok1 && ok2 && a != b {
			links = append(links, link{a, b})
		}
	}

	rng := rand.New(rand.NewPCG(f.Seed, f.Seed^0x9e3779b97f4a7c15))
	side := DefaultSpacing * math.Sqrt(float64(len(nodes)))
	pos := make([]vec, len(nodes))
	for i := range pos {
		pos[i] = vec{rng.Float64() * side, rng.Float64() * side}
	}
	vel := make([]vec, len(nodes))
	force := make([]vec, len(nodes))

	for it := 0; it < f.Iterations; it++ {
		clear(force)

		for i := 0; i < len(pos); i++ {
			for j := i + 1; j < len(pos); j++ {
				dx, dy := pos[i].x-pos[j].x, pos[i].y-pos[j].y
				d := math.Hypot(dx, dy)
				if d >= f.Cutoff {
					continue
				}
				if d < 0.01 {
					// Coincident points: push apart along a seeded direction.
					angle := rng.Float64() * 2 * math.Pi
					dx, dy, d = math.Cos(angle)*0.01, math.Sin(angle)*0.01, 0.01
				}
				s := f.Repulsion / (d * d)
				fx, fy := dx/d*s, dy/d*s
				force[i].x += fx
				force[i].y += fy
				force[j].x -= fx
				force[j].y -= fy
			}
		}

		for _, l := range links {
			dx, dy := pos[l.b].x-pos[l.a].x, pos[l.b].y-pos[l.a].y
			fx, fy := dx*f.Attraction, dy*f.Attraction
			force[l.a].x += fx
			force[l.a].y += fy
			force[l.b].x -= fx
			force[l.b].y -= fy
		}

		for i := range pos {
			vel[i].x = (vel[i].x + force[i].x) * f.Damping
			vel[i].y = (vel[i].y + force[i].y) * f.Damping
			if speed := math.Hypot(vel[i].x, vel[i].y); speed > f.MaxStep {
				vel[i].x *= f.MaxStep / speed
				vel[i].y *= f.MaxStep / speed
			}
			pos[i].x += vel[i].x
			pos[i].y += vel[i].y
		}
	}

	for i, n := range nodes {
		r[n.ID] = Position{X: pos[i].x - n.Width/2, Y: pos[i].y - n.Height/2}
	}
	translate(r)
	return r
}
