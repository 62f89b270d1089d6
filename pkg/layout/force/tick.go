package force

import "math"

// TickStats summarises the work done by one tick.
type TickStats struct {
	Nodes       int // tracked nodes
	Clamps      int // axis clamps applied by the soft bounce
	Corrections int // pairs moved apart by the overlap pass
}

// Tick advances the simulation by one frame. dt is the elapsed time in
// seconds since the previous tick; it only drives the drift oscillators, so
// a jittery scheduler never destabilises the springs. Negative dt counts as 0.
func (e *Engine) Tick(dt float64) TickStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	e.ticks++
	stats := TickStats{Nodes: len(e.order)}
	if len(e.order) == 0 {
		return stats
	}

	e.stepAnchor()
	e.advancePhases(dt)

	// Forces read positions only and write velocities only, so every node
	// sees the same snapshot of its neighbours.
	for _, id := range e.order {
		if id == e.anchorID {
			continue
		}
		b := e.bodies[id]
		if !b.dragging {
			b.vel = b.vel.Add(e.springForce(b))
		}
		b.vel = b.vel.Add(e.repulsion(id, b))
	}

	for _, id := range e.order {
		b := e.bodies[id]
		if id != e.anchorID {
			b.vel = b.vel.Scale(e.params.Friction)
			b.pos = b.pos.Add(b.vel)
		}
		stats.Clamps += e.bounce(b)
	}

	stats.Corrections = e.resolveOverlaps()
	return stats
}

// stepAnchor pulls a free anchor toward the centre of the current canvas.
// The target is recomputed every tick in case the canvas changed without a
// recenter.
func (e *Engine) stepAnchor() {
	a := e.bodies[e.anchorID]
	if a == nil || e.anchorDragging {
		return
	}
	a.target = e.size.Center()
	pull := a.target.Sub(a.pos).Scale(e.params.SpringStrength * anchorStiffness)
	a.vel = a.vel.Add(pull).Scale(e.params.Friction)
	a.pos = a.pos.Add(a.vel)
}

func (e *Engine) advancePhases(dt float64) {
	for _, id := range e.order {
		b := e.bodies[id]
		if b.dragging || id == e.anchorID {
			continue
		}
		b.phase = math.Mod(b.phase+dt*phaseSpeed(b.hash), twoPi)
	}
}

// springForce returns the velocity change pulling b toward its floating
// target, an ellipse of radius driftAmplitude around the base target.
func (e *Engine) springForce(b *body) Vec {
	sx, sy := wobble(b.hash)
	floating := b.target.Add(Vec{
		X: math.Cos(b.phase*sx) * driftAmplitude,
		Y: math.Sin(b.phase*sy) * driftAmplitude * driftAspect,
	})

	pull := gentlePull
	if b.pos.Dist(b.target) > strayLimit*driftAmplitude {
		pull = strongPull
	}
	return floating.Sub(b.pos).Scale(e.params.SpringStrength * pull)
}

// repulsion returns the velocity change pushing b away from every other
// node. Coincident pairs have no direction and are skipped.
func (e *Engine) repulsion(id string, b *body) Vec {
	var dv Vec
	for _, oid := range e.order {
		if oid == id {
			continue
		}
		o := e.bodies[oid]
		delta := b.pos.Sub(o.pos)
		d := delta.Len()
		if d == 0 {
			continue
		}
		required := requiredDistance(b, o)
		away := delta.Scale(1 / d)

		switch {
		case d < required:
			overlap := required - d
			dv = dv.Add(away.Scale(e.params.RepulsionStrength * overlap / (d + 1) * hardRepulsion))
		case d < required*proximityReach:
			outer := required * proximityReach
			proximity := (outer - d) / (outer - required)
			dv = dv.Add(away.Scale(e.params.RepulsionStrength * proximity * softRepulsion))
		}
	}
	return dv
}

// bounce keeps b inside the bounce margin, reflecting and damping the
// velocity on each clamped axis. It returns the number of clamped axes.
func (e *Engine) bounce(b *body) int {
	m := e.params.BounceMargin
	n := 0
	var hit bool
	if b.pos.X, hit = clamp(b.pos.X, m, e.size.Width-m); hit {
		b.vel.X *= bounceRestitution
		n++
	}
	if b.pos.Y, hit = clamp(b.pos.Y, m, e.size.Height-m); hit {
		b.vel.Y *= bounceRestitution
		n++
	}
	return n
}

// contain clamps b to the containment margin without touching velocity.
func (e *Engine) contain(b *body) {
	m := e.params.ContainmentMargin
	b.pos.X, _ = clamp(b.pos.X, m, e.size.Width-m)
	b.pos.Y, _ = clamp(b.pos.Y, m, e.size.Height-m)
}

// resolveOverlaps sweeps every pair once in id order and moves overlapping
// nodes apart until they touch at the required distance. The anchor never
// moves and pushes the other node the whole way; two free nodes split the
// correction. Velocities are left alone. Returns the number of pairs moved.
func (e *Engine) resolveOverlaps() int {
	moved := 0
	for i, id := range e.order {
		a := e.bodies[id]
		for _, oid := range e.order[i+1:] {
			b := e.bodies[oid]
			delta := a.pos.Sub(b.pos)
			d := delta.Len()
			required := requiredDistance(a, b)
			if d >= required {
				continue
			}

			var away Vec // unit vector from b toward a
			if d == 0 {
				away = unitFromAngle(seedPhase(a.hash))
			} else {
				away = delta.Scale(1 / d)
			}
			overlap := required - d

			switch {
			case id == e.anchorID:
				b.pos = b.pos.Sub(away.Scale(overlap))
				e.contain(b)
			case oid == e.anchorID:
				a.pos = a.pos.Add(away.Scale(overlap))
				e.contain(a)
			default:
				half := away.Scale(overlap / 2)
				a.pos = a.pos.Add(half)
				b.pos = b.pos.Sub(half)
				e.contain(a)
				e.contain(b)
			}
			moved++
		}
	}

	for _, id := range e.order {
		if id != e.anchorID {
			e.contain(e.bodies[id])
		}
	}
	return moved
}

func requiredDistance(a, b *body) float64 {
	return (a.radius + b.radius) * separation
}
