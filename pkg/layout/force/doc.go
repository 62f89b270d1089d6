// Package force implements an incremental force-directed layout engine for
// interactive node-link diagrams.
//
// # Overview
//
// The [Engine] owns the kinematic state of every node in a diagram (position,
// velocity, home target, drift phase, drag flag) plus a single pinned anchor
// and the canvas bounds. It does not decide which nodes exist or what they
// mean; callers feed it node snapshots ([NodeSpec]), canvas sizes and drag
// gestures, and read back [Engine.Positions] once per frame.
//
// Each call to [Engine.Tick] advances the simulation by one frame:
//
//  1. The anchor springs toward the canvas centre (2.5x the normal stiffness).
//  2. Every free node advances its drift phase.
//  3. Free nodes spring toward a slowly wobbling "floating" target around
//     their home position; strays beyond 7.5px get a much stronger pull.
//  4. All non-anchor nodes are repelled by their neighbours, strongly when
//     overlapping and gently when merely close.
//  5. Velocities decay under friction and are integrated into positions.
//  6. Positions are clamped to the canvas with a damped bounce.
//  7. A velocity-free sweep pushes apart any pairs still overlapping.
//
// # Determinism
//
// There is no random number generator. Drift phases and wobble speeds are
// derived from an FNV-1a hash of the node id, and every pass walks nodes in
// sorted id order, so identical inputs produce bit-identical trajectories.
//
// # Running
//
// [Loop] drives an Engine from a [time.Ticker] at a nominal 60Hz, passing the
// measured elapsed time as dt:
//
//	e := force.New(force.DefaultParams())
//	e.Initialize(specs, force.Size{Width: 1600, Height: 1200})
//
//	loop := force.NewLoop(e, force.LoopOptions{})
//	loop.Start(ctx)
//	defer loop.Stop()
//
// # Concurrency
//
// Every exported Engine method takes the same mutex, so drag handlers,
// reconciliation and the tick loop may run on different goroutines. A tick
// always sees a mutually consistent set of positions.
package force
