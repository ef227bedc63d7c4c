// Package engine defines the rigid-body engine boundary the simulator
// drives, and World, a small reference implementation of it.
//
//   - [Engine]: body poses, constraint lifecycle, point forces, stepping
//   - [World]: penalty-constraint rigid bodies integrated with
//     [integrators.Integrator]
//
// Constraint softness is given the way ODE-style solvers expect it, as an
// error reduction parameter (ERP) and constraint force mixing (CFM). World
// maps them onto an equivalent spring and damper:
//
//	k = ERP / (CFM * h)
//	c = (1 - ERP) / CFM
//
// where h is the configured step size. A CFM of zero is floored at
// [MinCFM].
package engine
