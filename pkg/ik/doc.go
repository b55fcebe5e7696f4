// Package ik implements analytic inverse kinematics jobs for skeletal
// animation, currently the closed-form two-bone solver.
//
// A job is a single-shot computation object: construct it with defaults,
// set inputs, call Run, then read the outputs. All state lives in the job
// instance; nothing is shared between instances, so independent jobs may
// run concurrently without coordination. A single instance must not run
// concurrently with itself, since Run overwrites its output fields.
//
// Geometric degeneracies (zero-length bones, a zero-length target vector, a
// pole vector exactly aligned with the target axis) are not errors: they
// are absorbed numerically and may legitimately produce a non-finite output
// rotation in the exact-alignment case. Only a non-normalized mid axis is a
// hard validation failure.
package ik
