// Package animation implements the compressed keyframe codec and the
// animation clip container of the gozz runtime.
//
// # Compressed Keys
//
// Translation and scale samples are stored as Float3Key: a normalized time
// ratio, a track index and three IEEE 754 half-precision floats. Rotation
// samples are stored as QuaternionKey: the quaternion's largest-magnitude
// component is dropped at encode time and only the remaining three are kept
// as signed fixed-point values scaled by 32767*sqrt(2). Because the
// quaternion is known to be unit length, the dropped component is restored
// analytically on decode; this saves more than 25% of rotation storage.
//
// Every key type decodes through two equivalent paths: a scalar
// Decompress method, which is the reference for correctness, and a 4-wide
// batched variant that decodes four independent tracks' keys in lockstep
// into structure-of-arrays lanes for sampler throughput.
//
// # Clips
//
// An Animation owns three key sequences, ordered by (track, ratio), each
// track bracketed by sentinel keys at ratio 0 and 1. Clips are built once
// from an archive stream (see ReadAnimation) and are immutable afterwards,
// so they are safe for unlimited concurrent read access.
package animation
