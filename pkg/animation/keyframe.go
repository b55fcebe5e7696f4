package animation

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/x448/float16"
)

// Float3Key is a compressed translation or scale sample: one track's value
// at one time ratio, quantized to three half-precision floats.
type Float3Key struct {
	Ratio float32
	Track uint16
	Value [3]uint16
}

// halfToFloat expands one IEEE 754 half-precision value.
func halfToFloat(bits uint16) float32 {
	return float16.Frombits(bits).Float32()
}

// Decompress expands the three half-precision components to full precision.
func (k *Float3Key) Decompress() mgl32.Vec3 {
	return mgl32.Vec3{
		halfToFloat(k.Value[0]),
		halfToFloat(k.Value[1]),
		halfToFloat(k.Value[2]),
	}
}

// SoaFloat3 is a transient 4-lane decode buffer: one float3 value per lane,
// each lane belonging to a different track's key.
type SoaFloat3 struct {
	X, Y, Z [4]float32
}

// DecompressFloat3x4 decodes four keys' values in lockstep into out. Lane i
// of every component belongs to key i. Used when a sampler advances four
// independent tracks together.
func DecompressFloat3x4(k0, k1, k2, k3 *Float3Key, out *SoaFloat3) {
	out.X = [4]float32{halfToFloat(k0.Value[0]), halfToFloat(k1.Value[0]), halfToFloat(k2.Value[0]), halfToFloat(k3.Value[0])}
	out.Y = [4]float32{halfToFloat(k0.Value[1]), halfToFloat(k1.Value[1]), halfToFloat(k2.Value[1]), halfToFloat(k3.Value[1])}
	out.Z = [4]float32{halfToFloat(k0.Value[2]), halfToFloat(k1.Value[2]), halfToFloat(k2.Value[2]), halfToFloat(k3.Value[2])}
}

// QuaternionKey is a compressed rotation sample. The track index, the index
// of the omitted (largest-magnitude) component and that component's sign
// share one packed 16-bit field; the three remaining components are stored
// as signed fixed-point values scaled by 32767*sqrt(2).
type QuaternionKey struct {
	Ratio float32
	bits  uint16
	Value [3]int16
}

// NewQuaternionKey builds a key from unpacked fields. track uses 13 bits,
// largest 2 and sign 1; higher bits are discarded.
func NewQuaternionKey(ratio float32, track uint16, largest, sign uint8, value [3]int16) QuaternionKey {
	return QuaternionKey{
		Ratio: ratio,
		bits:  PackQuaternionBits(track, largest, sign),
		Value: value,
	}
}

// PackQuaternionBits packs track (13 bits), largest (2 bits) and sign
// (1 bit) into the key's single bit field. This layout is wire-compatible
// state, not an implementation detail: deserialization must reproduce it
// exactly.
func PackQuaternionBits(track uint16, largest, sign uint8) uint16 {
	return (track&0x1fff)<<3 | uint16(largest&0x3)<<1 | uint16(sign&0x1)
}

// Track returns the track index this key belongs to.
func (k *QuaternionKey) Track() uint16 { return k.bits >> 3 }

// Largest returns the index, in [0,3], of the quaternion component omitted
// at encode time.
func (k *QuaternionKey) Largest() uint8 { return uint8((k.bits >> 1) & 0x3) }

// Sign returns 1 if the omitted component is negative, 0 otherwise.
func (k *QuaternionKey) Sign() uint8 { return uint8(k.bits & 0x1) }

// quatScale rescales the stored fixed-point components. The three smallest
// components of a unit quaternion never exceed 1/sqrt(2) in magnitude.
const quatScale = 1.0 / (32767.0 * math.Sqrt2)

// wwFloor keeps the restored component's squared magnitude strictly
// positive before the square root.
const wwFloor = 1e-16

// quatMapping routes the three stored values into the three non-largest
// component slots, indexed by Largest. A lookup table keeps the decode
// branch-free and batch-friendly; the largest slot is zeroed afterwards,
// making its mapping entry irrelevant.
var quatMapping = [4][4]int{{0, 0, 1, 2}, {0, 0, 1, 2}, {0, 1, 0, 2}, {0, 1, 2, 0}}

// Decompress reconstructs the full-precision quaternion. The omitted
// component is restored as sign * sqrt(max(wwFloor, 1 - dot)) where dot is
// the squared norm of the three stored components.
func (k *QuaternionKey) Decompress() mgl32.Quat {
	largest := k.Largest()
	m := &quatMapping[largest]

	var cpnt [4]float32
	cpnt[0] = float32(k.Value[m[0]]) * quatScale
	cpnt[1] = float32(k.Value[m[1]]) * quatScale
	cpnt[2] = float32(k.Value[m[2]]) * quatScale
	cpnt[3] = float32(k.Value[m[3]]) * quatScale
	cpnt[largest] = 0

	dot := cpnt[0]*cpnt[0] + cpnt[1]*cpnt[1] + cpnt[2]*cpnt[2] + cpnt[3]*cpnt[3]
	restored := float32(math.Sqrt(math.Max(wwFloor, float64(1-dot))))
	if k.Sign() != 0 {
		restored = -restored
	}
	cpnt[largest] = restored

	return mgl32.Quat{W: cpnt[3], V: mgl32.Vec3{cpnt[0], cpnt[1], cpnt[2]}}
}

// SoaQuaternion is a transient 4-lane decode buffer: one quaternion per
// lane, each lane belonging to a different track's key.
type SoaQuaternion struct {
	X, Y, Z, W [4]float32
}

// DecompressQuaternionx4 reconstructs four keys' quaternions in lockstep
// into out. Each key's Largest index can differ, so the restored component
// is injected into a different component row per key, always in that key's
// own lane: the row's cleared slot holds positive zero, and the restored
// value, with the sign bit folded in through integer bit operations, is
// merged with a bitwise or.
func DecompressQuaternionx4(k0, k1, k2, k3 *QuaternionKey, out *SoaQuaternion) {
	keys := [4]*QuaternionKey{k0, k1, k2, k3}

	var cpnt [4][4]float32
	for lane, k := range keys {
		m := &quatMapping[k.Largest()]
		var cmp [4]float32
		cmp[0] = float32(k.Value[m[0]])
		cmp[1] = float32(k.Value[m[1]])
		cmp[2] = float32(k.Value[m[2]])
		cmp[3] = float32(k.Value[m[3]])
		cmp[k.Largest()] = 0
		for c := 0; c < 4; c++ {
			cpnt[c][lane] = cmp[c] * quatScale
		}
	}

	for lane, k := range keys {
		dot := cpnt[0][lane]*cpnt[0][lane] + cpnt[1][lane]*cpnt[1][lane] +
			cpnt[2][lane]*cpnt[2][lane] + cpnt[3][lane]*cpnt[3][lane]
		ww := float32(math.Max(wwFloor, float64(1-dot)))
		restored := math.Float32bits(float32(math.Sqrt(float64(ww)))) | uint32(k.Sign())<<31

		largest := k.Largest()
		cpnt[largest][lane] = math.Float32frombits(math.Float32bits(cpnt[largest][lane]) | restored)
	}

	out.X = cpnt[0]
	out.Y = cpnt[1]
	out.Z = cpnt[2]
	out.W = cpnt[3]
}
