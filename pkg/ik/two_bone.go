package ik

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidJob indicates a job precondition was violated; for the two-bone
// job this means the mid axis is not normalized.
var ErrInvalidJob = errors.New("ik: invalid job: mid axis must be normalized")

// TwoBoneJob computes the local rotation corrections to apply to the first
// two joints of a three-joint chain (start, mid, end) so that the end joint
// reaches a target position, if possible.
//
// The three joints must be ancestors of one another, but not necessarily
// direct ancestors; joints in between simply stay fixed. All positions and
// matrices are model-space.
type TwoBoneJob struct {
	target     mgl32.Vec3
	midAxis    mgl32.Vec3
	poleVector mgl32.Vec3
	twistAngle float32
	soften     float32
	weight     float32
	startJoint mgl32.Mat4
	midJoint   mgl32.Mat4
	endJoint   mgl32.Mat4

	startJointCorrection mgl32.Quat
	midJointCorrection   mgl32.Quat
	reached              bool
}

// NewTwoBoneJob returns a job with identity joint transforms, a zero
// target, mid axis +Z, pole vector +Y, soften 1 and weight 1.
func NewTwoBoneJob() *TwoBoneJob {
	return &TwoBoneJob{
		midAxis:              mgl32.Vec3{0, 0, 1},
		poleVector:           mgl32.Vec3{0, 1, 0},
		soften:               1,
		weight:               1,
		startJoint:           mgl32.Ident4(),
		midJoint:             mgl32.Ident4(),
		endJoint:             mgl32.Ident4(),
		startJointCorrection: mgl32.QuatIdent(),
		midJointCorrection:   mgl32.QuatIdent(),
	}
}

// Target returns the model-space position the end joint tries to reach.
func (j *TwoBoneJob) Target() mgl32.Vec3 { return j.target }

// SetTarget sets the model-space position the end joint tries to reach.
func (j *TwoBoneJob) SetTarget(v mgl32.Vec3) { j.target = v }

// MidAxis returns the mid joint rotation axis.
func (j *TwoBoneJob) MidAxis() mgl32.Vec3 { return j.midAxis }

// SetMidAxis sets the normalized bend axis, in mid joint local space. A
// positive rotation around it opens the angle between the two bones, which
// fixes the side the chain bends to. Run fails if the axis is not
// normalized.
func (j *TwoBoneJob) SetMidAxis(v mgl32.Vec3) { j.midAxis = v }

// PoleVector returns the model-space pole vector.
func (j *TwoBoneJob) PoleVector() mgl32.Vec3 { return j.poleVector }

// SetPoleVector sets the model-space direction the mid joint points to,
// orienting the bend plane. The chain orientation flips when the target
// vector and the pole vector cross each other; avoiding that alignment is
// the caller's responsibility.
func (j *TwoBoneJob) SetPoleVector(v mgl32.Vec3) { j.poleVector = v }

// TwistAngle returns the twist rotation in radians.
func (j *TwoBoneJob) TwistAngle() float32 { return j.twistAngle }

// SetTwistAngle sets an extra rotation of the chain around the
// start-to-target axis.
func (j *TwoBoneJob) SetTwistAngle(v float32) { j.twistAngle = v }

// Soften returns the soften ratio.
func (j *TwoBoneJob) Soften() float32 { return j.soften }

// SetSoften sets the fraction of the chain's reach at which the solver
// starts falling behind the target, so the chain never snaps into full
// extension. Clamped to [0, 1] at run time.
func (j *TwoBoneJob) SetSoften(v float32) { j.soften = v }

// Weight returns the correction blend weight.
func (j *TwoBoneJob) Weight() float32 { return j.weight }

// SetWeight sets how much of the computed correction is applied, from none
// (0) to full (1). Values outside that range are clamped.
func (j *TwoBoneJob) SetWeight(v float32) { j.weight = v }

// StartJoint returns the start joint's model-space transform.
func (j *TwoBoneJob) StartJoint() mgl32.Mat4 { return j.startJoint }

// SetStartJoint sets the start joint's model-space transform.
func (j *TwoBoneJob) SetStartJoint(m mgl32.Mat4) { j.startJoint = m }

// MidJoint returns the mid joint's model-space transform.
func (j *TwoBoneJob) MidJoint() mgl32.Mat4 { return j.midJoint }

// SetMidJoint sets the mid joint's model-space transform.
func (j *TwoBoneJob) SetMidJoint(m mgl32.Mat4) { j.midJoint = m }

// EndJoint returns the end joint's model-space transform.
func (j *TwoBoneJob) EndJoint() mgl32.Mat4 { return j.endJoint }

// SetEndJoint sets the end joint's model-space transform.
func (j *TwoBoneJob) SetEndJoint(m mgl32.Mat4) { j.endJoint = m }

// StartJointCorrection returns the local-space rotation to compose onto
// the start joint. Valid until the next mutation or Run.
func (j *TwoBoneJob) StartJointCorrection() mgl32.Quat { return j.startJointCorrection }

// ClearStartJointCorrection resets the start correction to identity.
func (j *TwoBoneJob) ClearStartJointCorrection() { j.startJointCorrection = mgl32.QuatIdent() }

// MidJointCorrection returns the local-space rotation to compose onto the
// mid joint. Valid until the next mutation or Run.
func (j *TwoBoneJob) MidJointCorrection() mgl32.Quat { return j.midJointCorrection }

// ClearMidJointCorrection resets the mid correction to identity.
func (j *TwoBoneJob) ClearMidJointCorrection() { j.midJointCorrection = mgl32.QuatIdent() }

// Reached reports whether the target was considered reachable by the last
// Run: the softened target lies within the triangle the two bone lengths
// can form, and the weight is at least 1.
func (j *TwoBoneJob) Reached() bool { return j.reached }

// ClearReached resets the reached flag.
func (j *TwoBoneJob) ClearReached() { j.reached = false }

// ClearOutputs resets all outputs.
func (j *TwoBoneJob) ClearOutputs() {
	j.ClearStartJointCorrection()
	j.ClearMidJointCorrection()
	j.ClearReached()
}

// validate checks job preconditions.
func (j *TwoBoneJob) validate() bool {
	return isNormalized(j.midAxis)
}

// constantSetup holds the run invariants: joint-space conversions of the
// chain and the squared bone segment lengths, squared to defer the square
// roots.
type constantSetup struct {
	invStartJoint mgl32.Mat4

	// Chain segments in mid joint space (ms) and start joint space (ss).
	startMidMS mgl32.Vec3
	midEndMS   mgl32.Vec3
	startMidSS mgl32.Vec3

	startMidSSLenSq float32
	midEndSSLenSq   float32
	startEndSSLenSq float32
}

func newConstantSetup(j *TwoBoneJob) constantSetup {
	invStart := j.startJoint.Inv()
	invMid := j.midJoint.Inv()

	startMS := transformPoint(invMid, translation(j.startJoint))
	endMS := transformPoint(invMid, translation(j.endJoint))
	midSS := transformPoint(invStart, translation(j.midJoint))
	endSS := transformPoint(invStart, translation(j.endJoint))

	midEndSS := endSS.Sub(midSS)

	return constantSetup{
		invStartJoint:   invStart,
		startMidMS:      startMS.Mul(-1),
		midEndMS:        endMS,
		startMidSS:      midSS,
		startMidSSLenSq: midSS.LenSqr(),
		midEndSSLenSq:   midEndSS.LenSqr(),
		startEndSSLenSq: endSS.LenSqr(),
	}
}

// Run solves the job. It returns ErrInvalidJob if the mid axis is not
// normalized, and performs no computation in that case. Outputs stay valid
// until the next mutation or Run.
func (j *TwoBoneJob) Run() error {
	if !j.validate() {
		return ErrInvalidJob
	}

	// No correction to apply.
	if j.weight <= 0 {
		j.startJointCorrection = mgl32.QuatIdent()
		j.midJointCorrection = mgl32.QuatIdent()
		j.reached = false
		return nil
	}

	setup := newConstantSetup(j)

	reached, startTargetSS, startTargetSSLenSq := j.softenTarget(&setup)
	j.reached = reached && j.weight >= 1

	midRotMS := j.computeMidJoint(&setup, startTargetSSLenSq)
	startRotSS := j.computeStartJoint(&setup, midRotMS, startTargetSS, startTargetSSLenSq)
	j.weightOutput(startRotSS, midRotMS)
	return nil
}

// softenTarget rescales the start-to-target vector so the chain
// asymptotically approaches, but never hits, full extension. It returns the
// raw reachability of the target plus the softened target vector and its
// squared length, in start joint space.
func (j *TwoBoneJob) softenTarget(setup *constantSetup) (bool, mgl32.Vec3, float32) {
	startTargetOrig := transformPoint(setup.invStartJoint, j.target)
	lenOrigSq := startTargetOrig.LenSqr()
	lenOrig := sqrt(lenOrigSq)

	startMidLen := sqrt(setup.startMidSSLenSq)
	midEndLen := sqrt(setup.midEndSSLenSq)
	boneLenDiff := mgl32.Abs(startMidLen - midEndLen)
	chainLen := startMidLen + midEndLen

	// da is the distance at which softening kicks in, ds the width of the
	// softening zone up to full extension.
	da := chainLen * clampOrMin(j.soften, 0, 1)
	ds := chainLen - da

	target, lenSq := startTargetOrig, lenOrigSq
	if lenOrig > da && lenOrig > 0 && ds > 0 {
		// Quartic falloff: the constants are a fixed contract, not a
		// tunable curve shape.
		alpha := (lenOrig - da) / ds
		op := alpha + 3
		op2 := op * op
		ratio := 81 / (op2 * op2)

		softLen := da + ds - ds*ratio
		lenSq = softLen * softLen
		target = startTargetOrig.Mul(softLen / lenOrig)
	}

	reached := lenOrig <= da && lenOrig > boneLenDiff
	return reached, target, lenSq
}

// computeMidJoint returns the mid joint correction, in mid joint space: the
// signed difference between the bend angle required by the law of cosines
// and the chain's current bend angle, around the caller's mid axis.
func (j *TwoBoneJob) computeMidJoint(setup *constantSetup, startTargetSSLenSq float32) mgl32.Quat {
	sumLenSq := setup.startMidSSLenSq + setup.midEndSSLenSq
	halfRcpLen := 0.5 / sqrt(setup.startMidSSLenSq*setup.midEndSSLenSq)

	// Zero-length bones drive halfRcpLen to +Inf; clampOrMin absorbs the
	// resulting NaN so both angles collapse to the same value.
	correctedCos := clampOrMin((sumLenSq-startTargetSSLenSq)*halfRcpLen, -1, 1)
	initialCos := clampOrMin((sumLenSq-setup.startEndSSLenSq)*halfRcpLen, -1, 1)

	correctedAngle := acos(correctedCos)
	initialAngle := acos(initialCos)

	// The initial angle takes the sign of the current bend side so the
	// correction follows the mid axis convention, not its mirror.
	bentSideRef := setup.startMidMS.Cross(j.midAxis)
	if math.Signbit(float64(bentSideRef.Dot(setup.midEndMS))) {
		initialAngle = -initialAngle
	}

	return mgl32.QuatRotate(correctedAngle-initialAngle, j.midAxis)
}

// computeStartJoint returns the start joint correction, in start joint
// space: the shortest arc taking the mid-corrected end position onto the
// target, composed with a rotation aligning the chain's bend plane with the
// plane spanned by the target and the pole vector, plus any twist.
func (j *TwoBoneJob) computeStartJoint(setup *constantSetup, midRotMS mgl32.Quat, startTargetSS mgl32.Vec3, startTargetSSLenSq float32) mgl32.Quat {
	poleSS := transformVector(setup.invStartJoint, j.poleVector)

	// End position after the mid correction, relative to the start joint.
	midEndSSFinal := transformVector(setup.invStartJoint,
		transformVector(j.midJoint, midRotMS.Rotate(setup.midEndMS)))
	startEndSSFinal := setup.startMidSS.Add(midEndSSFinal)

	endToTargetRot := quatFromVectors(startEndSSFinal, startTargetSS)
	startRot := endToTargetRot

	if startTargetSSLenSq > 0 {
		refPlaneNormal := startTargetSS.Cross(poleSS)
		refPlaneNormalLenSq := refPlaneNormal.LenSqr()

		midAxisSS := transformVector(setup.invStartJoint,
			transformVector(j.midJoint, j.midAxis))
		jointPlaneNormal := endToTargetRot.Rotate(midAxisSS)
		jointPlaneNormalLenSq := jointPlaneNormal.LenSqr()

		// A pole vector aligned with the target axis zeroes the reference
		// normal; the resulting non-finite values are documented output.
		rcpLenTarget := 1 / sqrt(startTargetSSLenSq)
		rcpLenRef := 1 / sqrt(refPlaneNormalLenSq)
		rcpLenJoint := 1 / sqrt(jointPlaneNormalLenSq)

		rotatePlaneCos := refPlaneNormal.Mul(rcpLenRef).Dot(jointPlaneNormal.Mul(rcpLenJoint))

		// Rotate around the target axis, flipped to the side of the bend
		// plane the pole vector lies on.
		rotatePlaneAxis := startTargetSS.Mul(rcpLenTarget)
		rotatePlaneAxisFlipped := rotatePlaneAxis
		if math.Signbit(float64(jointPlaneNormal.Dot(poleSS))) {
			rotatePlaneAxisFlipped = rotatePlaneAxis.Mul(-1)
		}
		rotatePlane := quatFromAxisCosAngle(rotatePlaneAxisFlipped,
			mgl32.Clamp(rotatePlaneCos, -1, 1))

		if j.twistAngle != 0 {
			twist := mgl32.QuatRotate(j.twistAngle, rotatePlaneAxis)
			startRot = twist.Mul(rotatePlane).Mul(endToTargetRot)
		} else {
			startRot = rotatePlane.Mul(endToTargetRot)
		}
	}
	return startRot
}

// weightOutput canonicalizes both corrections to a non-negative scalar part
// and, for weights below 1, blends them from identity with a normalized
// linear interpolation. Nlerp is cheap and close enough to spherical
// interpolation over the small blend range.
func (j *TwoBoneJob) weightOutput(startRot, midRot mgl32.Quat) {
	startRot = positiveW(startRot)
	midRot = positiveW(midRot)

	if j.weight < 1 {
		w := j.weight
		if w < 0 {
			w = 0
		}
		j.startJointCorrection = mgl32.QuatNlerp(mgl32.QuatIdent(), startRot, w)
		j.midJointCorrection = mgl32.QuatNlerp(mgl32.QuatIdent(), midRot, w)
	} else {
		j.startJointCorrection = startRot
		j.midJointCorrection = midRot
	}
}
