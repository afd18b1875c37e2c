package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// Up is the world up axis.
	Up = mgl32.Vec3{0, 1, 0}
	// Forward is the world forward axis, the direction of a zero yaw.
	Forward = mgl32.Vec3{0, 0, 1}
	// Right is the world right axis.
	Right = mgl32.Vec3{1, 0, 0}
)

// ClampFloat clamps the given value to the given range.
func ClampFloat(num, min, max float32) float32 {
	if num < min {
		return min
	}
	return math32.Min(num, max)
}

// ClampUnit clamps a control value to [-1, 1].
func ClampUnit(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// Bucket maps a continuous axis value onto the discrete action scheme. Values within the
// dead zone of 0.1 map to 0, everything else to floor(clamp(v) * BucketScale).
func Bucket(v float32) int {
	if math32.Abs(v) <= BucketDeadZone {
		return 0
	}
	return int(math32.Floor(ClampUnit(v) * BucketScale))
}

// NormAngle wraps an angle in degrees into [0, 360) and scales it into [0, 1).
func NormAngle(deg float32) float32 {
	return repeat(deg, 360) / 360
}

// NormEuler applies NormAngle to each component of a set of euler angles.
func NormEuler(euler mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{NormAngle(euler[0]), NormAngle(euler[1]), NormAngle(euler[2])}
}

func repeat(v, length float32) float32 {
	return ClampFloat(v-math32.Floor(v/length)*length, 0, length)
}

// WrapYawDelta ...
func WrapYawDelta(delta float32) float32 {
	if delta > 180 {
		delta -= 360
	} else if delta < -180 {
		delta += 360
	}
	return delta
}

// YawQuat returns a rotation of deg degrees around the world up axis.
func YawQuat(deg float32) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(deg), Up)
}

// EulerToQuat converts euler angles in degrees to a rotation, applying roll first, then
// pitch, then yaw.
func EulerToQuat(euler mgl32.Vec3) mgl32.Quat {
	x := mgl32.QuatRotate(mgl32.DegToRad(euler[0]), Right)
	y := mgl32.QuatRotate(mgl32.DegToRad(euler[1]), Up)
	z := mgl32.QuatRotate(mgl32.DegToRad(euler[2]), Forward)
	return y.Mul(x).Mul(z)
}

// YawDirection returns the horizontal unit vector for a yaw in degrees.
func YawDirection(deg float32) mgl32.Vec3 {
	rad := mgl32.DegToRad(deg)
	return mgl32.Vec3{math32.Sin(rad), 0, math32.Cos(rad)}
}

// YawOf returns the yaw in degrees of a direction projected on the horizontal plane.
func YawOf(dir mgl32.Vec3) float32 {
	return mgl32.RadToDeg(math32.Atan2(dir.X(), dir.Z()))
}

// Flatten projects a direction onto the horizontal plane and normalizes it. A vertical
// direction has no horizontal component, in which case Forward is returned.
func Flatten(dir mgl32.Vec3) mgl32.Vec3 {
	dir[1] = 0
	if dir.LenSqr() <= 1e-12 {
		return Forward
	}
	return dir.Normalize()
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*ClampFloat(t, 0, 1)
}

// NextIndex returns the index following i in a cyclic sequence of n entries. The result is
// always in [0, n) for any i.
func NextIndex(i, n int) int {
	next := (i + 1) % n
	if next < 0 {
		next += n
	}
	return next
}

// Round32 will round a float32 to a given precision.
func Round32(val float32, precision int) float32 {
	pwr := math32.Pow(10, float32(precision))
	return math32.Round(val*pwr) / pwr
}

// Float32ApproxEq determines whether two floating point numbers are close enough to each other
// by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

// Vec3ApproxEq compares two vectors component-wise with the given tolerance.
func Vec3ApproxEq(a, b mgl32.Vec3, eps float32) bool {
	return math32.Abs(a[0]-b[0]) <= eps && math32.Abs(a[1]-b[1]) <= eps && math32.Abs(a[2]-b[2]) <= eps
}

// Vec3HzDistSqr returns the squared horizontal distance in a vector.
func Vec3HzDistSqr(vec3 mgl32.Vec3) float32 {
	return vec3.X()*vec3.X() + vec3.Z()*vec3.Z()
}

// RotationBetween returns the shortest rotation turning direction from onto direction to. Nearly
// parallel directions yield the identity.
func RotationBetween(from, to mgl32.Vec3) mgl32.Quat {
	if from.LenSqr() == 0 || to.LenSqr() == 0 {
		return mgl32.QuatIdent()
	}
	from, to = from.Normalize(), to.Normalize()
	if from.Dot(to) >= 1-1e-6 {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatBetweenVectors(from, to)
}
