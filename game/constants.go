package game

const (
	// BucketDeadZone is the absolute axis value at or below which an input is treated as neutral.
	BucketDeadZone = float32(0.1)
	// BucketScale is the number of discrete steps on each side of the neutral action.
	BucketScale = float32(5)

	// DefaultFixedDelta is the duration of one physics tick in seconds.
	DefaultFixedDelta = float32(0.02)
	// DefaultGravity is the downward acceleration applied to bodies in metres per second squared.
	DefaultGravity = float32(9.81)
)
