package protocol

import "math"

// ScalePosition converts a floating-point world coordinate into the
// fixed-point int32 used by relative/absolute movement packets (×32, per
// block, truncated toward zero like the vanilla client).
func ScalePosition(v float64) int32 {
	return int32(v * 32.0)
}

// UnscalePosition reverses ScalePosition.
func UnscalePosition(v int32) float64 {
	return float64(v) / 32.0
}

// ScaleAngle converts a floating-point yaw/pitch in degrees into the
// single byte (256 units per full turn) used by entity look packets.
func ScaleAngle(degrees float32) byte {
	return byte(int32(degrees*256.0/360.0) & 0xFF)
}

// UnscaleAngle reverses ScaleAngle.
func UnscaleAngle(b byte) float32 {
	return float32(b) * 360.0 / 256.0
}

// maxVelocity is the clamp applied before scaling, in blocks/tick.
const maxVelocity = 3.9

// ScaleVelocity clamps a velocity component to ±3.9 blocks/tick and scales
// it by 8000 into the int16 used by entity velocity packets.
func ScaleVelocity(v float64) int16 {
	if v > maxVelocity {
		v = maxVelocity
	} else if v < -maxVelocity {
		v = -maxVelocity
	}
	return int16(math.Round(v * 8000.0))
}

// UnscaleVelocity reverses ScaleVelocity.
func UnscaleVelocity(v int16) float64 {
	return float64(v) / 8000.0
}
