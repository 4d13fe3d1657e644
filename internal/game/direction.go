package game

import "math"

// DefaultFacings is the number of discrete facing buckets most units use.
const DefaultFacings = 32

// bearing returns the facing (full precision, in bucket units) pointing from
// one cell toward another on a wheel of n buckets. Facing 0 points north
// (toward decreasing y); facings increase clockwise.
func bearing(from, to Cell, n int) float64 {
	return bearingXY(float64(to.X-from.X), float64(to.Y-from.Y), n)
}

// bearingXY converts a delta vector to a facing in bucket units.
func bearingXY(dx, dy float64, n int) float64 {
	if dx == 0 && dy == 0 {
		return 0
	}
	// Angle measured clockwise from north; screen y grows downward.
	rad := math.Atan2(dx, -dy)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	f := rad / (2 * math.Pi) * float64(n)
	if f >= float64(n) {
		f -= float64(n)
	}
	return f
}

// facingDelta returns the shortest signed distance from cur to target on a
// wheel of n buckets. The result lies in [-n/2, n/2].
func facingDelta(cur, target float64, n int) float64 {
	d := math.Mod(target-cur, float64(n))
	half := float64(n) / 2
	if d > half {
		d -= float64(n)
	}
	if d < -half {
		d += float64(n)
	}
	return d
}

// stepFacing rotates cur toward target by at most rate buckets along the
// shorter arc, wrapping into [0, n). Once the remaining distance is within
// rate the target is returned exactly, so callers can compare for equality.
func stepFacing(cur, target, rate float64, n int) float64 {
	d := facingDelta(cur, target, n)
	if math.Abs(d) <= rate {
		return wrapFacing(target, n)
	}
	if d > 0 {
		return wrapFacing(cur+rate, n)
	}
	return wrapFacing(cur-rate, n)
}

// wrapFacing normalises a facing value into [0, n).
func wrapFacing(f float64, n int) float64 {
	f = math.Mod(f, float64(n))
	if f < 0 {
		f += float64(n)
	}
	return f
}

// facingAngle converts a facing in bucket units to radians clockwise from north.
func facingAngle(f float64, n int) float64 {
	return f / float64(n) * 2 * math.Pi
}

// facingVector returns the unit movement vector for a facing. North is
// (0, -1) in screen coordinates.
func facingVector(f float64, n int) (float64, float64) {
	a := facingAngle(f, n)
	return math.Sin(a), -math.Cos(a)
}
