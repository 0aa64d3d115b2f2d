package marrow

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// boneLocalTransform computes a bone's local affine matrix from its transform
// properties. Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Translate(-pivot) -> Scale -> Rotate -> Translate(X, Y)
//
// The pivot is the bone's normalized pivot scaled by its visual extent, so
// rotation and scale are applied about that point.
func boneLocalTransform(b *Bone) [6]float64 {
	sx := b.ScaleX
	sy := b.ScaleY

	sin, cos := math.Sincos(b.Rotation * math.Pi / 180)

	// After Scale * Translate(-pivot):
	//   a=sx, b=0, c=0, d=sy, tx=-px*sx, ty=-py*sy
	w, h := b.visualSize()
	px := b.PivotX * w
	py := b.PivotY * h
	preTx := -px * sx
	preTy := -py * sy

	// After Rotate and Translate(X, Y):
	return [6]float64{
		cos * sx,
		sin * sx,
		-sin * sy,
		cos * sy,
		cos*preTx - sin*preTy + b.X,
		sin*preTx + cos*preTy + b.Y,
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// updateWorldTransforms recomputes the world transform of b and all of its
// descendants. There is no dirty-flag caching: animation sampling rewrites
// local transforms every frame anyway, so the whole tree is recomposed on
// each draw.
func updateWorldTransforms(b *Bone, parentTransform [6]float64) {
	b.worldTransform = multiplyAffine(parentTransform, boneLocalTransform(b))
	for _, child := range b.children {
		updateWorldTransforms(child, b.worldTransform)
	}
}

// --- Angle math ---
//
// Bone rotations are degrees. Interpolation always takes the shortest angular
// path so that keyframes crossing the 0/360 boundary do not spin the long way
// around (350° -> 10° is a 20° move through 0°, not a 340° one).

// normalizeAngle wraps an angle in degrees into [0, 360).
func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// angleDelta returns the signed shortest difference from -> to, in (-180, 180].
func angleDelta(from, to float64) float64 {
	d := normalizeAngle(to) - normalizeAngle(from)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// lerpAngle interpolates between two angles in degrees along the shortest
// path and returns the result normalized to [0, 360).
func lerpAngle(from, to, t float64) float64 {
	return normalizeAngle(normalizeAngle(from) + angleDelta(from, to)*t)
}
