package jade

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform returns the local affine matrix [a, b, c, d, tx, ty]
// composed as Translate(-Pivot) -> Scale -> Rotate -> Translate(X, Y).
func computeLocalTransform(m *Morph) [6]float64 {
	sin, cos := math.Sincos(m.Rotation)
	sx, sy := m.ScaleX, m.ScaleY
	preTx := -m.PivotX * sx
	preTy := -m.PivotY * sy
	return [6]float64{
		cos * sx, sin * sx,
		-sin * sy, cos * sy,
		cos*preTx - sin*preTy + m.X,
		sin*preTx + cos*preTy + m.Y,
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
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

// invertAffine returns the inverse of m, or the identity if m is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// updateWorldTransform recomputes world matrices and alpha for the subtree.
// A recomputed parent forces its children to recompute.
func updateWorldTransform(m *Morph, parentTransform [6]float64, parentAlpha float64, parentRecomputed bool) {
	recompute := m.transformDirty || parentRecomputed
	if recompute {
		m.worldTransform = multiplyAffine(parentTransform, computeLocalTransform(m))
		m.worldAlpha = parentAlpha * m.Alpha
		m.transformDirty = false
	}
	for _, child := range m.children {
		updateWorldTransform(child, m.worldTransform, m.worldAlpha, recompute)
	}
}

// SetPosition sets the morph's local X and Y and marks it dirty.
func (m *Morph) SetPosition(x, y float64) {
	m.X = x
	m.Y = y
	m.transformDirty = true
}

// SetScale sets the morph's ScaleX and ScaleY and marks it dirty.
func (m *Morph) SetScale(sx, sy float64) {
	m.ScaleX = sx
	m.ScaleY = sy
	m.transformDirty = true
}

// SetRotation sets the morph's rotation (in radians) and marks it dirty.
func (m *Morph) SetRotation(r float64) {
	m.Rotation = r
	m.transformDirty = true
}

// SetAlpha sets the morph's alpha and marks it dirty.
func (m *Morph) SetAlpha(a float64) {
	m.Alpha = a
	m.transformDirty = true
}

// MarkDirty forces the transform to be recomputed on the next frame.
// Call it after setting transform fields directly.
func (m *Morph) MarkDirty() {
	m.transformDirty = true
}

// WorldToLocal converts a world-space point to this morph's local space.
func (m *Morph) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return transformPoint(invertAffine(m.worldTransform), wx, wy)
}

// LocalToWorld converts a local-space point to world space.
func (m *Morph) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(m.worldTransform, lx, ly)
}
