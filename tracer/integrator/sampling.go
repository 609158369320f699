package integrator

import (
	"github.com/chewxy/math32"
	"github.com/fralonra/Shape-Z-sub000/types"
)

// Sampler produces uniform random values in [0, 1). *rand.Rand satisfies it.
type Sampler interface {
	Float32() float32
}

// Build an orthonormal tangent frame around n.
func tangentFrame(n types.Vec3) (t, b types.Vec3) {
	helper := types.XYZ(1, 0, 0)
	if math32.Abs(n[0]) > 0.9 {
		helper = types.XYZ(0, 1, 0)
	}
	t = n.Cross(helper).Normalize()
	b = t.Cross(n)
	return t, b
}

// Convert spherical coordinates around axis n into a world space direction.
func fromLocal(n types.Vec3, sinTheta, cosTheta, phi float32) types.Vec3 {
	t, b := tangentFrame(n)
	return t.Mul(sinTheta * math32.Cos(phi)).
		Add(b.Mul(sinTheta * math32.Sin(phi))).
		Add(n.Mul(cosTheta)).
		Normalize()
}

// Sample a cosine weighted direction on the hemisphere around n.
func CosineHemisphere(n types.Vec3, u1, u2 float32) types.Vec3 {
	phi := 2 * math32.Pi * u1
	cosTheta := math32.Sqrt(u2)
	sinTheta := math32.Sqrt(1 - u2)
	return fromLocal(n, sinTheta, cosTheta, phi)
}

// Sample a direction uniformly inside the cone around axis whose half angle
// has cosine cosAMax.
func SampleCone(axis types.Vec3, cosAMax, u1, u2 float32) types.Vec3 {
	cosA := 1 - u1 + u1*cosAMax
	sinA := math32.Sqrt(math32.Max(0, 1-cosA*cosA))
	return fromLocal(axis, sinA, cosA, 2*math32.Pi*u2)
}

// Sample a GGX distributed microfacet normal around n. The polar angle is
// atan(alpha * sqrt(u1 / (1 - u1))).
func SampleGGX(n types.Vec3, alpha, u1, u2 float32) types.Vec3 {
	u1 = math32.Min(u1, 0.9999)
	theta := math32.Atan(alpha * math32.Sqrt(u1/(1-u1)))
	return fromLocal(n, math32.Sin(theta), math32.Cos(theta), 2*math32.Pi*u2)
}

// Get the cosine of the half angle subtended by a sphere of radius r whose
// center lies dist2 (squared) away. A point inside the sphere sees the full
// hemisphere.
func coneCosine(r, dist2 float32) float32 {
	if dist2 <= r*r {
		return 0
	}
	return math32.Sqrt(1 - r*r/dist2)
}

// Get the solid angle of a cone with half angle cosine cosAMax.
func coneSolidAngle(cosAMax float32) float32 {
	return 2 * math32.Pi * (1 - cosAMax)
}
