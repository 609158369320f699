package integrator

import (
	"github.com/chewxy/math32"
	"github.com/fralonra/Shape-Z-sub000/scene"
	"github.com/fralonra/Shape-Z-sub000/types"
)

// Lowest roughness used for GGX terms; perfectly smooth lobes are not
// representable by the distribution.
const minRoughness float32 = 0.02

// Base reflectivity of dielectrics at reflectance 0.5.
const dielectricF0 float32 = 0.04

func alpha(roughness float32) float32 {
	r := math32.Max(roughness, minRoughness)
	return r * r
}

// GGX normal distribution function.
func DistributionGGX(nDotH, a float32) float32 {
	a2 := a * a
	d := nDotH*nDotH*(a2-1) + 1
	return a2 / (math32.Pi * d * d)
}

// Schlick approximation of the Fresnel term for base reflectivity f0.
func FresnelSchlick(cosTheta float32, f0 types.Vec3) types.Vec3 {
	k := math32.Pow(1-types.Clamp(cosTheta, 0, 1), 5)
	return f0.Add(types.Splat3(1).Sub(f0).Mul(k))
}

// Scalar Schlick reflectance at an interface with relative index of
// refraction eta.
func SchlickReflectance(cosTheta, eta float32) float32 {
	r0 := (1 - eta) / (1 + eta)
	r0 *= r0
	return r0 + (1-r0)*math32.Pow(1-types.Clamp(cosTheta, 0, 1), 5)
}

func schlickG1(nDotX, k float32) float32 {
	return nDotX / (nDotX*(1-k) + k)
}

// Smith shadowing masking term with the Schlick-GGX approximation.
func GeometrySmith(nDotV, nDotL, roughness float32) float32 {
	r := math32.Max(roughness, minRoughness) + 1
	k := r * r / 8
	return schlickG1(nDotV, k) * schlickG1(nDotL, k)
}

// Get the reflectivity at normal incidence for a material with the given
// linear base color.
func baseReflectivity(m *scene.Material, base types.Vec3) types.Vec3 {
	f0 := types.Splat3(dielectricF0 * 2 * m.Reflectance)
	return f0.Lerp(base, m.Metallic)
}

// Evaluate the Cook-Torrance BRDF with a Lambertian diffuse lobe for view
// direction v and light direction l.
func CookTorrance(m *scene.Material, base, n, v, l types.Vec3) types.Vec3 {
	nDotL := n.Dot(l)
	nDotV := n.Dot(v)
	if nDotL <= 0 || nDotV <= 0 {
		return types.Vec3{}
	}
	h := v.Add(l).Normalize()
	nDotH := math32.Max(n.Dot(h), 0)

	f := FresnelSchlick(h.Dot(v), baseReflectivity(m, base))
	d := DistributionGGX(nDotH, alpha(m.Roughness))
	g := GeometrySmith(nDotV, nDotL, m.Roughness)
	specular := f.Mul(d * g / (4 * nDotV * nDotL))

	kd := types.Splat3(1).Sub(f).Mul(1 - m.Metallic)
	diffuse := kd.MulVec(base).Mul(1 / math32.Pi)

	out := diffuse.Add(specular)
	if m.ClearCoat > 0 {
		cf := SchlickReflectance(h.Dot(v), 1.5)
		cd := DistributionGGX(nDotH, alpha(m.ClearCoatRoughness))
		cg := GeometrySmith(nDotV, nDotL, m.ClearCoatRoughness)
		out = out.Mul(1 - m.ClearCoat*cf).Add(types.Splat3(m.ClearCoat * cf * cd * cg / (4 * nDotV * nDotL)))
	}
	return out
}

// Refract the unit direction d through a surface with unit normal n facing
// against d. ok is false on total internal reflection.
func Refract(d, n types.Vec3, eta float32) (types.Vec3, bool) {
	cosI := -d.Dot(n)
	k := 1 - eta*eta*(1-cosI*cosI)
	if k < 0 {
		return types.Vec3{}, false
	}
	return d.Mul(eta).Add(n.Mul(eta*cosI - math32.Sqrt(k))).Normalize(), true
}
