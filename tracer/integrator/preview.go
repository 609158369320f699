package integrator

import (
	"github.com/chewxy/math32"
	"github.com/fralonra/Shape-Z-sub000/scene"
	"github.com/fralonra/Shape-Z-sub000/types"
)

// PreviewSphere renders a single material on a unit sphere at the origin.
// Shading uses one bounce: emission, direct light and the background seen
// along one sampled scattering direction.
type PreviewSphere struct {
	Material   *scene.Material
	Light      scene.Light
	Background types.Vec3

	camera scene.Camera
}

func NewPreviewSphere(m *scene.Material, background types.Vec3) *PreviewSphere {
	return &PreviewSphere{
		Material: m,
		Light: scene.Light{
			Position:  types.XYZ(2.5, 3, 4),
			Radius:    1,
			Color:     types.XYZ(1, 1, 1),
			Intensity: 20,
		},
		Background: background,
		camera:     scene.NewPinholeCamera(types.XYZ(0, 0, 3.2), types.Vec3{}, 40),
	}
}

// Intersect r with the unit sphere at the origin.
func intersectUnitSphere(r types.Ray) (float32, bool) {
	b := r.Origin.Dot(r.Dir)
	c := r.Origin.Dot(r.Origin) - 1
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)
	if t := -b - sq; t > 0 {
		return t, true
	}
	if t := -b + sq; t > 0 {
		return t, true
	}
	return 0, false
}

func (ps *PreviewSphere) Render(uv, resolution types.Vec2, rng Sampler) types.Vec4 {
	ray := ps.camera.CreateRay(uv, resolution, types.XY(rng.Float32(), rng.Float32()))
	t, ok := intersectUnitSphere(ray)
	if !ok {
		return ps.Background.Vec4(1)
	}

	m := ps.Material
	base := m.LinearColor()
	p := ray.At(t)
	n := p.Normalize()
	v := ray.Dir.Neg()
	origin := p.Add(n.Mul(surfaceEpsilon))

	radiance := m.Radiance()

	// The background is uniform and a convex sphere never occludes itself, so
	// the scattered ray always escapes and its direction does not matter.
	var brdf func(l types.Vec3) types.Vec3
	switch {
	case m.Transmissive() && rng.Float32() < m.Transmission:
	case m.Reflectance >= 1 || rng.Float32() < m.Reflectance:
		brdf = func(l types.Vec3) types.Vec3 {
			return CookTorrance(m, base, n, v, l).Mul(n.Dot(l))
		}
	default:
		brdf = func(l types.Vec3) types.Vec3 {
			return base.Mul(math32.Max(n.Dot(l), 0) / math32.Pi)
		}
	}

	if brdf != nil {
		if l, omega, _, ok := sampleLight(ps.Light, origin, n, rng); ok {
			radiance = radiance.Add(ps.Light.Radiance().MulVec(brdf(l)).Mul(omega))
		}
	}
	radiance = radiance.Add(base.MulVec(ps.Background))
	return radiance.Vec4(1)
}
