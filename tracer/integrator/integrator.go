package integrator

import (
	"github.com/chewxy/math32"
	"github.com/fralonra/Shape-Z-sub000/scene"
	"github.com/fralonra/Shape-Z-sub000/types"
	"github.com/fralonra/Shape-Z-sub000/voxel"
)

const (
	// Offset applied to secondary ray origins to escape the surface they
	// start on.
	surfaceEpsilon float32 = 1e-3

	DefaultBounces = 2
)

type Settings struct {
	// Number of surface interactions traced per sample.
	Bounces int

	// Snap the final color of every sample that hit geometry to the nearest
	// palette entry.
	Quantize bool
}

func DefaultSettings() Settings {
	return Settings{Bounces: DefaultBounces, Quantize: true}
}

// PathTracer estimates the radiance reaching the camera through a pixel with
// bounded depth path tracing against a voxel grid.
type PathTracer struct {
	Settings

	Light      scene.Light
	Background types.Vec3
}

func NewPathTracer(settings Settings, light scene.Light, background types.Vec3) *PathTracer {
	if settings.Bounces < 1 {
		settings.Bounces = DefaultBounces
	}
	return &PathTracer{
		Settings:   settings,
		Light:      light,
		Background: background,
	}
}

// Render a single sample for the pixel at normalized coordinate uv. The
// sample position inside the pixel is jittered with two values from rng.
func (pt *PathTracer) Render(uv, resolution types.Vec2, grid *voxel.Grid, palette *scene.Palette, cam scene.Camera, rng Sampler) types.Vec4 {
	ray := cam.CreateRay(uv, resolution, types.XY(rng.Float32(), rng.Float32()))
	hit := grid.DDA(ray)
	if hit.Kind != voxel.VoxelHit {
		return pt.Background.Vec4(1)
	}

	radiance := pt.trace(ray, hit, grid, palette, rng)
	if pt.Quantize {
		_, m := palette.Nearest(radiance)
		radiance = m.LinearColor()
	}
	return radiance.Vec4(1)
}

func (pt *PathTracer) trace(ray types.Ray, hit voxel.HitRecord, grid *voxel.Grid, palette *scene.Palette, rng Sampler) types.Vec3 {
	var radiance types.Vec3
	throughput := types.Splat3(1)

	for bounce := 0; bounce < pt.Bounces; bounce++ {
		m := palette.Get(uint8(hit.Material))
		base := m.LinearColor()
		n := hit.Normal
		v := ray.Dir.Neg()
		origin := hit.Point.Add(n.Mul(surfaceEpsilon))

		radiance = radiance.Add(throughput.MulVec(m.Radiance()))

		var dir types.Vec3
		switch {
		case m.Transmissive() && rng.Float32() < m.Transmission:
			origin, dir = transmit(ray, hit, grid, m, rng)
		case m.Reflectance >= 1 || rng.Float32() < m.Reflectance:
			radiance = radiance.Add(throughput.MulVec(pt.directLight(origin, n, grid, rng, func(l types.Vec3) types.Vec3 {
				return CookTorrance(m, base, n, v, l).Mul(n.Dot(l))
			})))

			h := SampleGGX(n, alpha(m.Roughness), rng.Float32(), rng.Float32())
			dir = ray.Dir.Reflect(h)
			if dir.Dot(n) <= 0 {
				dir = ray.Dir.Reflect(n)
			}
		default:
			radiance = radiance.Add(throughput.MulVec(pt.directLight(origin, n, grid, rng, func(l types.Vec3) types.Vec3 {
				return base.Mul(math32.Max(n.Dot(l), 0) / math32.Pi)
			})))
			dir = CosineHemisphere(n, rng.Float32(), rng.Float32())
		}
		throughput = throughput.MulVec(base)

		ray = types.NewRay(origin, dir)
		hit = grid.DDA(ray)
		if hit.Kind != voxel.VoxelHit {
			radiance = radiance.Add(throughput.MulVec(pt.Background))
			break
		}
	}
	return radiance
}

// Estimate direct lighting at origin by sampling the cone subtended by the
// light. brdf returns the cosine weighted surface response for a light
// direction.
func (pt *PathTracer) directLight(origin, n types.Vec3, grid *voxel.Grid, rng Sampler, brdf func(l types.Vec3) types.Vec3) types.Vec3 {
	l, omega, dist, ok := sampleLight(pt.Light, origin, n, rng)
	if !ok {
		return types.Vec3{}
	}
	if dist > 0 {
		if shadow := grid.DDAWithin(types.NewRay(origin, l), dist); shadow.Kind == voxel.VoxelHit {
			return types.Vec3{}
		}
	}
	return pt.Light.Radiance().MulVec(brdf(l)).Mul(omega)
}

// Pick a direction towards the light. It returns the direction, the solid
// angle of the light cone and the distance to the light surface.
func sampleLight(light scene.Light, origin, n types.Vec3, rng Sampler) (types.Vec3, float32, float32, bool) {
	toLight := light.Position.Sub(origin)
	dist2 := toLight.Dot(toLight)
	if dist2 <= 0 {
		return types.Vec3{}, 0, 0, false
	}
	cosAMax := coneCosine(light.Radius, dist2)
	l := SampleCone(toLight.Normalize(), cosAMax, rng.Float32(), rng.Float32())
	if l.Dot(n) <= 0 {
		return types.Vec3{}, 0, 0, false
	}
	return l, coneSolidAngle(cosAMax), math32.Sqrt(dist2) - light.Radius, true
}

// Pass a ray through a transmissive voxel. The voxel acts as a dielectric
// cube: the ray reflects with the Schlick probability or refracts in, crosses
// the voxel and refracts out of the exit face.
func transmit(ray types.Ray, hit voxel.HitRecord, grid *voxel.Grid, m *scene.Material, rng Sampler) (types.Vec3, types.Vec3) {
	n := hit.Normal
	eta := 1 / m.IOR
	cosI := -ray.Dir.Dot(n)

	inside, ok := Refract(ray.Dir, n, eta)
	if !ok || rng.Float32() < SchlickReflectance(cosI, eta) {
		return hit.Point.Add(n.Mul(surfaceEpsilon)), ray.Dir.Reflect(n)
	}

	half := 0.5 / float32(hit.Density)
	center := grid.ToWorld(hit.Key())
	box := types.NewAABB(center.Sub(types.Splat3(half)), center.Add(types.Splat3(half)))

	entry := hit.Point.Sub(n.Mul(surfaceEpsilon))
	tExit, exitNormal := slabExit(box, types.NewRay(entry, inside))
	exit := entry.Add(inside.Mul(tExit))

	out, ok := Refract(inside, exitNormal.Neg(), m.IOR)
	if !ok {
		out = inside
	}
	return exit.Add(out.Mul(surfaceEpsilon)), out
}

// Find where a ray starting inside box leaves it and the outward normal of
// the exit face.
func slabExit(box types.AABB, r types.Ray) (float32, types.Vec3) {
	tExit := float32(math32.MaxFloat32)
	axis := 0
	for i := 0; i < 3; i++ {
		bound := box.Max[i]
		if r.Sign[i] < 0 {
			bound = box.Min[i]
		}
		if t := (bound - r.Origin[i]) * r.InvDir[i]; t < tExit {
			tExit = t
			axis = i
		}
	}
	var normal types.Vec3
	normal[axis] = float32(r.Sign[axis])
	return math32.Max(tExit, 0), normal
}
