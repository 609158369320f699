package scene

import (
	"github.com/chewxy/math32"
	"github.com/fralonra/Shape-Z-sub000/types"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Coefficients for converting screen deltas to camera angles.
	RotateSensitivity float32 = 0.01
	PanSensitivity    float32 = 0.002
	ZoomFactor        float32 = 0.1

	// Keep elevation away from the poles so the camera basis stays valid.
	maxElevation = math32.Pi/2 - 0.01

	minDistance float32 = 0.1
	minScale    float32 = 0.05

	// Orbit radius used by the isometric camera; rays are orthographic so it
	// only needs to place the eye outside the scene.
	isometricRadius float32 = 100
)

var worldUp = types.XYZ(0, 1, 0)

// Camera generates primary rays and reacts to pointer driven navigation.
type Camera interface {
	// Create a ray for the normalized pixel coordinate uv of a screen with
	// the given size. offset jitters the sample inside the pixel, in pixel
	// units.
	CreateRay(uv, screenSize, offset types.Vec2) types.Ray

	// Rotate the camera around its center by a screen space delta.
	Rotate(delta types.Vec2)

	// Move towards (positive) or away from the center.
	Zoom(delta float32)

	// Translate the center by a screen space delta.
	Pan(delta types.Vec2)

	SetCenter(p types.Vec3)
	Center() types.Vec3

	// Get the eye position.
	Position() types.Vec3
}

// Orthonormal camera frame.
type basis struct {
	forward types.Vec3
	right   types.Vec3
	up      types.Vec3
}

func lookAt(eye, center types.Vec3) basis {
	forward := center.Sub(eye).Normalize()
	right := forward.Cross(worldUp)
	if right.Len() < 1e-5 {
		right = forward.Cross(types.XYZ(0, 0, 1))
	}
	right = right.Normalize()
	return basis{
		forward: forward,
		right:   right,
		up:      right.Cross(forward),
	}
}

// Map a jittered pixel coordinate to normalized device coordinates in
// [-1,1] with y pointing up.
func screenToNDC(uv, screenSize, offset types.Vec2) (x, y, aspect float32) {
	s := uv[0] + offset[0]/math32.Max(screenSize[0], 1)
	t := uv[1] + offset[1]/math32.Max(screenSize[1], 1)
	aspect = screenSize[0] / math32.Max(screenSize[1], 1)
	return 2*s - 1, 1 - 2*t, aspect
}

func (b basis) perspectiveDir(x, y, aspect, fov float32) types.Vec3 {
	scale := math32.Tan(mgl32.DegToRad(fov) * 0.5)
	return b.forward.
		Add(b.right.Mul(x * scale * aspect)).
		Add(b.up.Mul(y * scale))
}

// Get the unit offset from center at the given azimuth and elevation.
func sphericalOffset(azimuth, elevation float32) types.Vec3 {
	yawQuat := mgl32.QuatRotate(azimuth, mgl32.Vec3{0, 1, 0})
	pitchQuat := mgl32.QuatRotate(-elevation, mgl32.Vec3{1, 0, 0})
	return types.Vec3(yawQuat.Mul(pitchQuat).Rotate(mgl32.Vec3{0, 0, 1}))
}

func clampElevation(e float32) float32 {
	return types.Clamp(e, -maxElevation, maxElevation)
}

// OrbitCamera is a perspective camera circling its center.
type OrbitCamera struct {
	center    types.Vec3
	Distance  float32
	Azimuth   float32
	Elevation float32

	// Vertical field of view in degrees.
	FOV float32
}

func NewOrbitCamera(center types.Vec3, distance, azimuth, elevation, fov float32) *OrbitCamera {
	return &OrbitCamera{
		center:    center,
		Distance:  math32.Max(distance, minDistance),
		Azimuth:   azimuth,
		Elevation: clampElevation(elevation),
		FOV:       fov,
	}
}

func (c *OrbitCamera) Position() types.Vec3 {
	return c.center.Add(sphericalOffset(c.Azimuth, c.Elevation).Mul(c.Distance))
}

func (c *OrbitCamera) CreateRay(uv, screenSize, offset types.Vec2) types.Ray {
	eye := c.Position()
	x, y, aspect := screenToNDC(uv, screenSize, offset)
	return types.NewRay(eye, lookAt(eye, c.center).perspectiveDir(x, y, aspect, c.FOV))
}

func (c *OrbitCamera) Rotate(delta types.Vec2) {
	c.Azimuth -= delta[0] * RotateSensitivity
	c.Elevation = clampElevation(c.Elevation + delta[1]*RotateSensitivity)
}

func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance = math32.Max(minDistance, c.Distance*(1-delta*ZoomFactor))
}

func (c *OrbitCamera) Pan(delta types.Vec2) {
	b := lookAt(c.Position(), c.center)
	scale := c.Distance * PanSensitivity
	c.center = c.center.
		Add(b.right.Mul(-delta[0] * scale)).
		Add(b.up.Mul(delta[1] * scale))
}

func (c *OrbitCamera) SetCenter(p types.Vec3) {
	c.center = p
}

func (c *OrbitCamera) Center() types.Vec3 {
	return c.center
}

// IsometricCamera is an orthographic camera at a fixed yaw/pitch.
type IsometricCamera struct {
	center types.Vec3
	Yaw    float32
	Pitch  float32

	// Half height of the view volume in world units.
	Scale float32
}

// Create an isometric camera with the classic 45° yaw and arctan(1/√2)
// pitch.
func NewIsometricCamera(center types.Vec3, scale float32) *IsometricCamera {
	return &IsometricCamera{
		center: center,
		Yaw:    mgl32.DegToRad(45),
		Pitch:  math32.Atan(1 / math32.Sqrt(2)),
		Scale:  math32.Max(scale, minScale),
	}
}

// Set the view angles in radians. Pitch is kept away from the poles.
func (c *IsometricCamera) SetAngles(yaw, pitch float32) {
	c.Yaw = yaw
	c.Pitch = clampElevation(pitch)
}

func (c *IsometricCamera) Position() types.Vec3 {
	return c.center.Add(sphericalOffset(c.Yaw, c.Pitch).Mul(isometricRadius))
}

func (c *IsometricCamera) CreateRay(uv, screenSize, offset types.Vec2) types.Ray {
	eye := c.Position()
	b := lookAt(eye, c.center)
	x, y, aspect := screenToNDC(uv, screenSize, offset)
	origin := eye.
		Add(b.right.Mul(x * c.Scale * aspect)).
		Add(b.up.Mul(y * c.Scale))
	return types.NewRay(origin, b.forward)
}

func (c *IsometricCamera) Rotate(delta types.Vec2) {
	c.Yaw -= delta[0] * RotateSensitivity
	c.Pitch = clampElevation(c.Pitch + delta[1]*RotateSensitivity)
}

func (c *IsometricCamera) Zoom(delta float32) {
	c.Scale = math32.Max(minScale, c.Scale*(1-delta*ZoomFactor))
}

func (c *IsometricCamera) Pan(delta types.Vec2) {
	b := lookAt(c.Position(), c.center)
	scale := c.Scale * PanSensitivity * 2
	c.center = c.center.
		Add(b.right.Mul(-delta[0] * scale)).
		Add(b.up.Mul(delta[1] * scale))
}

func (c *IsometricCamera) SetCenter(p types.Vec3) {
	c.center = p
}

func (c *IsometricCamera) Center() types.Vec3 {
	return c.center
}

// PinholeCamera is a perspective camera with an explicit eye position.
type PinholeCamera struct {
	Origin types.Vec3
	center types.Vec3

	// Vertical field of view in degrees.
	FOV float32
}

func NewPinholeCamera(origin, center types.Vec3, fov float32) *PinholeCamera {
	return &PinholeCamera{Origin: origin, center: center, FOV: fov}
}

func (c *PinholeCamera) Position() types.Vec3 {
	return c.Origin
}

func (c *PinholeCamera) CreateRay(uv, screenSize, offset types.Vec2) types.Ray {
	x, y, aspect := screenToNDC(uv, screenSize, offset)
	return types.NewRay(c.Origin, lookAt(c.Origin, c.center).perspectiveDir(x, y, aspect, c.FOV))
}

// Rotate the look direction around the eye: the x delta yaws around the
// world up axis and the y delta pitches around the camera right axis.
func (c *PinholeCamera) Rotate(delta types.Vec2) {
	view := c.center.Sub(c.Origin)
	dist := view.Len()
	if dist < minDistance {
		return
	}
	b := lookAt(c.Origin, c.center)

	yawQuat := mgl32.QuatRotate(-delta[0]*RotateSensitivity, mgl32.Vec3(worldUp))
	pitchQuat := mgl32.QuatRotate(delta[1]*RotateSensitivity, mgl32.Vec3(b.right))
	dir := types.Vec3(yawQuat.Mul(pitchQuat).Normalize().Rotate(mgl32.Vec3(b.forward)))

	// Refuse rotations that would align the view with the up axis.
	if math32.Abs(dir.Dot(worldUp)) > math32.Sin(maxElevation) {
		dir = types.Vec3(yawQuat.Rotate(mgl32.Vec3(b.forward)))
	}
	c.center = c.Origin.Add(dir.Normalize().Mul(dist))
}

// Move the eye along the view direction; it never passes the center.
func (c *PinholeCamera) Zoom(delta float32) {
	view := c.center.Sub(c.Origin)
	dist := view.Len()
	newDist := math32.Max(minDistance, dist*(1-delta*ZoomFactor))
	c.Origin = c.center.Sub(view.Normalize().Mul(newDist))
}

func (c *PinholeCamera) Pan(delta types.Vec2) {
	b := lookAt(c.Origin, c.center)
	scale := c.center.Sub(c.Origin).Len() * PanSensitivity
	shift := b.right.Mul(-delta[0] * scale).Add(b.up.Mul(delta[1] * scale))
	c.Origin = c.Origin.Add(shift)
	c.center = c.center.Add(shift)
}

func (c *PinholeCamera) SetCenter(p types.Vec3) {
	c.center = p
}

func (c *PinholeCamera) Center() types.Vec3 {
	return c.center
}
