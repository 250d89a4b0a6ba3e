package renderer

import (
	"math"
	"sync"

	"github.com/df07/go-fractal-explorer/pkg/core"
	"github.com/df07/go-fractal-explorer/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DragSensitivity  = 0.005  // Radians per pixel of pointer travel
	Friction         = 0.95   // Angular velocity decay per frame
	PitchLimit       = 1.5    // |pitch| never exceeds this
	FlightSpeed      = 0.02   // Distance per frame while a move input is held
	WheelSpeed       = 0.0005 // Flight distance per wheel delta unit
	OrbitWheelSpeed  = 0.001  // Orbit distance per wheel delta unit
	MinOrbitDistance = 1.2
	MaxOrbitDistance = 6.0
	OriginGuard      = 1e-4 // Positions closer to the origin than this are moved off it

	FlightStepInterval = 1.0 / 60 // Seconds of animation time per flight Step
	maxCatchUpSteps    = 60       // Most Steps a single Advance will take after a stall
)

// originFallback replaces positions that collapse onto the inversion centre
var originFallback = core.NewVec3(0.002, 0.002, 0.002)

// Key identifies a held navigation key
type Key int

const (
	KeyW Key = iota
	KeyS
	KeyArrowUp
	KeyArrowDown
	numKeys
)

// CameraState is the complete view state carried from frame to frame
type CameraState struct {
	Position      core.Vec3 // Eye position in flight mode
	Yaw, Pitch    float64
	VelocityX     float64 // Angular velocity from the last drag, applied as yaw -= VelocityX
	VelocityY     float64 // Applied as pitch += VelocityY
	OrbitDistance float64 // Eye distance from the origin in orbit mode
	Flight        bool
}

// NewCameraState creates the starting state from a scene's camera defaults
func NewCameraState(d scene.CameraDefaults) CameraState {
	return CameraState{
		Position:      d.Position,
		Yaw:           d.Yaw,
		Pitch:         d.Pitch,
		OrbitDistance: d.OrbitDistance,
		Flight:        d.Flight,
	}.sanitized()
}

// sanitized clamps pitch and keeps a flight eye off the origin
func (s CameraState) sanitized() CameraState {
	s.Pitch = clampPitch(s.Pitch)
	if s.Flight {
		s.Position = guardOrigin(s.Position)
	}
	return s
}

// Forward returns the unit view direction for a yaw/pitch pair: +Z rotated by
// -pitch about X, then by -yaw about Y.
func Forward(yaw, pitch float64) core.Vec3 {
	rot := mgl64.Rotate3DY(-yaw).Mul3(mgl64.Rotate3DX(-pitch))
	return core.Vec3FromMgl(rot.Mul3x1(mgl64.Vec3{0, 0, 1}))
}

// Forward returns the current view direction
func (s CameraState) Forward() core.Vec3 {
	return Forward(s.Yaw, s.Pitch)
}

// Eye returns the ray origin: the position in flight mode, or a point on the
// orbit sphere looking at the origin otherwise.
func (s CameraState) Eye() core.Vec3 {
	if s.Flight {
		return s.Position
	}
	return s.Forward().Multiply(-s.OrbitDistance)
}

// AngularSpeed returns the magnitude of the angular velocity
func (s CameraState) AngularSpeed() float64 {
	return math.Hypot(s.VelocityX, s.VelocityY)
}

func clampPitch(p float64) float64 {
	return max(-PitchLimit, min(PitchLimit, p))
}

func guardOrigin(p core.Vec3) core.Vec3 {
	if p.Length() < OriginGuard {
		return originFallback
	}
	return p
}

// CameraController turns pointer, key and wheel input into camera motion.
// Input may arrive from any goroutine; the render path reads Snapshot.
type CameraController struct {
	mu       sync.Mutex
	state    CameraState
	defaults CameraState

	dragging     bool
	lastX, lastY float64
	keys         [numKeys]bool
	touchMove    float64
	stepDebt     float64 // Animation time not yet consumed by Step
}

// NewCameraController creates a controller starting at (and resetting to) defaults
func NewCameraController(defaults CameraState) *CameraController {
	defaults = defaults.sanitized()
	return &CameraController{state: defaults, defaults: defaults}
}

// Snapshot returns a copy of the current state
func (c *CameraController) Snapshot() CameraState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// PointerDown starts a drag and catches any remaining momentum
func (c *CameraController) PointerDown(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = true
	c.lastX, c.lastY = x, y
	c.state.VelocityX, c.state.VelocityY = 0, 0
}

// PointerMove rotates the view by the pointer travel since the last event
func (c *CameraController) PointerMove(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dragging {
		return
	}

	c.state.VelocityX = (x - c.lastX) * DragSensitivity
	c.state.VelocityY = (y - c.lastY) * DragSensitivity
	c.lastX, c.lastY = x, y

	c.state.Yaw -= c.state.VelocityX
	c.state.Pitch = clampPitch(c.state.Pitch + c.state.VelocityY)
}

// PointerUp ends the drag; the last velocity carries on as momentum
func (c *CameraController) PointerUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = false
}

// PointerLeave is treated the same as releasing the pointer
func (c *CameraController) PointerLeave() {
	c.PointerUp()
}

// Dragging reports whether a drag is in progress
func (c *CameraController) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging
}

// Interacting reports whether the user is dragging or the view is still
// coasting faster than threshold.
func (c *CameraController) Interacting(threshold float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging || c.state.AngularSpeed() > threshold
}

// SetKey records a navigation key press or release
func (c *CameraController) SetKey(k Key, down bool) {
	if k < 0 || k >= numKeys {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys[k] = down
}

// SetTouchMove sets the on-screen button input: +1 forward, -1 backward, 0 none.
// While non-zero it takes precedence over the keyboard.
func (c *CameraController) SetTouchMove(dir float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchMove = max(-1, min(1, dir))
}

// moveDir must be called with mu held
func (c *CameraController) moveDir() float64 {
	dir := 0.0
	if c.keys[KeyW] || c.keys[KeyArrowUp] {
		dir = 1
	}
	if c.keys[KeyS] || c.keys[KeyArrowDown] {
		dir = -1
	}
	if c.touchMove != 0 {
		dir = c.touchMove
	}
	return dir
}

// Wheel moves the camera immediately: along the view in flight mode, or
// towards/away from the origin in orbit mode. Negative delta moves forward.
func (c *CameraController) Wheel(deltaY float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Flight {
		step := -deltaY * WheelSpeed
		c.state.Position = guardOrigin(c.state.Position.Add(c.state.Forward().Multiply(step)))
		return
	}
	d := c.state.OrbitDistance + deltaY*OrbitWheelSpeed
	c.state.OrbitDistance = max(MinOrbitDistance, min(MaxOrbitDistance, d))
}

// Update applies momentum once per frame: while not dragging the velocity
// keeps rotating the view and decays by Friction.
func (c *CameraController) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dragging {
		c.state.Yaw -= c.state.VelocityX
		c.state.Pitch += c.state.VelocityY
		c.state.VelocityX *= Friction
		c.state.VelocityY *= Friction
	}
	c.state.Pitch = clampPitch(c.state.Pitch)
}

// Step advances flight movement by one animation tick of held input
func (c *CameraController) Step() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Flight {
		return
	}
	dir := c.moveDir()
	if dir == 0 {
		return
	}
	next := c.state.Position.Add(c.state.Forward().Multiply(dir * FlightSpeed))
	c.state.Position = guardOrigin(next)
}

// Advance moves the flight camera by dt seconds of animation time, taking one
// Step per FlightStepInterval regardless of how often frames are rendered.
func (c *CameraController) Advance(dt float64) {
	c.mu.Lock()
	c.stepDebt += max(dt, 0)
	n := int((c.stepDebt + 1e-9) / FlightStepInterval)
	c.stepDebt = max(c.stepDebt-float64(n)*FlightStepInterval, 0)
	c.mu.Unlock()

	for range min(n, maxCatchUpSteps) {
		c.Step()
	}
}

// SetView sets the orientation directly, clamping pitch
func (c *CameraController) SetView(yaw, pitch float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Yaw = yaw
	c.state.Pitch = clampPitch(pitch)
}

// SetPosition moves the flight camera, applying the origin guard
func (c *CameraController) SetPosition(p core.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Position = guardOrigin(p)
}

// Reset restores the default view and stops all motion and input
func (c *CameraController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// ResetTo replaces the defaults and resets to them
func (c *CameraController) ResetTo(defaults CameraState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaults = defaults.sanitized()
	c.reset()
}

// reset must be called with mu held
func (c *CameraController) reset() {
	c.state = c.defaults
	c.dragging = false
	c.keys = [numKeys]bool{}
	c.touchMove = 0
	c.stepDebt = 0
}
