package render

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-drive/parameter"
	"github.com/lixenwraith/vi-drive/status"
	"github.com/lixenwraith/vi-drive/vmath"
)

// Layout, derived from the screen size on every resize
type Layout struct {
	Width, Height int
	ViewWidth     int // map columns, left of the status panel
	ViewHeight    int // map rows, above the HUD
	PanelX        int // first status panel column; equals Width when hidden
}

// ComputeLayout splits the screen into map, HUD and side panel
func ComputeLayout(width, height int) Layout {
	l := Layout{Width: width, Height: height, PanelX: width}
	l.ViewHeight = max(height-parameter.HUDHeight, 1)
	l.ViewWidth = width
	if width >= 2*parameter.StatusPanelWidth {
		l.ViewWidth = width - parameter.StatusPanelWidth
		l.PanelX = l.ViewWidth
	}
	return l
}

// TerminalRenderer draws a top-down view of the car with a dashboard HUD
// and a status panel. The view is centred on the chassis with +Z up the screen.
type TerminalRenderer struct {
	mu     sync.Mutex
	screen tcell.Screen
	reg    *status.Registry
	layout Layout
}

// NewTerminalRenderer creates a renderer on an initialized screen; reg may be nil
func NewTerminalRenderer(screen tcell.Screen, reg *status.Registry) *TerminalRenderer {
	r := &TerminalRenderer{screen: screen, reg: reg}
	r.Resize()
	return r
}

// Resize re-reads the screen size
func (r *TerminalRenderer) Resize() {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, h := r.screen.Size()
	r.layout = ComputeLayout(w, h)
}

// Layout returns the current layout
func (r *TerminalRenderer) Layout() Layout {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layout
}

// RenderFrame draws s and shows the screen
func (r *TerminalRenderer) RenderFrame(s Scene) {
	r.mu.Lock()
	defer r.mu.Unlock()

	base := tcell.StyleDefault.Background(RgbBackground)
	r.screen.Fill(' ', base)

	origin := s.Chassis.Position
	r.drawGrid(origin, base)
	r.drawHeadlights(s, origin, base)
	r.drawChassis(s, origin, base)
	r.drawWheels(s, origin, base)
	r.drawCamera(s, origin, base)

	r.drawSpeedBar(s.Speed, base)
	r.drawDashboard(s, base)
	r.drawPanel()

	r.screen.Show()
}

// project maps a world point to a map cell relative to the centred origin
func (r *TerminalRenderer) project(p, origin mgl64.Vec3) (int, int, bool) {
	cx := r.layout.ViewWidth / 2
	cy := r.layout.ViewHeight / 2
	// +X is the car's left, so it maps to screen left while +Z points up
	dx := -(p[0] - origin[0]) * parameter.ViewCellsPerMetre * parameter.ViewAspect
	dz := -(p[2] - origin[2]) * parameter.ViewCellsPerMetre
	x := cx + int(math.Round(dx))
	y := cy + int(math.Round(dz))
	return x, y, x >= 0 && x < r.layout.ViewWidth && y >= 0 && y < r.layout.ViewHeight
}

func (r *TerminalRenderer) plot(p, origin mgl64.Vec3, ch rune, style tcell.Style) {
	if x, y, ok := r.project(p, origin); ok {
		r.screen.SetContent(x, y, ch, nil, style)
	}
}

// drawGrid scatters ground markers so motion is visible against the fixed car
func (r *TerminalRenderer) drawGrid(origin mgl64.Vec3, base tcell.Style) {
	style := base.Foreground(RgbGrid)
	halfW := float64(r.layout.ViewWidth) / (2 * parameter.ViewCellsPerMetre * parameter.ViewAspect)
	halfH := float64(r.layout.ViewHeight) / (2 * parameter.ViewCellsPerMetre)

	step := parameter.GridSpacing
	x0 := math.Floor((origin[0]-halfW)/step) * step
	z0 := math.Floor((origin[2]-halfH)/step) * step
	for x := x0; x <= origin[0]+halfW; x += step {
		for z := z0; z <= origin[2]+halfH; z += step {
			r.plot(mgl64.Vec3{x, 0, z}, origin, '·', style)
		}
	}
}

func (r *TerminalRenderer) drawHeadlights(s Scene, origin mgl64.Vec3, base tcell.Style) {
	if s.Headlights <= 0 {
		return
	}
	style := base.Foreground(RgbHeadlight)
	reach := s.Headlights / 2
	he := s.HalfExtents
	for z := he[2]; z <= he[2]+reach; z += 0.5 {
		spread := (z - he[2]) * 0.3
		for x := -he[0] - spread; x <= he[0]+spread; x += 0.5 {
			r.plot(s.Chassis.Transform(mgl64.Vec3{x, 0, z}), origin, '░', style)
		}
	}
}

func (r *TerminalRenderer) drawChassis(s Scene, origin mgl64.Vec3, base tcell.Style) {
	style := base.Foreground(ChassisColor(s.EngineOn, s.Turbo))
	he := s.HalfExtents
	for x := -he[0]; x <= he[0]; x += 0.25 {
		for z := -he[2]; z <= he[2]; z += 0.5 {
			r.plot(s.Chassis.Transform(mgl64.Vec3{x, 0, z}), origin, '█', style)
		}
	}
	// Nose marker shows heading
	r.plot(s.Chassis.Transform(mgl64.Vec3{0, 0, he[2]}), origin, '▲', style.Background(RgbChassisOff))
}

func (r *TerminalRenderer) drawWheels(s Scene, origin mgl64.Vec3, base tcell.Style) {
	style := base.Foreground(RgbWheelRim).Background(RgbWheel)
	for _, w := range s.Wheels {
		r.plot(w.Position, origin, 'o', style)
	}
}

func (r *TerminalRenderer) drawCamera(s Scene, origin mgl64.Vec3, base tcell.Style) {
	if !vmath.IsFinite(s.Camera.Position) {
		return
	}
	r.plot(s.Camera.LookAt, origin, '+', base.Foreground(RgbCamera))
	r.plot(s.Camera.Position, origin, 'C', base.Foreground(RgbCamera))
}

// drawSpeedBar fills the first HUD row in proportion to speed
func (r *TerminalRenderer) drawSpeedBar(speed float64, base tcell.Style) {
	y := r.layout.ViewHeight
	if y >= r.layout.Height {
		return
	}
	width := r.layout.ViewWidth
	filled := int(vmath.Clamp(speed/parameter.GaugeMaxSpeed, 0, 1) * float64(width))
	for x := 0; x < width; x++ {
		style := base.Foreground(tcell.NewRGBColor(0, 0, 0))
		if x < filled {
			style = base.Foreground(SpeedBarColor(float64(x+1) / float64(width)))
		}
		r.screen.SetContent(x, y, '█', nil, style)
	}
}

func (r *TerminalRenderer) drawDashboard(s Scene, base tcell.Style) {
	text := base.Foreground(RgbHUDText)
	dim := base.Foreground(RgbHUDDim)
	y := r.layout.ViewHeight + 1

	line := fmt.Sprintf("%s  [%s]  needle %+5.1f°", SpeedText(s.Speed), NeedleLabel(s.Speed), NeedleAngle(s.Speed))
	r.drawText(0, y, line, text)

	x := 0
	if s.EngineOn {
		x = r.drawText(x, y+1, " ENGINE ON ", base.Foreground(tcell.ColorBlack).Background(RgbEngineOn))
	} else {
		x = r.drawText(x, y+1, " ENGINE OFF ", base.Foreground(tcell.ColorWhite).Background(RgbEngineOff))
	}
	if s.Turbo {
		x = r.drawText(x+1, y+1, " TURBO ", base.Foreground(tcell.ColorBlack).Background(RgbChassisTurbo))
	}
	if s.Paused {
		x = r.drawText(x+1, y+1, " PAUSED ", base.Foreground(tcell.ColorBlack).Background(RgbPaused))
	}
	x = r.drawText(x+1, y+1, fmt.Sprintf("lights %2.0f", s.Headlights), text)
	r.drawText(x+2, y+1, steeringIndicator(s.Steering), text)

	r.drawText(0, y+2, "e engine  w/s drive  a/d steer  space brake  shift/n turbo  hjkl camera  p pause  q quit", dim)
}

// steeringIndicator renders steering as a marker on a short track, left is positive
func steeringIndicator(steer float64) string {
	const half = 5
	track := []rune("[-----|-----]")
	pos := half + 1 - int(math.Round(vmath.Clamp(steer/parameter.SteeringLimit, -1, 1)*half))
	track[pos] = '●'
	return string(track)
}

func (r *TerminalRenderer) drawPanel() {
	if r.reg == nil || r.layout.PanelX >= r.layout.Width {
		return
	}
	style := tcell.StyleDefault.Background(RgbPanelBg).Foreground(RgbHUDText)
	for y := 0; y < r.layout.Height; y++ {
		for x := r.layout.PanelX; x < r.layout.Width; x++ {
			r.screen.SetContent(x, y, ' ', nil, style)
		}
	}

	y := 0
	row := func(k string, v string) {
		if y < r.layout.Height {
			r.drawText(r.layout.PanelX+1, y, fmt.Sprintf("%-20s %s", k, v), style)
			y++
		}
	}
	r.reg.Bools.Range(func(k string, v *atomic.Bool) { row(k, fmt.Sprint(v.Load())) })
	r.reg.Ints.Range(func(k string, v *atomic.Int64) { row(k, fmt.Sprint(v.Load())) })
	r.reg.Floats.Range(func(k string, v *status.AtomicFloat) { row(k, fmt.Sprintf("%.2f", v.Get())) })
	r.reg.Strings.Range(func(k string, v *status.AtomicString) { row(k, v.Load()) })
}

// drawText writes s from x, clipped to the screen; returns the column after it
func (r *TerminalRenderer) drawText(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		if x >= r.layout.Width {
			break
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}
