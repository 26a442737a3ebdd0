package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-drive/camera"
	"github.com/lixenwraith/vi-drive/status"
	"github.com/lixenwraith/vi-drive/vmath"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func rowText(screen tcell.Screen, y, from, to int) string {
	var sb strings.Builder
	for x := from; x < to; x++ {
		ch, _, _, _ := screen.GetContent(x, y)
		sb.WriteRune(ch)
	}
	return sb.String()
}

func testScene() Scene {
	chassis := vmath.IdentityPose()
	chassis.Position = mgl64.Vec3{0, 2.7, 0}
	s := Scene{
		Chassis:     chassis,
		HalfExtents: mgl64.Vec3{1.75, 0.5, 4},
		Camera:      camera.State{Position: mgl64.Vec3{0, 8, -20}, LookAt: mgl64.Vec3{0, 4.7, 5}},
		Speed:       42.34,
		EngineOn:    true,
		Headlights:  20,
	}
	hubs := []mgl64.Vec3{{-2, 0.9, 4.1}, {2, 0.9, 4.1}, {-2, 0.9, -3.9}, {2, 0.9, -3.9}}
	for i := range s.Wheels {
		s.Wheels[i] = vmath.Pose{Position: hubs[i], Orientation: mgl64.QuatIdent()}
	}
	return s
}

func TestComputeLayout(t *testing.T) {
	l := ComputeLayout(120, 40)
	assert.Equal(t, 92, l.ViewWidth)
	assert.Equal(t, 36, l.ViewHeight)
	assert.Equal(t, 92, l.PanelX)

	narrow := ComputeLayout(40, 10)
	assert.Equal(t, 40, narrow.ViewWidth)
	assert.Equal(t, 40, narrow.PanelX, "panel hidden on narrow screens")
}

func TestRenderFrameDrawsHUD(t *testing.T) {
	screen := newScreen(t, 120, 40)
	reg := status.NewRegistry()
	status.Bind(reg).Speed.Set(42.34)
	r := NewTerminalRenderer(screen, reg)

	r.RenderFrame(testScene())

	l := r.Layout()
	dash := rowText(screen, l.ViewHeight+1, 0, l.ViewWidth)
	assert.Contains(t, dash, "Speed: 42.3 km/h")
	assert.Contains(t, dash, "[42]")
	assert.Contains(t, rowText(screen, l.ViewHeight+2, 0, l.ViewWidth), "ENGINE ON")

	panel := ""
	for y := 0; y < l.Height; y++ {
		panel += rowText(screen, y, l.PanelX, l.Width) + "\n"
	}
	assert.Contains(t, panel, status.KeySpeed)
}

func TestRenderFrameCentresCar(t *testing.T) {
	screen := newScreen(t, 120, 40)
	r := NewTerminalRenderer(screen, nil)
	r.RenderFrame(testScene())

	l := r.Layout()
	ch, _, _, _ := screen.GetContent(l.ViewWidth/2, l.ViewHeight/2)
	assert.Equal(t, '█', ch)

	// Nose is up the screen for a car facing +Z
	nose, _, _, _ := screen.GetContent(l.ViewWidth/2, l.ViewHeight/2-4)
	assert.Equal(t, '▲', nose)
}

func TestSpeedBarFill(t *testing.T) {
	screen := newScreen(t, 120, 40)
	r := NewTerminalRenderer(screen, nil)
	s := testScene()
	s.Speed = 100
	r.RenderFrame(s)

	l := r.Layout()
	_, _, filled, _ := screen.GetContent(0, l.ViewHeight)
	_, _, empty, _ := screen.GetContent(l.ViewWidth-1, l.ViewHeight)
	fgFilled, _, _ := filled.Decompose()
	fgEmpty, _, _ := empty.Decompose()
	assert.Equal(t, SpeedBarColor(1/float64(l.ViewWidth)), fgFilled)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 0), fgEmpty)
}

func TestSteeringIndicator(t *testing.T) {
	assert.Equal(t, "[-----●-----]", steeringIndicator(0))
	assert.Equal(t, "[●----|-----]", steeringIndicator(0.5))
	assert.Equal(t, "[-----|----●]", steeringIndicator(-0.5))
}

func TestChassisColor(t *testing.T) {
	assert.Equal(t, RgbChassisTurbo, ChassisColor(true, true))
	assert.Equal(t, RgbChassisOn, ChassisColor(true, false))
	assert.Equal(t, RgbChassisOff, ChassisColor(false, false))
}
