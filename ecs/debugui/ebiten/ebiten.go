// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/hearth/ecs"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to integrate Dear ImGui rendering into Ebiten game loops.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Game implements ebiten.Game by advancing a Registry once per tick inside an
// ImGui frame and drawing the ImGui overlay on top of the game's own drawing.
type Game struct {
	Registry *ecs.Registry
	Backend  ImguiBackend

	// DrawContent renders game content below the overlay. Optional.
	DrawContent func(screen *ebiten.Image)
	// Quit is polled every tick; returning true ends the game loop. Optional.
	Quit func() bool
}

// NewGame creates a Game driving r with backend.
func NewGame(r *ecs.Registry, backend *ebitenbackend.EbitenBackend) *Game {
	return &Game{
		Registry: r,
		Backend:  ImguiBackend{EbitenBackend: backend},
	}
}

// Update runs one registry update at the engine's tick rate. Failed deferred
// commands are logged by the registry and do not stop the game.
func (g *Game) Update() error {
	if g.Quit != nil && g.Quit() {
		return ebiten.Termination
	}

	g.Backend.BeginFrame()
	_ = g.Registry.Update(1.0 / float64(ebiten.TPS()))
	g.Backend.EndFrame()

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.DrawContent != nil {
		g.DrawContent(screen)
	}
	g.Backend.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.Backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
