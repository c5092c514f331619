package main

import (
	"fmt"
	"image/color"
	"log"
	"path"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/loopride/common"
	"github.com/milk9111/loopride/ecs"
	"github.com/milk9111/loopride/ecs/component"
	"github.com/milk9111/loopride/ecs/entity"
	"github.com/milk9111/loopride/ecs/system"
	"github.com/milk9111/loopride/prefabs"
	"golang.design/x/clipboard"
)

type Game struct {
	frames int

	levelName string
	debug     bool
	paused    bool

	world    *ecs.World
	pipeline *system.Pipeline
	level    *entity.Level

	pauseUI      *ebitenui.UI
	watcher      *prefabs.Watcher
	clipboardOK  bool
	lastSnapshot string
}

func NewGame(levelName string, debug, watch bool) (*Game, error) {
	g := &Game{levelName: levelName, debug: debug}
	if err := g.reset(); err != nil {
		return nil, err
	}
	g.pauseUI = NewPauseUI(g)

	if watch {
		w, err := prefabs.NewWatcher()
		if err != nil {
			// embedded prefabs still work, only live reload is lost
			log.Printf("game: prefab watcher disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	if err := clipboard.Init(); err != nil {
		log.Printf("game: clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}
	return g, nil
}

// reset rebuilds the world and the system pipeline from the level spec.
func (g *Game) reset() error {
	world := ecs.NewWorld()
	pipeline := system.NewPipeline()

	world.AddSystem(system.NewInputSystem())
	pipeline.Install(world)
	world.AddSystem(eventLogger{})

	lvl, err := entity.LoadLevel(world, g.levelName)
	if err != nil {
		return fmt.Errorf("game: load level %s: %w", g.levelName, err)
	}
	g.world, g.pipeline, g.level = world, pipeline, lvl
	log.Printf("game: loaded level %s (%d solids, %d paths)", lvl.Name, len(lvl.Solids), len(lvl.Paths))
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := g.reset(); err != nil {
			log.Printf("game: reset: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.copySnapshot()
	}

	g.world.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x18, G: 0x1c, B: 0x24, A: 0xff})

	view := system.DebugView{Zoom: 1}
	if c, ok := ecs.Get(g.world, g.level.Player, component.ControllerComponent); ok {
		view.CenterX, view.CenterY = c.Position.X, c.Position.Y
	}
	system.DrawDebug(g.pipeline.Physics.Space(), g.world, screen, view)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()))
	if g.debug {
		system.DrawPlayerDebug(g.world, screen)
	}
	if g.lastSnapshot != "" {
		ebitenutil.DebugPrintAt(screen, g.lastSnapshot, 10, common.BaseHeight-20)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// pollWatcher applies prefab edits without blocking the frame.
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(name)
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("game: watcher: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) reload(name string) {
	switch {
	case strings.HasSuffix(name, ".tengo"):
		for pname, e := range g.level.Paths {
			if g.pipeline.Paths.Rebuild(g.world, e) {
				log.Printf("game: rebuilt path %s after %s changed", pname, name)
			}
		}
	case path.Base(name) == path.Base(g.levelName):
		if err := g.reset(); err != nil {
			log.Printf("game: reload %s: %v", name, err)
		}
	default:
		spec, err := prefabs.LoadPlayerSpec(name)
		if err != nil {
			log.Printf("game: reload %s: %v", name, err)
			return
		}
		if err := entity.ApplyPlayerTuning(g.world, g.level.Player, spec); err != nil {
			log.Printf("game: reload %s: %v", name, err)
			return
		}
		log.Printf("game: applied tuning from %s", name)
	}
}

func (g *Game) copySnapshot() {
	out, err := entity.MarshalSnapshot(g.world, g.level.Player)
	if err != nil {
		log.Printf("game: %v", err)
		return
	}
	if !g.clipboardOK {
		log.Printf("game: player snapshot\n%s", out)
		g.lastSnapshot = "snapshot written to log"
		return
	}
	clipboard.Write(clipboard.FmtText, out)
	g.lastSnapshot = "snapshot copied to clipboard"
}

// eventLogger runs last in the step and logs what happened before the world
// drops the step's events.
type eventLogger struct{}

func (eventLogger) Update(w *ecs.World) {
	for _, ev := range w.Events().Drain() {
		switch data := ev.Data.(type) {
		case ecs.MoveEvent:
			log.Printf("move: %s entity=%s move=%s forced=%v", ev.Type, data.Entity, data.Move, data.Forced)
		case ecs.TravelerEvent:
			log.Printf("path: %s path=%s traveler=%s", ev.Type, data.Path, data.Traveler)
		default:
			log.Printf("event: %s", ev.Type)
		}
	}
}
