// Command ridesim runs a level headless for a fixed number of steps with a
// scripted input and prints the player's state as YAML.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/milk9111/loopride/ecs"
	"github.com/milk9111/loopride/ecs/component"
	"github.com/milk9111/loopride/ecs/entity"
	"github.com/milk9111/loopride/ecs/system"
)

func main() {
	levelName := flag.String("level", "level.yaml", "level spec in prefabs/")
	steps := flag.Int("steps", 600, "fixed steps to simulate")
	every := flag.Int("every", 60, "print a snapshot every n steps (0 prints only the last)")
	run := flag.Float64("run", 1, "horizontal axis held for the whole run")
	rollAt := flag.Int("roll-at", 120, "step at which down is pressed for one step (negative disables)")
	verbose := flag.Bool("v", false, "log move and path events")
	flag.Parse()

	log.SetFlags(0)

	w := ecs.NewWorld()
	system.NewPipeline().Install(w)
	events := &eventTrace{verbose: *verbose}
	w.AddSystem(events)

	lvl, err := entity.LoadLevel(w, *levelName)
	if err != nil {
		log.Fatalf("ridesim: %v", err)
	}
	if !lvl.Player.Valid() {
		log.Fatalf("ridesim: level %s has no player", lvl.Name)
	}
	in, ok := ecs.Get(w, lvl.Player, component.InputComponent)
	if !ok {
		log.Fatalf("ridesim: player has no input")
	}

	for i := 0; i < *steps; i++ {
		in.SetAxis(component.AxisHorizontal, *run)
		down := 0.0
		if i == *rollAt {
			down = -1
		}
		in.SetAxis(component.AxisVertical, down)

		w.Update()

		last := i == *steps-1
		if last || (*every > 0 && (i+1)%*every == 0) {
			out, err := entity.MarshalSnapshot(w, lvl.Player)
			if err != nil {
				log.Fatalf("ridesim: %v", err)
			}
			fmt.Fprintf(os.Stdout, "--- # step %d\n%s", i+1, out)
		}
	}
	log.Printf("ridesim: %d moves entered, %d path rides completed", events.moves, events.rides)
}

type eventTrace struct {
	verbose bool
	moves   int
	rides   int
}

func (t *eventTrace) Update(w *ecs.World) {
	for _, ev := range w.Events().Drain() {
		switch ev.Type {
		case ecs.EventMoveEnter:
			t.moves++
		case ecs.EventTravelerComplete:
			t.rides++
		}
		if t.verbose {
			log.Printf("step %d: %s %+v", w.Step(), ev.Type, ev.Data)
		}
	}
}
