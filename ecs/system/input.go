package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/loopride/ecs"
	"github.com/milk9111/loopride/ecs/component"
)

// InputSystem copies keyboard and gamepad state into every Input component.
type InputSystem struct{}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	const stickDeadzone = 0.2

	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	down := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	up := ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)

	moveX := digitalAxis(left, right)
	moveY := digitalAxis(down, up)

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		if x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal); math.Abs(x) > stickDeadzone {
			moveX = x
		}
		// sticks report down as positive; only a full press counts so the
		// roll guard sees exactly -1
		if y := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical); math.Abs(y) > 0.9 {
			moveY = -math.Copysign(1, y)
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftBottom) {
			moveY = -1
		}
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, in *component.Input) {
		in.SetAxis(component.AxisHorizontal, moveX)
		in.SetAxis(component.AxisVertical, moveY)
	})
}

func digitalAxis(negative, positive bool) float64 {
	v := 0.0
	if negative {
		v -= 1
	}
	if positive {
		v += 1
	}
	return v
}
