package game

import "fmt"

// Input is an action produced by an input collaborator.
type Input string

const (
	InputTap          Input = "tap"
	InputIncreaseTime Input = "increase_time"
	InputDecreaseTime Input = "decrease_time"
	InputStart        Input = "start"
	InputRestart      Input = "restart"
	InputHome         Input = "home"
	InputTick         Input = "tick"
)

var inputs = map[Input]struct{}{
	InputTap: {}, InputIncreaseTime: {}, InputDecreaseTime: {},
	InputStart: {}, InputRestart: {}, InputHome: {}, InputTick: {},
}

// ParseInput validates an action name received from outside.
func ParseInput(s string) (Input, error) {
	in := Input(s)
	if _, ok := inputs[in]; !ok {
		return "", fmt.Errorf("unknown input %q", s)
	}
	return in, nil
}

// Dispatch forwards an input to the matching controller method.
func (c *Controller) Dispatch(in Input) error {
	switch in {
	case InputTap:
		return c.RevealNext()
	case InputIncreaseTime:
		return c.IncreaseTime()
	case InputDecreaseTime:
		return c.DecreaseTime()
	case InputStart:
		return c.StartGame()
	case InputRestart:
		return c.Restart()
	case InputHome:
		return c.ReturnToMenu()
	case InputTick:
		return c.Tick()
	}
	return fmt.Errorf("unknown input %q", in)
}
