package cmd

import (
	"bufio"
	"io"
	"strings"
	"sync/atomic"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// keyControl maps terminal input to the active render: "p" toggles pause
// and "x" aborts. The target is swapped for every re-render.
type keyControl struct {
	target atomic.Pointer[renderer.RenderState]
	logger core.Logger
}

func newKeyControl(logger core.Logger) *keyControl {
	return &keyControl{logger: logger}
}

// setTarget points the control at a new render state
func (k *keyControl) setTarget(state *renderer.RenderState) {
	k.target.Store(state)
}

// run reads commands line by line until r is exhausted
func (k *keyControl) run(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		k.handle(scanner.Text())
	}
}

// handle applies every recognised key in line
func (k *keyControl) handle(line string) {
	state := k.target.Load()
	if state == nil {
		return
	}

	for _, key := range strings.ToLower(line) {
		switch key {
		case 'p':
			if state.TogglePause() {
				k.logger.Printf("Render paused, press p to resume\n")
			} else {
				k.logger.Printf("Render resumed\n")
			}
		case 'x':
			k.logger.Printf("Aborting render\n")
			state.Abort()
			return
		}
	}
}
