package user

import (
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

const goldenRatio = 0.618033988749895

// ColorGenerator: hands out well-separated colours for user cursors
type ColorGenerator struct {
	counter int
	mu      sync.Mutex
}

func NewColorGenerator() *ColorGenerator {
	return &ColorGenerator{}
}

// NextColor: returns the next colour in the golden ratio hue sequence
func (cg *ColorGenerator) NextColor() string {
	cg.mu.Lock()
	defer cg.mu.Unlock()

	hue := float64(cg.counter) * goldenRatio
	hue = hue - float64(int(hue)) // keep fractional part
	cg.counter++

	return colorful.Hsl(hue*360, 0.85, 0.55).Hex()
}
