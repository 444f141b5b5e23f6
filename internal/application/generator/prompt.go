package generator

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"sketchforge/internal/domain"
)

// sketchCategories are the pattern archetypes a cycle may ask for.
// Selection is uniform with no memory; repeats are fine.
var sketchCategories = []string{
	"LED blink pattern with varying speeds",
	"LED chaser pattern across multiple pins",
	"LED brightness fade using PWM",
	"Random LED pattern",
	"Binary counter display using LEDs",
	"Knight Rider style LED sweep",
	"Morse code SOS pattern",
	"Traffic light simulation",
	"LED breathing effect",
	"Simple LED game pattern",
}

// PromptBuilder constructs one generation request per cycle from the static
// safety constraints plus a randomly drawn category.
type PromptBuilder struct {
	safety domain.SafetySettings
	rng    *rand.Rand
}

// NewPromptBuilder builds a prompt builder. A nil rng gets a time-seeded
// source; tests pass a seeded one for determinism.
func NewPromptBuilder(safety domain.SafetySettings, rng *rand.Rand) *PromptBuilder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &PromptBuilder{safety: safety, rng: rng}
}

// Build returns a fresh GenerationRequest for one cycle.
func (b *PromptBuilder) Build() domain.GenerationRequest {
	return domain.GenerationRequest{
		Category:     sketchCategories[b.rng.Intn(len(sketchCategories))],
		SafePins:     b.safety.SafePins,
		MaxLines:     b.safety.MaxSketchLines,
		ForbiddenOps: b.safety.ForbiddenOps,
	}
}

// Render turns a request into the prompt text sent to the backend.
func Render(req domain.GenerationRequest) string {
	pins := make([]string, len(req.SafePins))
	for i, pin := range req.SafePins {
		pins[i] = strconv.Itoa(pin)
	}

	return fmt.Sprintf(`Generate a complete Arduino sketch that implements: %s

Requirements:
- Must be a complete, valid Arduino sketch with setup() and loop() functions
- Only use digital pins: %s
- Include comments explaining what the code does
- Keep it under %d lines
- Use only standard Arduino functions (digitalWrite, pinMode, delay, analogWrite, millis)
- No serial communication
- No EEPROM writes
- Include appropriate delays to make effects visible
- Must be safe and non-destructive

Generate ONLY the Arduino code, no explanations before or after the code.`,
		req.Category, strings.Join(pins, ", "), req.MaxLines)
}
