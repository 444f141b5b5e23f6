// Package safety screens generated sketch code before it is allowed to
// reach the filesystem or the board.
package safety

import (
	"fmt"
	"regexp"
	"strings"

	"sketchforge/internal/domain"
	"sketchforge/internal/ports"
)

// whileRegion matches a brace-delimited while loop. Single-level brace
// matching only: a loop body containing nested braces is scanned up to the
// first closing brace.
var whileRegion = regexp.MustCompile(`(?s)while\s*\([^)]+\)\s*\{[^}]*\}`)

// Validator implements the SafetyService port as a fixed battery of static
// checks. Checks run in order and short-circuit at the first failure, so
// the verdict reason always names the first offending property.
type Validator struct {
	forbiddenOps []string
	maxLines     int
}

// NewValidator builds a validator from the configured safety constraints.
func NewValidator(settings domain.SafetySettings) *Validator {
	return &Validator{
		forbiddenOps: settings.ForbiddenOps,
		maxLines:     settings.MaxSketchLines,
	}
}

// Validate implements ports.SafetyService.
func (v *Validator) Validate(code string) domain.Verdict {
	for _, keyword := range v.forbiddenOps {
		if strings.Contains(code, keyword) {
			return unsafe(fmt.Sprintf("Contains dangerous keyword: %s", keyword))
		}
	}

	if !strings.Contains(code, "void setup()") && !strings.Contains(code, "void setup ()") {
		return unsafe("Missing setup() function")
	}
	if !strings.Contains(code, "void loop()") && !strings.Contains(code, "void loop ()") {
		return unsafe("Missing loop() function")
	}

	lineCount := len(strings.Split(code, "\n"))
	if lineCount > v.maxLines {
		return unsafe(fmt.Sprintf("Too many lines: %d (max: %d)", lineCount, v.maxLines))
	}

	for _, region := range whileRegion.FindAllString(code, -1) {
		lowered := strings.ToLower(region)
		if !strings.Contains(lowered, "delay") && !strings.Contains(lowered, "millis") {
			return unsafe("Contains while loop without delay (potential hang)")
		}
	}

	return domain.Verdict{Safe: true, Reason: domain.VerdictSafe}
}

func unsafe(reason string) domain.Verdict {
	return domain.Verdict{Safe: false, Reason: reason}
}

var _ ports.SafetyService = (*Validator)(nil)
