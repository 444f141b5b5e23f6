package safety

import (
	"strings"
	"testing"

	"sketchforge/internal/domain"
)

func newTestValidator() *Validator {
	return NewValidator(domain.SafetySettings{
		ForbiddenOps:   domain.DefaultForbiddenOps(),
		MaxSketchLines: domain.DefaultMaxSketchLines,
	})
}

// Pin 9 on purpose: the forbidden "pinMode(1" token also matches
// pinMode(10) through pinMode(13).
const minimalSketch = "void setup() {\n  pinMode(9, OUTPUT);\n}\n\nvoid loop() {\n  digitalWrite(9, HIGH);\n  delay(500);\n}"

func TestValidatorAcceptsMinimalSketch(t *testing.T) {
	verdict := newTestValidator().Validate(minimalSketch)
	if !verdict.Safe {
		t.Fatalf("expected safe, got %+v", verdict)
	}
	if verdict.Reason != domain.VerdictSafe {
		t.Fatalf("expected reason %q, got %q", domain.VerdictSafe, verdict.Reason)
	}
}

func TestValidatorForbiddenKeywords(t *testing.T) {
	for _, keyword := range domain.DefaultForbiddenOps() {
		t.Run(keyword, func(t *testing.T) {
			code := minimalSketch + "\n// " + keyword
			verdict := newTestValidator().Validate(code)
			if verdict.Safe {
				t.Fatalf("expected fail for %q", keyword)
			}
			if !strings.Contains(verdict.Reason, keyword) {
				t.Errorf("reason %q does not name keyword %q", verdict.Reason, keyword)
			}
		})
	}
}

func TestValidatorForbiddenTokenIsPlainSubstring(t *testing.T) {
	// "pinMode(1" catches pinMode(13) too. Exact substring semantics,
	// carried over from the reference keyword list.
	code := "void setup() {\n  pinMode(13, OUTPUT);\n}\nvoid loop() {\n  delay(10);\n}"
	verdict := newTestValidator().Validate(code)
	if verdict.Safe {
		t.Fatal("expected fail for pinMode(13)")
	}
	if !strings.Contains(verdict.Reason, "pinMode(1") {
		t.Errorf("reason = %q", verdict.Reason)
	}
}

func TestValidatorRequiredFunctions(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		wantSafe   bool
		wantReason string
	}{
		{
			name:       "missing setup",
			code:       "void loop() {\n  delay(10);\n}",
			wantSafe:   false,
			wantReason: "Missing setup() function",
		},
		{
			name:       "missing loop",
			code:       "void setup() {}",
			wantSafe:   false,
			wantReason: "Missing loop() function",
		},
		{
			name:     "space before parameter list tolerated",
			code:     "void setup () {\n}\nvoid loop () {\n  delay(10);\n}",
			wantSafe: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := newTestValidator().Validate(tt.code)
			if verdict.Safe != tt.wantSafe {
				t.Fatalf("Safe = %v, want %v (reason %q)", verdict.Safe, tt.wantSafe, verdict.Reason)
			}
			if !tt.wantSafe && verdict.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", verdict.Reason, tt.wantReason)
			}
		})
	}
}

func TestValidatorLineBudget(t *testing.T) {
	validator := NewValidator(domain.SafetySettings{
		ForbiddenOps:   domain.DefaultForbiddenOps(),
		MaxSketchLines: 10,
	})

	base := "void setup() {}\nvoid loop() {\n  delay(10);\n}"
	baseLines := len(strings.Split(base, "\n"))

	atBudget := base + strings.Repeat("\n// pad", 10-baseLines)
	if verdict := validator.Validate(atBudget); !verdict.Safe {
		t.Fatalf("code at exactly the budget should pass, got %+v", verdict)
	}

	overBudget := atBudget + "\n// one more"
	verdict := validator.Validate(overBudget)
	if verdict.Safe {
		t.Fatal("code over the budget should fail")
	}
	if !strings.Contains(verdict.Reason, "Too many lines") {
		t.Errorf("unexpected reason %q", verdict.Reason)
	}
}

func TestValidatorWhileLoopScan(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantSafe bool
	}{
		{name: "delay in body", body: "while (x < 5) { delay(100); x++; }", wantSafe: true},
		{name: "millis in body", body: "while (x < 5) { if (millis() - start > 100) x++; }", wantSafe: true},
		{name: "uppercase Delay counts", body: "while (x < 5) { Delay(100); x++; }", wantSafe: true},
		{name: "neither primitive", body: "while (x < 5) { x++; }", wantSafe: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := "void setup() {}\nvoid loop() {\n  int x = 0;\n  " + tt.body + "\n  delay(10);\n}"
			verdict := newTestValidator().Validate(code)
			if verdict.Safe != tt.wantSafe {
				t.Fatalf("Safe = %v, want %v (reason %q)", verdict.Safe, tt.wantSafe, verdict.Reason)
			}
			if !tt.wantSafe && !strings.Contains(verdict.Reason, "while loop without delay") {
				t.Errorf("unexpected reason %q", verdict.Reason)
			}
		})
	}
}

func TestValidatorCheckOrder(t *testing.T) {
	// A sketch that violates everything reports the forbidden keyword first.
	code := "EEPROM.write(0, 1);\n" + strings.Repeat("// pad\n", 200)
	verdict := newTestValidator().Validate(code)
	if verdict.Safe {
		t.Fatal("expected fail")
	}
	if !strings.Contains(verdict.Reason, "EEPROM.write") {
		t.Errorf("expected forbidden-keyword reason first, got %q", verdict.Reason)
	}
}
