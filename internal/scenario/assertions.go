package scenario

import (
	"fmt"
	"strings"

	"github.com/roach88/mpn/internal/score"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

func evaluate(outputs []score.Output, a Assertion) error {
	switch a.Type {
	case AssertFrameCount:
		return assertFrameCount(outputs, a)
	case AssertSpeakerActive:
		return withFrame(outputs, a, assertSpeakerActive)
	case AssertTransformation:
		return withFrame(outputs, a, assertTransformation)
	case AssertDynamics:
		return withFrame(outputs, a, assertDynamics)
	case AssertTensionRises:
		return assertTensionRises(outputs, a)
	}
	return fmt.Errorf("unknown assertion type: %s", a.Type)
}

func withFrame(outputs []score.Output, a Assertion, check func(score.Output, Assertion) error) error {
	if a.Frame < 0 || a.Frame >= len(outputs) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("frame %d", a.Frame),
			Actual:   fmt.Sprintf("run has %d frames", len(outputs)),
		}
	}
	return check(outputs[a.Frame], a)
}

func assertFrameCount(outputs []score.Output, a Assertion) error {
	if len(outputs) != a.Count {
		return &AssertionError{
			Type:     AssertFrameCount,
			Expected: fmt.Sprintf("%d frames", a.Count),
			Actual:   fmt.Sprintf("%d frames", len(outputs)),
		}
	}
	return nil
}

func assertSpeakerActive(out score.Output, a Assertion) error {
	s, ok := out.Stave(a.Speaker)
	if ok && s.IsSpeaking {
		return nil
	}
	actual := "nobody speaking"
	if out.Speaker != "" {
		actual = out.Speaker + " speaking"
	}
	return &AssertionError{
		Type:     AssertSpeakerActive,
		Expected: fmt.Sprintf("%s speaking in frame %d", a.Speaker, a.Frame),
		Actual:   actual,
	}
}

func assertTransformation(out score.Output, a Assertion) error {
	if string(out.Transformation) != a.Transformation {
		return &AssertionError{
			Type:     AssertTransformation,
			Expected: fmt.Sprintf("%s in frame %d", a.Transformation, a.Frame),
			Actual:   fmt.Sprintf("%q", out.Transformation),
		}
	}
	return nil
}

func assertDynamics(out score.Output, a Assertion) error {
	if out.Global.Dynamics != a.Dynamics {
		return &AssertionError{
			Type:     AssertDynamics,
			Expected: fmt.Sprintf("%s in frame %d", a.Dynamics, a.Frame),
			Actual:   out.Global.Dynamics,
		}
	}
	return nil
}

func assertTensionRises(outputs []score.Output, a Assertion) error {
	for _, idx := range []int{a.From, a.To} {
		if idx < 0 || idx >= len(outputs) {
			return &AssertionError{
				Type:     AssertTensionRises,
				Expected: fmt.Sprintf("frames %d and %d", a.From, a.To),
				Actual:   fmt.Sprintf("run has %d frames", len(outputs)),
			}
		}
	}
	from, to := outputs[a.From].Harmony.Tension, outputs[a.To].Harmony.Tension
	if to <= from {
		return &AssertionError{
			Type:     AssertTensionRises,
			Expected: fmt.Sprintf("tension in frame %d above frame %d (%.3f)", a.To, a.From, from),
			Actual:   fmt.Sprintf("%.3f", to),
		}
	}
	return nil
}
