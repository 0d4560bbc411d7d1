package commandmap

import "fmt"

// validateArity enforces the one class of error that surfaces
// synchronously: "Expected
// 2 arguments (az, el) but got N arg(s)." for Slew and the same shape for
// TrackLoadStaticOff.
func validateArity(name string, arg interface{}) error {
	switch name {
	case "Slew":
		return checkPair(arg, "az, el")
	case "TrackLoadStaticOff":
		return checkPair(arg, "xel, el")
	default:
		return nil
	}
}

func checkPair(arg interface{}, names string) error {
	v, ok := arg.([]float64)
	if !ok {
		return fmt.Errorf("Expected 2 arguments (%s) but got 0 arg(s).", names)
	}

	if len(v) != 2 {
		return fmt.Errorf("Expected 2 arguments (%s) but got %d arg(s).", names, len(v))
	}

	return nil
}
