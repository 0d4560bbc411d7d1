package manager

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ska-mid/dish-manager-core/internal/app/aggregation"
	"github.com/ska-mid/dish-manager-core/internal/app/commandmap"
	"github.com/ska-mid/dish-manager-core/internal/config"
)

// pointingModelCoefficientOrder is the canonical 18-element order an
// ApplyPointingModel payload must list its coefficients in; the flattened
// vector written to the DS's bandNpointingmodelparams attribute follows this
// order. ABphi sits at config.ABphiIndex and alone uses the [0, 360] range;
// every other coefficient uses [-2000, 2000].
var pointingModelCoefficientOrder = []string{
	"IA", "CA", "NPAE", "AN", "AN0", "AW", "AW0", "ACEC", "ACES",
	"ABA", "ABphi", "IE", "ECEC", "ECES", "HECE4", "HESE4", "HECE8", "HESE8",
}

type pointingModelCoefficient struct {
	Value float64 `json:"value"`
}

type pointingModelPayload struct {
	Interface    string                              `json:"interface"`
	Antenna      string                              `json:"antenna"`
	Band         string                              `json:"band"`
	Coefficients map[string]pointingModelCoefficient `json:"coefficients"`
	RMSFits      json.RawMessage                     `json:"rms_fits"`
}

// parsePointingModel validates an ApplyPointingModel JSON payload: the
// antenna must match this dish, the band must be one of the six configurable
// bands, and the coefficients must be present in the canonical order with
// every value inside its range. Rejection messages are stable strings
// clients match on.
func parsePointingModel(payload []byte, antennaID string) (commandmap.PointingModelArg, error) {
	var p pointingModelPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return commandmap.PointingModelArg{}, fmt.Errorf("invalid pointing model payload: %w", err)
	}

	if p.Antenna != antennaID {
		return commandmap.PointingModelArg{},
			fmt.Errorf("Command rejected. The Dish id %s and the Antenna's value %s are not equal.", antennaID, p.Antenna)
	}

	band, ok := pointingModelBand(p.Band)
	if !ok {
		return commandmap.PointingModelArg{}, fmt.Errorf("Unsupported Band: %s", p.Band)
	}

	found, err := coefficientKeyOrder(payload)
	if err != nil {
		return commandmap.PointingModelArg{}, err
	}

	if !orderedKeysMatch(found, pointingModelCoefficientOrder) {
		return commandmap.PointingModelArg{},
			fmt.Errorf("Coefficients are missing or not in the correct order. The coefficients found in the JSON object were [%s]",
				strings.Join(found, ", "))
	}

	var coeffs [config.PointingModelCoeffSize]float64

	for i, name := range pointingModelCoefficientOrder {
		coeffs[i] = p.Coefficients[name].Value
	}

	if err := validatePointingCoefficients(coeffs[:]); err != nil {
		return commandmap.PointingModelArg{}, err
	}

	return commandmap.PointingModelArg{Band: band, Coefficients: coeffs}, nil
}

// validatePointingCoefficients range-checks a flattened coefficient vector:
// exactly 18 elements, each in [-2000, 2000] except ABphi in [0, 360]. Used
// by both the ApplyPointingModel JSON path and direct
// bandNpointingModelParams attribute writes.
func validatePointingCoefficients(vec []float64) error {
	if len(vec) != config.PointingModelCoeffSize {
		return fmt.Errorf("expected %d pointing model coefficients, got %d", config.PointingModelCoeffSize, len(vec))
	}

	for i, v := range vec {
		lo, hi := config.PointingModelCoeffMin, config.PointingModelCoeffMax
		if i == config.ABphiIndex {
			lo, hi = config.PointingModelABphiMin, config.PointingModelABphiMax
		}

		if v < lo || v > hi {
			return fmt.Errorf("coefficient %s out of range [%g, %g]: %g", pointingModelCoefficientOrder[i], lo, hi, v)
		}
	}

	return nil
}

// pointingParamsKey maps a band to its DS pointing-model attribute name
// ("band2pointingmodelparams" for B2).
func pointingParamsKey(band aggregation.Band) (string, bool) {
	switch band {
	case aggregation.Band1, aggregation.Band2, aggregation.Band3, aggregation.Band4,
		aggregation.Band5a, aggregation.Band5b:
		return "band" + strings.TrimPrefix(string(band), "B") + "pointingmodelparams", true
	default:
		return "", false
	}
}

// coefficientKeyOrder re-reads the raw payload with a token decoder to
// recover the coefficients object's key order, which json.Unmarshal into a
// map discards.
func coefficientKeyOrder(payload []byte) ([]string, error) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(payload, &outer); err != nil {
		return nil, fmt.Errorf("invalid pointing model payload: %w", err)
	}

	raw, ok := outer["coefficients"]
	if !ok {
		return nil, fmt.Errorf("Coefficients are missing or not in the correct order. The coefficients found in the JSON object were []")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid pointing model payload: %w", err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("invalid pointing model payload: coefficients is not an object")
	}

	var keys []string

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid pointing model payload: %w", err)
		}

		key, _ := tok.(string)
		keys = append(keys, key)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid pointing model payload: %w", err)
		}
	}

	return keys, nil
}

func orderedKeysMatch(found, want []string) bool {
	if len(found) != len(want) {
		return false
	}

	for i := range want {
		if found[i] != want[i] {
			return false
		}
	}

	return true
}

func pointingModelBand(raw string) (aggregation.Band, bool) {
	switch raw {
	case "Band_1":
		return aggregation.Band1, true
	case "Band_2":
		return aggregation.Band2, true
	case "Band_3":
		return aggregation.Band3, true
	case "Band_4":
		return aggregation.Band4, true
	case "Band_5a":
		return aggregation.Band5a, true
	case "Band_5b":
		return aggregation.Band5b, true
	default:
		return aggregation.BandUnknown, false
	}
}
