package component

// ICD (Interface Control Document) describes one child device's monitored
// attribute schema and how to translate a raw wire value into the typed
// value committed to that child's compstate.Map. Each of ds.go, spf.go,
// spfrx.go, b5dc.go and wms.go supplies one concrete ICD.
type ICD interface {
	// Name identifies the device kind, used for log tagging and the synthetic
	// "{name}ConnectionState" parent key.
	Name() string
	// Attributes lists every attribute this device is monitored for.
	Attributes() []string
	// Translate maps a raw event value for attribute name to its typed Go value
	// (an enum string, bool, float64, or []float64). Attributes without an
	// enum table or bool coercion pass through unchanged; an enum attribute's
	// unrecognised raw value maps to "UNKNOWN".
	Translate(name string, raw interface{}) interface{}
}

// enumTable maps attribute names to the fixed string table their integer
// raw wire value indexes into. The concrete ICDs do not use it; each keeps
// its own table variables and calls translateEnum directly.
type enumTable map[string][]string

// translateEnum maps raw (an int or a string already matching the table) to
// its canonical upper-snake string, defaulting to "UNKNOWN".
func translateEnum(table []string, raw interface{}) interface{} {
	switch v := raw.(type) {
	case int:
		if v >= 0 && v < len(table) {
			return table[v]
		}
	case int32:
		return translateEnum(table, int(v))
	case int64:
		return translateEnum(table, int(v))
	case float64:
		return translateEnum(table, int(v))
	case string:
		for _, s := range table {
			if s == v {
				return s
			}
		}
	}

	return "UNKNOWN"
}
