package component

// b5dcICD is the band-5 down-converter's attribute schema: RF power in/out,
// attenuations, temperatures and PLL-lock, all plain floats/bools with no
// enum translation.
type b5dcICD struct{}

// NewB5DCICD returns the B5DC schema.
func NewB5DCICD() ICD { return b5dcICD{} }

func (b5dcICD) Name() string { return "B5DC" }

func (b5dcICD) Attributes() []string {
	return []string{
		"rfpowerina", "rfpowerinb", "rfpowerouta", "rfpoweroutb",
		"attenuationa", "attenuationb",
		"rftemperature", "plltemperature",
		"plllocked", "buildstate",
	}
}

func (b5dcICD) Translate(_ string, raw interface{}) interface{} { return raw }
