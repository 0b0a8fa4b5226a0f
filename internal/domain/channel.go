package domain

// Channel describes one simulated sensor channel and its uniform draw range [Min, Max).
type Channel struct {
	Name    string  `yaml:"name" json:"name"`
	Min     float64 `yaml:"min" json:"min"`
	Max     float64 `yaml:"max" json:"max"`
	Integer bool    `yaml:"integer" json:"integer"`
	Default float64 `yaml:"default" json:"default"`
}

// Channel names of the default emission profile.
const (
	InputSO2  = "input_so2"
	InputNOx  = "input_nox"
	InputVOC  = "input_voc"
	InputCO   = "input_co"
	OutputSO2 = "output_so2"
	OutputNOx = "output_nox"
	OutputVOC = "output_voc"
	OutputCO  = "output_co"
	CleanO2   = "clean_o2"
	CleanN2   = "clean_n2"
)

// DefaultChannels models a zeolite filter: the input family runs at a higher
// magnitude and variance than the matching output family.
func DefaultChannels() []Channel {
	return []Channel{
		{Name: InputSO2, Min: 100, Max: 150, Integer: true, Default: 125},
		{Name: InputNOx, Min: 80, Max: 120, Integer: true, Default: 95},
		{Name: InputVOC, Min: 60, Max: 90, Integer: true, Default: 78},
		{Name: InputCO, Min: 150, Max: 200, Integer: true, Default: 185},
		{Name: OutputSO2, Min: 5, Max: 15, Integer: true, Default: 12},
		{Name: OutputNOx, Min: 5, Max: 10, Integer: true, Default: 9},
		{Name: OutputVOC, Min: 3, Max: 6, Integer: true, Default: 6},
		{Name: OutputCO, Min: 10, Max: 20, Integer: true, Default: 18},
		{Name: CleanO2, Min: 20, Max: 22, Default: 21},
		{Name: CleanN2, Min: 77, Max: 78, Default: 78},
	}
}

// FallbackSample is served when no tick has fired yet. It carries no
// timestamp; callers stamp it at read time.
func FallbackSample(channels []Channel) Sample {
	values := make(map[string]float64, len(channels))
	for _, ch := range channels {
		values[ch.Name] = ch.Default
	}
	return Sample{Values: values}
}
