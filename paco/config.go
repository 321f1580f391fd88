package paco

import (
	"fmt"
	"strings"

	"github.com/baldhumanity/paco-go/paco/nn"
	"gopkg.in/ini.v1"
)

// Config stores the configuration parameters for the PACO sampler.
type Config struct {
	Network NetworkConfig
	Archive ArchiveConfig
	Sampler SamplerConfig

	// Functions holds the scalar functions resolved from the [Sampler]
	// names. Derived; not read from the file.
	Functions Functions `ini:"-"`
}

// NetworkConfig describes the base network every run starts from.
type NetworkConfig struct {
	NumInputs         int     `ini:"num_inputs"`
	NumOutputs        int     `ini:"num_outputs"`
	HiddenLayers      []int   `ini:"hidden_layers" delim:" "` // Space-separated sizes
	Representation    string  `ini:"representation"`          // layered or graph
	HiddenActivation  string  `ini:"hidden_activation"`
	OutputActivation  string  `ini:"output_activation"`
	SplitActivation   string  `ini:"split_activation"`   // Activation of neurons created by a split
	InitialConnection string  `ini:"initial_connection"` // none, full or direct
	InitialWeight     float64 `ini:"initial_weight"`
}

// ArchiveConfig holds the population archive parameters.
type ArchiveConfig struct {
	PopulationCapacity  int     `ini:"population_capacity"`
	ReplacementPolicy   string  `ini:"replacement_policy"` // worst or oldest
	SelectionPolicy     string  `ini:"selection_policy"`   // fitness or recency
	RankWeight          string  `ini:"rank_weight"`        // linear or exponential
	RankWeightQ         float64 `ini:"rank_weight_q"`
	ReuseSplitKnowledge bool    `ini:"reuse_split_knowledge"`
}

// SamplerConfig holds the candidate sampling parameters.
type SamplerConfig struct {
	MinWeight          float64 `ini:"min_weight"`
	MaxWeight          float64 `ini:"max_weight"`
	RecurrenceDisabled bool    `ini:"recurrence_disabled"`
	Seed               int64   `ini:"seed"`
	PheromoneFunction  string  `ini:"pheromone_function"`
	DeviationFunction  string  `ini:"deviation_function"`
	DynamicFunction    string  `ini:"dynamic_function"`
	SplitFunction      string  `ini:"split_function"`
	DeviationScale     float64 `ini:"deviation_scale"`
	MaxRejections      int     `ini:"max_rejections"`
}

// DefaultConfig returns a configuration with every optional key set. The
// loaders map the file on top of it, so keys the file omits keep these
// values.
func DefaultConfig() *Config {
	return &Config{
		Network: NetworkConfig{
			Representation:    string(nn.Layered),
			HiddenActivation:  "sigmoid",
			OutputActivation:  "sigmoid",
			SplitActivation:   nn.DefaultSplitActivation,
			InitialConnection: string(nn.ConnectFull),
			InitialWeight:     1,
		},
		Archive: ArchiveConfig{
			PopulationCapacity:  20,
			ReplacementPolicy:   ReplaceWorst,
			SelectionPolicy:     SelectByFitness,
			RankWeight:          "linear",
			RankWeightQ:         0.3,
			ReuseSplitKnowledge: true,
		},
		Sampler: SamplerConfig{
			MinWeight:          -1,
			MaxWeight:          1,
			RecurrenceDisabled: true,
			Seed:               1,
			PheromoneFunction:  "ratio",
			DeviationFunction:  "mad",
			DynamicFunction:    "duplication",
			SplitFunction:      "variance",
			DeviationScale:     1,
			MaxRejections:      100,
		},
	}
}

// LoadConfig loads configuration parameters from an INI file.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(loadOptions, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	return mapConfig(cfg)
}

// ParseConfig parses configuration parameters from INI data.
func ParseConfig(data []byte) (*Config, error) {
	cfg, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return mapConfig(cfg)
}

var loadOptions = ini.LoadOptions{
	IgnoreInlineComment:         true, // Allow # comments starting with # or ;
	UnescapeValueCommentSymbols: true, // If # or ; appear in value, treat as value
}

func mapConfig(cfg *ini.File) (*Config, error) {
	config := DefaultConfig()

	if err := cfg.Section("Network").MapTo(&config.Network); err != nil {
		return nil, fmt.Errorf("failed to map [Network] section: %w", err)
	}
	if err := cfg.Section("Archive").MapTo(&config.Archive); err != nil {
		return nil, fmt.Errorf("failed to map [Archive] section: %w", err)
	}
	if err := cfg.Section("Sampler").MapTo(&config.Sampler); err != nil {
		return nil, fmt.Errorf("failed to map [Sampler] section: %w", err)
	}

	// Bools that carry a trailing comment fail MapTo silently; re-read them
	// from the cleaned value.
	archive := cfg.Section("Archive")
	if key, err := archive.GetKey("reuse_split_knowledge"); err == nil {
		config.Archive.ReuseSplitKnowledge = parseBool(key.String(), config.Archive.ReuseSplitKnowledge)
	}
	sampler := cfg.Section("Sampler")
	if key, err := sampler.GetKey("recurrence_disabled"); err == nil {
		config.Sampler.RecurrenceDisabled = parseBool(key.String(), config.Sampler.RecurrenceDisabled)
	}

	config.Network.Representation = cleanIniString(config.Network.Representation)
	config.Network.HiddenActivation = cleanIniString(config.Network.HiddenActivation)
	config.Network.OutputActivation = cleanIniString(config.Network.OutputActivation)
	config.Network.SplitActivation = cleanIniString(config.Network.SplitActivation)
	config.Network.InitialConnection = cleanIniString(config.Network.InitialConnection)
	config.Archive.ReplacementPolicy = strings.ToLower(cleanIniString(config.Archive.ReplacementPolicy))
	config.Archive.SelectionPolicy = strings.ToLower(cleanIniString(config.Archive.SelectionPolicy))
	config.Archive.RankWeight = strings.ToLower(cleanIniString(config.Archive.RankWeight))
	config.Sampler.PheromoneFunction = cleanIniString(config.Sampler.PheromoneFunction)
	config.Sampler.DeviationFunction = cleanIniString(config.Sampler.DeviationFunction)
	config.Sampler.DynamicFunction = cleanIniString(config.Sampler.DynamicFunction)
	config.Sampler.SplitFunction = cleanIniString(config.Sampler.SplitFunction)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks every value and resolves Functions. Configurations built
// in code must be validated before use.
func (c *Config) Validate() error {
	if c.Network.NumInputs <= 0 {
		return fmt.Errorf("config error: num_inputs must be positive")
	}
	if c.Network.NumOutputs <= 0 {
		return fmt.Errorf("config error: num_outputs must be positive")
	}
	for i, n := range c.Network.HiddenLayers {
		if n <= 0 {
			return fmt.Errorf("config error: hidden_layers entry %d must be positive, got %d", i, n)
		}
	}
	if _, err := nn.ParseRepresentation(c.Network.Representation); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	for key, name := range map[string]string{
		"hidden_activation": c.Network.HiddenActivation,
		"output_activation": c.Network.OutputActivation,
		"split_activation":  c.Network.SplitActivation,
	} {
		if _, err := nn.GetActivation(name); err != nil {
			return fmt.Errorf("config error: invalid %s: %w", key, err)
		}
	}
	switch nn.Connect(c.Network.InitialConnection) {
	case nn.ConnectNone, nn.ConnectFull, nn.ConnectDirect:
	default:
		return fmt.Errorf("config error: invalid initial_connection '%s', must be one of 'none', 'full', 'direct'", c.Network.InitialConnection)
	}
	if c.Network.InitialWeight == 0 {
		return fmt.Errorf("config error: initial_weight cannot be zero")
	}

	if c.Archive.PopulationCapacity <= 0 {
		return fmt.Errorf("config error: population_capacity must be positive")
	}
	if c.Archive.ReplacementPolicy != ReplaceWorst && c.Archive.ReplacementPolicy != ReplaceOldest {
		return fmt.Errorf("config error: invalid replacement_policy '%s', must be one of 'worst', 'oldest'", c.Archive.ReplacementPolicy)
	}
	if c.Archive.SelectionPolicy != SelectByFitness && c.Archive.SelectionPolicy != SelectByRecency {
		return fmt.Errorf("config error: invalid selection_policy '%s', must be one of 'fitness', 'recency'", c.Archive.SelectionPolicy)
	}
	if _, ok := RankWeightFunctions[c.Archive.RankWeight]; !ok {
		return fmt.Errorf("config error: invalid rank_weight '%s'", c.Archive.RankWeight)
	}
	if c.Archive.RankWeightQ <= 0 {
		return fmt.Errorf("config error: rank_weight_q must be positive")
	}

	if c.Sampler.MaxWeight <= c.Sampler.MinWeight {
		return fmt.Errorf("config error: max_weight must be greater than min_weight")
	}
	if c.Sampler.DeviationScale <= 0 {
		return fmt.Errorf("config error: deviation_scale must be positive")
	}
	if c.Sampler.MaxRejections <= 0 {
		return fmt.Errorf("config error: max_rejections must be positive")
	}
	fns, err := ResolveFunctions(c.Sampler)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	c.Functions = fns
	return nil
}

// NetworkSpec returns the nn.Spec of the configured base network.
func (c *Config) NetworkSpec() nn.Spec {
	return nn.Spec{
		Inputs:           c.Network.NumInputs,
		Hidden:           append([]int(nil), c.Network.HiddenLayers...),
		Outputs:          c.Network.NumOutputs,
		HiddenActivation: c.Network.HiddenActivation,
		OutputActivation: c.Network.OutputActivation,
		Connect:          nn.Connect(c.Network.InitialConnection),
		InitialWeight:    c.Network.InitialWeight,
	}
}

// Representation returns the configured network representation.
func (c *Config) Representation() nn.Representation {
	r, err := nn.ParseRepresentation(c.Network.Representation)
	if err != nil {
		return nn.Layered
	}
	return r
}

// BaseNetwork builds the untouched base network described by [Network].
func (c *Config) BaseNetwork() (nn.Network, error) {
	net, err := nn.New(c.Representation(), c.NetworkSpec())
	if err != nil {
		return nil, fmt.Errorf("failed to build base network: %w", err)
	}
	return net, nil
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	// Remove comments starting with # or ;
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// parseBool parses common string representations of booleans, returning
// def for anything it does not recognise.
func parseBool(s string, def bool) bool {
	switch strings.ToLower(cleanIniString(s)) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	default:
		return def
	}
}
