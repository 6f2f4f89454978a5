package main

import (
	"github.com/BurntSushi/toml"

	"tinygo.org/x/arucolite"
	"tinygo.org/x/arucolite/dict"
)

// fileConfig is the TOML-facing shape of a Detector's Config: plain
// values only, since dict.Dictionary isn't itself serializable here
// (cmd/arucolite-dictgen produces the Go source a real deployment
// imports; this CLI always runs against the built-in placeholder
// table, and the file has no field for choosing another).
type fileConfig struct {
	Width      int  `toml:"width"`
	Height     int  `toml:"height"`
	MaxMarkers int  `toml:"max_markers"`
	Debug      bool `toml:"debug"`
	Verbose    bool `toml:"verbose"`

	MQTT mqttConfig `toml:"mqtt"`
}

type mqttConfig struct {
	Broker string `toml:"broker"`
	Topic  string `toml:"topic"`
}

func loadConfig(path string) (fileConfig, error) {
	var fc fileConfig
	_, err := toml.DecodeFile(path, &fc)
	return fc, err
}

// toDetectorConfig resolves a fileConfig into the library's Config,
// always backed by dict.Builtin(): a real deployment's own dictionary
// comes from cmd/arucolite-dictgen's generated source, compiled into
// a purpose-built binary rather than loaded by this generic CLI.
func (fc fileConfig) toDetectorConfig() arucolite.Config {
	return arucolite.Config{
		Width:      fc.Width,
		Height:     fc.Height,
		MaxMarkers: fc.MaxMarkers,
		Dictionary: dict.Builtin(),
		Debug:      fc.Debug,
		Verbose:    fc.Verbose,
	}
}
