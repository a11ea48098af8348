package game

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Settings carries the fixed table parameters. Blinds and stacks are
// plain integer chip counts.
type Settings struct {
	SmallBlind    int  `yaml:"smallBlind"`
	BigBlind      int  `yaml:"bigBlind"`
	StartingStack int  `yaml:"startingStack"`
	MaxSeats      int  `yaml:"maxSeats"`
	MaxBotsPerAdd int  `yaml:"maxBotsPerAdd"`
	BotTurnCap    int  `yaml:"botTurnCap"`
	StrictCalls   bool `yaml:"strictCalls"`
}

func DefaultSettings() Settings {
	return Settings{
		SmallBlind:    5,
		BigBlind:      10,
		StartingStack: 100,
		MaxSeats:      9,
		MaxBotsPerAdd: 4,
		BotTurnCap:    10,
		StrictCalls:   false,
	}
}

// ParseSettings reads table settings from a YAML file. An empty file
// name yields the defaults. Absent fields fall back to their defaults
// as well, so a partial file only overrides what it names.
func ParseSettings(settingsFile string) (Settings, error) {
	settings := DefaultSettings()
	if settingsFile == "" {
		return settings, nil
	}
	bytes, err := ioutil.ReadFile(settingsFile)
	if err != nil {
		return settings, errors.Wrap(err, fmt.Sprintf("Error reading settings file [%s]", settingsFile))
	}
	err = yaml.Unmarshal(bytes, &settings)
	if err != nil {
		return settings, errors.Wrap(err, fmt.Sprintf("Error parsing settings YAML file [%s]", settingsFile))
	}
	return settings, nil
}
