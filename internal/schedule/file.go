package schedule

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileWindow is the on-disk shape of one weekday entry:
//
//	mon:
//	  enabled: true
//	  start: "11:00"
//	  end: "13:59"
type fileWindow struct {
	Enabled bool   `yaml:"enabled"`
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
}

// LoadFile reads a yaml schedule file keyed by short day names. Days absent
// from the file are left unconfigured (and therefore disabled).
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule file: %w", err)
	}
	return parseYAML(data)
}

func parseYAML(data []byte) (Table, error) {
	var raw map[string]fileWindow
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse schedule yaml: %w", err)
	}

	table := make(Table, len(raw))
	for key, fw := range raw {
		day, ok := ParseWeekday(key)
		if !ok {
			return nil, fmt.Errorf("unknown weekday key %q", key)
		}
		w := Window{Enabled: fw.Enabled}
		if fw.Start != "" {
			start, err := ParseClock(fw.Start)
			if err != nil {
				return nil, fmt.Errorf("day %s: %w", key, err)
			}
			w.StartMinutes = start
		}
		if fw.End != "" {
			end, err := ParseClock(fw.End)
			if err != nil {
				return nil, fmt.Errorf("day %s: %w", key, err)
			}
			w.EndMinutes = end
		}
		if w.Enabled && w.EndMinutes < w.StartMinutes {
			return nil, fmt.Errorf("day %s: window ends before it starts", key)
		}
		table[day] = w
	}
	return table, nil
}
