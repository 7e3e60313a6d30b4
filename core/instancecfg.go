package core

import "strings"

// InstanceConfig is a line-oriented view of a MultiMC instance.cfg.
// Lines that are not key=value pairs are kept verbatim, as are line endings.
type InstanceConfig struct {
	lines []string
}

func ParseInstanceConfig(text string) *InstanceConfig {
	return &InstanceConfig{lines: strings.Split(text, "\n")}
}

// DefaultInstanceConfig is the file MultiMC expects for a freshly created OneSix instance.
func DefaultInstanceConfig(name string) *InstanceConfig {
	return ParseInstanceConfig(strings.Join([]string{
		"InstanceType=OneSix",
		"IntendedVersion=",
		"iconKey=default",
		"name=" + name,
	}, "\n"))
}

func configKey(line string) (string, bool) {
	key, _, ok := strings.Cut(line, "=")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

func (c *InstanceConfig) Get(key string) (string, bool) {
	for _, line := range c.lines {
		if k, ok := configKey(line); ok && k == key {
			_, value, _ := strings.Cut(line, "=")
			return strings.TrimRight(value, "\r"), true
		}
	}
	return "", false
}

// Set rewrites every line holding key. Keys not already present are not added;
// the return value reports whether anything matched.
func (c *InstanceConfig) Set(key, value string) bool {
	found := false
	for i, line := range c.lines {
		if k, ok := configKey(line); ok && k == key {
			eol := ""
			if strings.HasSuffix(line, "\r") {
				eol = "\r"
			}
			c.lines[i] = key + "=" + value + eol
			found = true
		}
	}
	return found
}

func (c *InstanceConfig) Keys() []string {
	var keys []string
	for _, line := range c.lines {
		if k, ok := configKey(line); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func (c *InstanceConfig) String() string {
	return strings.Join(c.lines, "\n")
}
