package doccmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is one named connection entry in the config file. Tokens do not
// belong in the file; they come from -token or DOCBRIDGE_TOKEN.
type Profile struct {
	URL       string `yaml:"url"`
	TokenType string `yaml:"token_type"`
}

type profileFile struct {
	// Default names the profile used when -profile is not given.
	Default  string             `yaml:"default"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// resolveProfile loads the named profile from path. A missing file resolves
// to an empty profile; a named profile that does not exist is an error.
func resolveProfile(path, name string) (Profile, error) {
	if path == "" {
		return Profile{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if name != "" {
				return Profile{}, fmt.Errorf("profile %q requested but %s does not exist", name, path)
			}
			return Profile{}, nil
		}
		return Profile{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Profile{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if name == "" {
		name = file.Default
	}
	if name == "" {
		return Profile{}, nil
	}

	prof, ok := file.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not found in %s", name, path)
	}
	return prof, nil
}
