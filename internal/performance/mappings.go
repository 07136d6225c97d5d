package performance

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadStaticLevels reads a YAML file of employee name to level text:
//
//	"Budi Santoso": Eselon III
//	"Siti Aminah": Staff
//
// An empty path yields an empty mapping.
func LoadStaticLevels(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "performance: read static levels %s", path)
	}
	levels := map[string]string{}
	if err := yaml.Unmarshal(data, &levels); err != nil {
		return nil, eris.Wrapf(err, "performance: parse static levels %s", path)
	}
	return levels, nil
}

// Merge layers mappings left to right; later maps override earlier keys.
func Merge(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
