package env

import (
	"os"
	"strings"
)

// VariablePrefix marks OS environment variables that seed the variable store:
// HITSHEET_VAR_token=abc makes {{token}} resolve to "abc".
const VariablePrefix = "HITSHEET_VAR_"

// MergeVariables merges sources left to right; later sources win.
func MergeVariables(sources ...map[string]any) map[string]any {
	result := make(map[string]any)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}

// LoadSystemEnv returns OS environment variables carrying prefix, with the
// prefix stripped.
func LoadSystemEnv(prefix string) map[string]any {
	result := make(map[string]any)
	for _, e := range os.Environ() {
		key, value, ok := strings.Cut(e, "=")
		if !ok || !strings.HasPrefix(key, prefix) || len(key) == len(prefix) {
			continue
		}
		result[strings.TrimPrefix(key, prefix)] = value
	}
	return result
}

// SeedVariables combines configured variables with prefixed OS environment
// variables, the environment taking precedence.
func SeedVariables(configured map[string]any) map[string]any {
	return MergeVariables(configured, LoadSystemEnv(VariablePrefix))
}
