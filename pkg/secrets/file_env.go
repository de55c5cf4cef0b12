package secrets

import (
	"fmt"
	"os"
	"strings"
)

const fileSuffix = "_FILE"

// ResolveFileEnv applies *_FILE indirection: for every environment variable
// NAME_FILE whose value names a readable file, NAME is set to the trimmed file
// contents unless NAME is already set. Returns the names that were resolved.
//
// This lets deployments mount secrets (OPENAI_API_KEY_FILE, DB_PASSWORD_FILE)
// without putting the material itself into the environment.
func ResolveFileEnv() ([]string, error) {
	var resolved []string

	for _, kv := range os.Environ() {
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			continue
		}
		key, path := kv[:eq], kv[eq+1:]
		if !strings.HasSuffix(key, fileSuffix) || path == "" {
			continue
		}

		target := strings.TrimSuffix(key, fileSuffix)
		if target == "" || os.Getenv(target) != "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return resolved, fmt.Errorf("secrets: reading %s (%s): %w", key, path, err)
		}
		if err := os.Setenv(target, strings.TrimSpace(string(data))); err != nil {
			return resolved, fmt.Errorf("secrets: setting %s: %w", target, err)
		}
		resolved = append(resolved, target)
	}

	return resolved, nil
}
