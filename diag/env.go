package diag

import (
	"os"
	"strings"
)

// DefaultEnvMasks are the key fragments whose environment values are
// masked by default.
var DefaultEnvMasks = []string{"KEY", "TOKEN", "SECRET", "PASSWORD", "CREDENTIAL"}

const maskedValue = "******"

// Env returns a snapshot of the process environment. Values of variables
// whose name contains any of the mask fragments (case-insensitive) are
// replaced with asterisks. A nil mask list applies DefaultEnvMasks; an
// empty non-nil list masks nothing.
func Env(masks []string) map[string]string {
	if masks == nil {
		masks = DefaultEnvMasks
	}

	snapshot := make(map[string]string)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if masked(key, masks) {
			value = maskedValue
		}
		snapshot[key] = value
	}
	return snapshot
}

func masked(key string, masks []string) bool {
	upper := strings.ToUpper(key)
	for _, mask := range masks {
		if strings.Contains(upper, strings.ToUpper(mask)) {
			return true
		}
	}
	return false
}
