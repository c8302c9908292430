// Package reference side-loads the static dataset of local profiles and
// services that gets embedded verbatim into every prompt.
package reference

import (
	"log"
	"os"
)

// Load reads the reference dataset once at start-up. A missing or unreadable
// file is not fatal: the service keeps running with an empty dataset and the
// model simply has no local profiles to draw from.
func Load(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("reference dataset %q not loaded: %v", path, err)
		return ""
	}
	return string(data)
}
