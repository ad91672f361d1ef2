// Package instance identifies the running worker replica.
package instance

import "os"

// GetID returns the replica identifier from WORKER_ID, defaulting to the
// single-replica name.
func GetID() string {
	if id := os.Getenv("WORKER_ID"); id != "" {
		return id
	}
	return "worker-0"
}
