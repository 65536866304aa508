package instance

import "os"

// GetID returns the process instance identifier used in startup logs. Platform dyno names win
// over the hostname; "local" is the fallback.
func GetID() string {
	for _, key := range []string{"STOREFRONT_INSTANCE_ID", "DYNO"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
