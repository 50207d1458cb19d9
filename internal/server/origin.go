package server

import "strings"

// matchOrigin compares an origin with a pattern such as "http://localhost:*".
// A single "*" matches anything; otherwise "*" may only stand for the port.
func matchOrigin(pattern, origin string) bool {
	if pattern == "*" || pattern == origin {
		return true
	}
	prefix, ok := strings.CutSuffix(pattern, ":*")
	if !ok {
		return false
	}
	port, ok := strings.CutPrefix(origin, prefix+":")
	if !ok || port == "" {
		return false
	}
	for _, c := range port {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
