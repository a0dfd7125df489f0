package redis

const (
	// KeyPrefixResolve is the prefix for cached code -> URL resolutions.
	KeyPrefixResolve = "voxpage:resolve:"
	// KeyClicks is the hash holding mirrored click counters per code.
	KeyClicks = "voxpage:clicks"
)

// ResolveKey returns the cache key for a short code resolution.
func ResolveKey(code string) string {
	return KeyPrefixResolve + code
}
