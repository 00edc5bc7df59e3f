// Package cache memoizes expensive, deterministic artifacts such as
// compiled shader binaries and reflected binding contracts.
//
//	c := cache.New[string, []byte](16)
//	code, err := c.GetOrCreate("ambient/spirv", func() ([]byte, error) {
//	    return naga.Compile(src)
//	})
//
// Failed creations are not stored, so a transient error is retried on the
// next call. Cache is safe for concurrent use and must not be copied.
package cache
