// Package cache provides a small generic LRU cache.
//
// The frame server keeps the encoded PNG of the last few frames keyed by
// frame sequence, so repeated polls of an unchanged frame do not re-render.
//
//	c := cache.New[uint64, []byte](8)
//	png, err := c.GetOrCreate(frame.Seq, encode)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
