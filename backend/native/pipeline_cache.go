//go:build !nogpu

package native

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rlgl"
	"github.com/gogpu/wgpu/hal"
)

// pipelineKey is the render state a pipeline is compiled for. Viewport and
// scissor are dynamic pass state and not part of the key.
type pipelineKey struct {
	shader      rlgl.ShaderID
	codeHash    uint64
	topology    gputypes.PrimitiveTopology
	blend       rlgl.BlendMode
	depthTest   bool
	cullFace    bool
	depthFormat gputypes.TextureFormat
}

// hash computes an FNV-1a hash over every field of the key.
func (k pipelineKey) hash() uint64 {
	h := fnv.New64a()
	hashWriteUint32(h, uint32(k.shader))
	hashWriteUint64(h, k.codeHash)
	hashWriteUint32(h, uint32(k.topology))
	hashWriteUint32(h, uint32(k.blend))
	hashWriteBool(h, k.depthTest)
	hashWriteBool(h, k.cullFace)
	hashWriteUint32(h, uint32(k.depthFormat))
	return h.Sum64()
}

type cachedPipeline struct {
	key pipelineKey
	raw hal.RenderPipeline
}

// pipelineCache caches render pipelines by state key.
//
// Pipeline creation compiles and links the shader stages, so the batch
// flusher looks pipelines up on every draw. The cache is safe for concurrent
// use and counts hits and misses.
type pipelineCache struct {
	mu      sync.RWMutex
	entries map[uint64]cachedPipeline

	hits   uint64
	misses uint64
}

func newPipelineCache() *pipelineCache {
	return &pipelineCache{entries: make(map[uint64]cachedPipeline)}
}

// getOrCreate returns the pipeline for key, calling create on a miss.
// It uses double-checked locking: a read-locked lookup first, then a
// write-locked lookup and creation.
func (c *pipelineCache) getOrCreate(key pipelineKey, create func(pipelineKey) (hal.RenderPipeline, error)) (hal.RenderPipeline, error) {
	sum := key.hash()

	c.mu.RLock()
	if p, ok := c.entries[sum]; ok {
		c.mu.RUnlock()
		atomic.AddUint64(&c.hits, 1)
		return p.raw, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.entries[sum]; ok {
		atomic.AddUint64(&c.hits, 1)
		return p.raw, nil
	}

	raw, err := create(key)
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	c.entries[sum] = cachedPipeline{key: key, raw: raw}
	atomic.AddUint64(&c.misses, 1)
	slogger().Debug("native: pipeline created",
		"shader", key.shader, "topology", key.topology, "blend", key.blend,
		"depth_test", key.depthTest, "cull", key.cullFace)
	return raw, nil
}

// removeShader destroys every pipeline built for shader.
func (c *pipelineCache) removeShader(device hal.Device, shader rlgl.ShaderID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for sum, p := range c.entries {
		if p.key.shader == shader {
			device.DestroyRenderPipeline(p.raw)
			delete(c.entries, sum)
		}
	}
}

// destroyAll destroys all pipelines and resets statistics.
func (c *pipelineCache) destroyAll(device hal.Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.entries {
		device.DestroyRenderPipeline(p.raw)
	}
	c.entries = make(map[uint64]cachedPipeline)
	atomic.StoreUint64(&c.hits, 0)
	atomic.StoreUint64(&c.misses, 0)
}

// stats returns the hit and miss counters.
func (c *pipelineCache) stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}

// size returns the number of cached pipelines.
func (c *pipelineCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func hashBytes(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}

func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteBool(h hash.Hash64, v bool) {
	if v {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
}
