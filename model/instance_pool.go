package model

import "sync"

// InstancesToPool returns an instance buffer to the pool for reuse
func InstancesToPool(instances []Instance, pool *InstancePool) {
	if pool == nil {
		return
	}

	pool.Put(instances)
}

// InstancePool recycles instance buffers between frames
type InstancePool struct {
	pool sync.Pool
}

func NewInstancePool() *InstancePool {
	return &InstancePool{
		pool: sync.Pool{
			New: func() interface{} {
				return new([]Instance)
			},
		},
	}
}

// Get retrieves an empty buffer with at least the requested capacity
func (p *InstancePool) Get(capacity int) []Instance {
	buf := *p.pool.Get().(*[]Instance)
	if cap(buf) < capacity {
		return make([]Instance, 0, capacity)
	}
	return buf[:0]
}

// Put returns a buffer to the pool
func (p *InstancePool) Put(buf []Instance) {
	// Drop contents but keep capacity
	buf = buf[:0]
	p.pool.Put(&buf)
}
