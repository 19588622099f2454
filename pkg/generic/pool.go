// Package generic holds small type-safe wrappers over untyped standard
// library containers.
package generic

import "sync"

// Pool is a sync.Pool whose values are always T.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T) T
}

// NewPool builds values with generate when the pool is empty.
func NewPool[T any](generate func() T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return generate()
			},
		},
	}
}

// WithReset runs reset on every value handed back through Put.
func (p *Pool[T]) WithReset(reset func(T) T) *Pool[T] {
	p.reset = reset
	return p
}

func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(value T) {
	if p.reset != nil {
		value = p.reset(value)
	}
	p.pool.Put(value)
}
