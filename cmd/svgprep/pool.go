package main

import (
	svgprep "github.com/alnah/go-svgprep"
)

// poolAdapter exposes svgprep.ServicePool through the Pool interface so
// batch code can be tested with fakes.
type poolAdapter struct {
	inner *svgprep.ServicePool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

func newPoolAdapter(size int, opts ...svgprep.Option) *poolAdapter {
	return &poolAdapter{inner: svgprep.NewServicePool(size, opts...)}
}

func (p *poolAdapter) Acquire() Preparer {
	return p.inner.Acquire()
}

func (p *poolAdapter) Release(svc Preparer) {
	if s, ok := svc.(*svgprep.Service); ok {
		p.inner.Release(s)
	}
}

func (p *poolAdapter) Size() int {
	return p.inner.Size()
}

func (p *poolAdapter) Close() error {
	return p.inner.Close()
}
