package store

import (
	"PoolLedger/internal/entity"
)

// Memory is the in-process EntityStore implementation. It is not
// synchronized: each chain's events are folded by a single goroutine, and a
// store belongs to exactly one fold.
type Memory struct {
	factories map[string]*entity.Factory
	bundles   map[string]*entity.Bundle
	tokens    map[string]*entity.Token
	pools     map[string]*entity.Pool
	ticks     map[string]*entity.Tick
	dayData   map[string]*entity.PoolDayData
	hourData  map[string]*entity.PoolHourData
}

func NewMemory() *Memory {
	return &Memory{
		factories: make(map[string]*entity.Factory),
		bundles:   make(map[string]*entity.Bundle),
		tokens:    make(map[string]*entity.Token),
		pools:     make(map[string]*entity.Pool),
		ticks:     make(map[string]*entity.Tick),
		dayData:   make(map[string]*entity.PoolDayData),
		hourData:  make(map[string]*entity.PoolHourData),
	}
}

func (m *Memory) GetFactory(id string) (*entity.Factory, bool) {
	f, ok := m.factories[id]
	if !ok {
		return nil, false
	}
	return f.Clone(), true
}

func (m *Memory) SetFactory(f *entity.Factory) {
	m.factories[f.ID] = f.Clone()
}

func (m *Memory) GetBundle(id string) (*entity.Bundle, bool) {
	b, ok := m.bundles[id]
	if !ok {
		return nil, false
	}
	return b.Clone(), true
}

func (m *Memory) SetBundle(b *entity.Bundle) {
	m.bundles[b.ID] = b.Clone()
}

func (m *Memory) GetToken(id string) (*entity.Token, bool) {
	t, ok := m.tokens[id]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

func (m *Memory) SetToken(t *entity.Token) {
	m.tokens[t.ID] = t.Clone()
}

func (m *Memory) GetPool(id string) (*entity.Pool, bool) {
	p, ok := m.pools[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

func (m *Memory) SetPool(p *entity.Pool) {
	m.pools[p.ID] = p.Clone()
}

func (m *Memory) GetTick(id string) (*entity.Tick, bool) {
	t, ok := m.ticks[id]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

func (m *Memory) SetTick(t *entity.Tick) {
	m.ticks[t.ID] = t.Clone()
}

func (m *Memory) GetPoolDayData(id string) (*entity.PoolDayData, bool) {
	d, ok := m.dayData[id]
	if !ok {
		return nil, false
	}
	return d.Clone(), true
}

func (m *Memory) SetPoolDayData(d *entity.PoolDayData) {
	m.dayData[d.ID] = d.Clone()
}

func (m *Memory) GetPoolHourData(id string) (*entity.PoolHourData, bool) {
	h, ok := m.hourData[id]
	if !ok {
		return nil, false
	}
	return h.Clone(), true
}

func (m *Memory) SetPoolHourData(h *entity.PoolHourData) {
	m.hourData[h.ID] = h.Clone()
}
