// Package store defines the authoritative in-memory entity state the event
// fold operates on. Reads hand out deep copies and writes copy on the way
// in, so a caller can never mutate stored state without going through Set.
package store

import (
	"PoolLedger/internal/entity"
)

// EntityStore is the state surface the handlers and pricing read and write.
type EntityStore interface {
	GetFactory(id string) (*entity.Factory, bool)
	SetFactory(f *entity.Factory)

	GetBundle(id string) (*entity.Bundle, bool)
	SetBundle(b *entity.Bundle)

	GetToken(id string) (*entity.Token, bool)
	SetToken(t *entity.Token)

	GetPool(id string) (*entity.Pool, bool)
	SetPool(p *entity.Pool)

	GetTick(id string) (*entity.Tick, bool)
	SetTick(t *entity.Tick)

	GetPoolDayData(id string) (*entity.PoolDayData, bool)
	SetPoolDayData(d *entity.PoolDayData)

	GetPoolHourData(id string) (*entity.PoolHourData, bool)
	SetPoolHourData(h *entity.PoolHourData)
}

// GetOrCreateFactory returns the chain's factory, creating a zero-valued
// one when absent. The second return reports whether it already existed.
func GetOrCreateFactory(s EntityStore, chainID int64, factoryAddr string) (*entity.Factory, bool) {
	if f, ok := s.GetFactory(entity.FactoryID(chainID, factoryAddr)); ok {
		return f, true
	}
	f := entity.NewFactory(chainID, factoryAddr)
	s.SetFactory(f)
	return f, false
}

// GetOrCreateBundle returns the chain's bundle, creating one with a zero
// native price when absent.
func GetOrCreateBundle(s EntityStore, chainID int64) (*entity.Bundle, bool) {
	if b, ok := s.GetBundle(entity.BundleID(chainID)); ok {
		return b, true
	}
	b := entity.NewBundle(chainID)
	s.SetBundle(b)
	return b, false
}
