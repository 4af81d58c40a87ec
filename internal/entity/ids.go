package entity

import (
	"fmt"
	"strings"
)

// Kind discriminates the persisted entity tables.
type Kind string

const (
	KindFactory      Kind = "factory"
	KindBundle       Kind = "bundle"
	KindToken        Kind = "token"
	KindPool         Kind = "pool"
	KindTick         Kind = "tick"
	KindPoolDayData  Kind = "pool_day_data"
	KindPoolHourData Kind = "pool_hour_data"
)

// All ids are composite strings scoped by chain. Addresses are lowercased so
// that ids built from checksummed and non-checksummed inputs collide.

// FactoryID returns "{chainId}-{factoryAddress}".
func FactoryID(chainID int64, addr string) string {
	return fmt.Sprintf("%d-%s", chainID, strings.ToLower(addr))
}

// BundleID returns "{chainId}". One bundle per chain.
func BundleID(chainID int64) string {
	return fmt.Sprintf("%d", chainID)
}

// TokenID returns "{chainId}-{tokenAddress}".
func TokenID(chainID int64, addr string) string {
	return fmt.Sprintf("%d-%s", chainID, strings.ToLower(addr))
}

// PoolID returns "{chainId}-{poolAddress}".
func PoolID(chainID int64, addr string) string {
	return fmt.Sprintf("%d-%s", chainID, strings.ToLower(addr))
}

// TickID returns "{poolId}#{tickIdx}".
func TickID(poolID string, tickIdx int32) string {
	return fmt.Sprintf("%s#%d", poolID, tickIdx)
}

// PoolDayDataID returns "{poolId}-{dayIndex}".
func PoolDayDataID(poolID string, dayIndex int64) string {
	return fmt.Sprintf("%s-%d", poolID, dayIndex)
}

// PoolHourDataID returns "{poolId}-{hourIndex}".
func PoolHourDataID(poolID string, hourIndex int64) string {
	return fmt.Sprintf("%s-%d", poolID, hourIndex)
}

// AddressOf returns the address component of a "{chainId}-{address}" id.
func AddressOf(id string) string {
	if i := strings.IndexByte(id, '-'); i >= 0 {
		return id[i+1:]
	}
	return id
}
