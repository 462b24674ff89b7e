package bulletproof

import (
	"encoding/binary"

	"github.com/grin-btc/atomicswap/internal/curve"
)

// valueScalar turns a public amount into a scalar for Pedersen arithmetic.
// Amounts are always well below the group order, so no reduction risk.
func valueScalar(value uint64) curve.Scalar {
	var buf [32]byte
	binary.BigEndian.PutUint64(buf[24:], value)
	return curve.ScalarFromBytes(buf[:])
}

// Commit computes the Pedersen commitment blind*G + value*genH to a public
// amount under a (possibly secret-shared) blinding factor, the form a
// Grin fund output's commitment takes.
func Commit(blind curve.Scalar, value uint64) curve.Point {
	return blind.BaseMul().Add(valueScalar(value).MulPoint(genH))
}

// CommitFromPoint computes the same Pedersen commitment as Commit, but from
// the blinding factor's public point directly, for parties (or a single
// party) who know only blind*G and not blind itself, e.g. the aggregated
// special-output excess, which is the sum of two secrets neither side holds
// alone.
func CommitFromPoint(blindPoint curve.Point, value uint64) curve.Point {
	return blindPoint.Add(valueScalar(value).MulPoint(genH))
}
