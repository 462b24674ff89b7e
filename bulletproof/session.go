package bulletproof

import (
	"github.com/grin-btc/atomicswap/internal/curve"
	"github.com/grin-btc/atomicswap/internal/swaperr"
)

// Round1 is the message broadcast at the end of round 1: each party's
// (T1, T2) contribution.
type Round1 struct {
	T1 curve.Point
	T2 curve.Point
}

// Round2 is the message broadcast at the end of round 2: each party's
// tau_x share.
type Round2 struct {
	Taux curve.Scalar
}

// Session drives one party's side of the 3-round multi-party bulletproof
// for a single Grin fund output's blinding factor.
type Session struct {
	backend    Backend
	value      uint64
	blindShare curve.Scalar
	commitment curve.Point
	common     curve.Scalar

	k  curve.Scalar
	r1 Round1

	sumR1 Round1
	taux  curve.Scalar
}

// NewSession starts a session for a party holding blindShare (one summand
// of the fund output's split blinding factor x0+x1), proving the public
// commitment to value. aliceFundPublic is Alice's Grin fund public key,
// from which both parties derive CommonNonce identically.
func NewSession(backend Backend, value uint64, blindShare curve.Scalar, commitment curve.Point, aliceFundPublic curve.Point) *Session {
	return &Session{
		backend:    backend,
		value:      value,
		blindShare: blindShare,
		commitment: commitment,
		common:     CommonNonce(aliceFundPublic),
	}
}

// SetCommitment updates the session's target value and commitment once
// they are known. Round1 depends on neither, only on this party's own
// blinding share and the session's CommonNonce, so a party can emit
// Round1 (e.g. in M0, before learning the counterparty's keys) using a
// placeholder commitment at construction time, then call SetCommitment
// with the real aggregated commitment before Round2.
func (s *Session) SetCommitment(value uint64, commitment curve.Point) {
	s.value = value
	s.commitment = commitment
}

// Round1 derives this party's nonce and (T1, T2) contribution for
// broadcast.
func (s *Session) Round1() Round1 {
	nonce := PrivateNonce(s.blindShare, s.common)
	T1, T2, k := s.backend.Step1(nonce)
	s.k = k
	s.r1 = Round1{T1: T1, T2: T2}
	return s.r1
}

// Round2 consumes the counterparty's Round1 message, sums the aggregate,
// and derives this party's tau_x share for broadcast.
func (s *Session) Round2(other Round1) Round2 {
	s.sumR1 = Round1{
		T1: s.r1.T1.Add(other.T1),
		T2: s.r1.T2.Add(other.T2),
	}
	taux := s.backend.Step2(s.k, s.blindShare, s.commitment, s.value, s.sumR1.T1, s.sumR1.T2)
	s.taux = taux
	return Round2{Taux: taux}
}

// Round3 finalizes the proof given the counterparty's Round2 message,
// verifying the result before returning it. By convention the Grin
// funder is the finalizing party.
func (s *Session) Round3(other Round2) (Proof, error) {
	sumTaux := s.taux.Add(other.Taux)
	proof := s.backend.Step0(s.sumR1.T1, s.sumR1.T2, sumTaux)
	if !s.backend.Verify(s.commitment, s.value, proof) {
		return Proof{}, &swaperr.BulletproofInvalid{}
	}
	return proof, nil
}

// Verify independently checks a finalized proof, as the non-finalizing
// party or an external observer would.
func Verify(backend Backend, commitment curve.Point, value uint64, proof Proof) error {
	if !backend.Verify(commitment, value, proof) {
		return &swaperr.BulletproofInvalid{}
	}
	return nil
}
