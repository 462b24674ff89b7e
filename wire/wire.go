// Package wire defines the five protocol message envelopes, M0 through
// M4, and encodes them with CBOR. Per-chain payloads (redeemer signature
// sets, encrypted signatures) are carried as opaque CBOR-encoded blobs
// so this package stays chain agnostic; the orchestrator owns the
// concrete payload types and their (de)serialization.
package wire

import "github.com/fxamacker/cbor/v2"

// KeySet is a per-chain public key set: Bitcoin populates only X; Grin
// populates all four fields, each a 33-byte compressed point.
type KeySet struct {
	X       []byte `cbor:"1,keyasint"`
	RFund   []byte `cbor:"2,keyasint,omitempty"`
	RRedeem []byte `cbor:"3,keyasint,omitempty"`
	RRefund []byte `cbor:"4,keyasint,omitempty"`
}

// Opening is the commitment opening Alice sends in M2: her alpha and beta
// key sets plus her adaptor point Y.
type Opening struct {
	AlphaKeys KeySet `cbor:"1,keyasint"`
	BetaKeys  KeySet `cbor:"2,keyasint"`
	Y         []byte `cbor:"3,keyasint"`
}

// BPRound1 is a bulletproof round-1 message (T1, T2).
type BPRound1 struct {
	T1 []byte `cbor:"1,keyasint"`
	T2 []byte `cbor:"2,keyasint"`
}

// BPRound2 is a bulletproof round-2 message (tau_x).
type BPRound2 struct {
	Taux []byte `cbor:"1,keyasint"`
}

// M0 is Alice's opening message: her commitment plus her bulletproof
// round-1 contribution. Both parties always hold a share of the Grin
// output's blinding factor regardless of which chain is alpha, so this is
// always present; it stays a pointer so a future chain pairing without a
// Grin leg can omit it.
type M0 struct {
	Commitment    [64]byte  `cbor:"1,keyasint"`
	BPRound1Alice *BPRound1 `cbor:"2,keyasint,omitempty"`
}

// M1 is Bob's reply: his uncommitted key sets plus his own bulletproof
// round-1 contribution.
type M1 struct {
	AlphaKeys   KeySet    `cbor:"1,keyasint"`
	BetaKeys    KeySet    `cbor:"2,keyasint"`
	BPRound1Bob *BPRound1 `cbor:"3,keyasint,omitempty"`
}

// M2 is Alice's opening and beta-side redeemer half-signatures.
// BetaRedeemerSigs is a chain-specific CBOR payload: Bitcoin's is the
// refund half-signature; Grin's is all three kernel partials.
type M2 struct {
	Opening          Opening   `cbor:"1,keyasint"`
	BetaRedeemerSigs []byte    `cbor:"2,keyasint"`
	BPRound2Alice    *BPRound2 `cbor:"3,keyasint,omitempty"`
}

// M3 is Bob's alpha-side redeemer half-signatures plus his beta-redeem
// encrypted signature.
type M3 struct {
	AlphaRedeemerSigs []byte    `cbor:"1,keyasint"`
	BPRound2Bob       *BPRound2 `cbor:"2,keyasint,omitempty"`
	BetaRedeemEncSig  []byte    `cbor:"3,keyasint"`
}

// M4 is Alice's final message: her alpha-redeem encrypted signature.
type M4 struct {
	AlphaRedeemEncSig []byte `cbor:"1,keyasint"`
}

// Encode CBOR-marshals a message or payload.
func Encode(v interface{}) ([]byte, error) {
	return cbor.Marshal(v)
}

// Decode CBOR-unmarshals into v.
func Decode(data []byte, v interface{}) error {
	return cbor.Unmarshal(data, v)
}
