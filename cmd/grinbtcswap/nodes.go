package main

import (
	"context"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/grin-btc/atomicswap/chain/grin"
	"github.com/grin-btc/atomicswap/internal/curve"
)

// newAddress derives a fresh regtest P2WPKH address. This demo has no
// real wallet, so the key behind it is sampled and forgotten; the
// address only ever lands in output scripts.
func newAddress() (btcutil.Address, error) {
	kp, err := curve.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(kp.Public.Bytes()), &chaincfg.RegressionNetParams)
}

// memGrinNode stands in for a Grin wallet/node collaborator: wallet invoices
// are trivial (this demo has no real UTXOs to pick from), and posted kernels
// are indexed by excess the way a real node's find_kernel_by_excess would be.
type memGrinNode struct {
	kernels map[string]grin.Sig
}

func newMemGrinNode() *memGrinNode {
	return &memGrinNode{kernels: make(map[string]grin.Sig)}
}

func (n *memGrinNode) BuildWalletInvoice(ctx context.Context, purpose grin.InvoicePurpose, amount, fee uint64) (grin.Transaction, error) {
	return grin.Transaction{}, nil
}

func (n *memGrinNode) PostTransaction(ctx context.Context, tx grin.Transaction) error {
	for _, k := range tx.Kernels {
		n.kernels[hex.EncodeToString(k.Excess.Bytes())] = k.Sig
	}
	return nil
}

func (n *memGrinNode) FindKernel(ctx context.Context, excess curve.Point) (*grin.Sig, error) {
	sig, ok := n.kernels[hex.EncodeToString(excess.Bytes())]
	if !ok {
		return nil, nil
	}
	return &sig, nil
}

// memBitcoinNode stands in for a node RPC collaborator: posted transactions
// are kept by txid so a later lookup can fetch and inspect them.
type memBitcoinNode struct {
	txs   map[chainhash.Hash]*wire.MsgTx
	order []chainhash.Hash
}

func newMemBitcoinNode() *memBitcoinNode {
	return &memBitcoinNode{txs: make(map[chainhash.Hash]*wire.MsgTx)}
}

func (n *memBitcoinNode) PostTransaction(ctx context.Context, tx *wire.MsgTx) error {
	id := tx.TxHash()
	n.txs[id] = tx
	n.order = append(n.order, id)
	return nil
}

// lastTxid returns the most recently posted transaction's id, standing in
// for the chain scan a live watcher would otherwise run.
func (n *memBitcoinNode) lastTxid() chainhash.Hash {
	return n.order[len(n.order)-1]
}

func (n *memBitcoinNode) GetRawTransaction(ctx context.Context, txid chainhash.Hash) (*wire.MsgTx, error) {
	tx, ok := n.txs[txid]
	if !ok {
		return nil, errTxNotFound
	}
	return tx, nil
}

var errTxNotFound = errNotFound("grinbtcswap: transaction not found")

type errNotFound string

func (e errNotFound) Error() string { return string(e) }
