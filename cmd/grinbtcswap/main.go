// Command grinbtcswap is a demo driver for the Grin<->Bitcoin atomic swap
// protocol. It has no real wallet or node integration: Alice and Bob run
// in the same process against in-memory chain collaborators, so the whole
// four-message exchange and both settlement paths can be watched end to
// end from a terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/grin-btc/atomicswap/chain"
	"github.com/grin-btc/atomicswap/chain/bitcoin"
	"github.com/grin-btc/atomicswap/internal/curve"
	"github.com/grin-btc/atomicswap/swap"
)

var (
	alphaFlag    string
	grinAsset    uint64
	bitcoinAsset uint64
	grinFee      uint64
	bitcoinFee   uint64
	bitcoinInput int64

	rootCmd = &cobra.Command{
		Use:   "grinbtcswap",
		Short: "Demo driver for the Grin<->Bitcoin atomic swap protocol",
	}

	swapCmd = &cobra.Command{
		Use:   "swap",
		Short: "Run the happy path: both legs fund, Alice redeems beta, Bob recovers y and redeems alpha",
		RunE:  runSwap,
	}

	refundCmd = &cobra.Command{
		Use:   "refund",
		Short: "Run the timeout path: both legs fund, then both parties refund unilaterally",
		RunE:  runRefund,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&alphaFlag, "alpha", "grin", "chain Alice funds first: grin or bitcoin")
	rootCmd.PersistentFlags().Uint64Var(&grinAsset, "grin-asset", 10_000_000, "Grin leg traded amount")
	rootCmd.PersistentFlags().Uint64Var(&bitcoinAsset, "bitcoin-asset", 5_000_000, "Bitcoin leg traded amount, in satoshis")
	rootCmd.PersistentFlags().Uint64Var(&grinFee, "grin-fee", 1_000, "Grin network fee per transaction")
	rootCmd.PersistentFlags().Uint64Var(&bitcoinFee, "bitcoin-fee", 500, "Bitcoin network fee per transaction, in satoshis")
	rootCmd.PersistentFlags().Int64Var(&bitcoinInput, "bitcoin-input", 6_001_000, "value of the Bitcoin funder's wallet input, in satoshis")

	rootCmd.AddCommand(swapCmd, refundCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseAlpha() (chain.Network, error) {
	switch alphaFlag {
	case "grin":
		return chain.Grin, nil
	case "bitcoin":
		return chain.Bitcoin, nil
	default:
		return 0, fmt.Errorf("--alpha must be grin or bitcoin, got %q", alphaFlag)
	}
}

func buildConfig() (swap.Config, error) {
	alphaNetwork, err := parseAlpha()
	if err != nil {
		return swap.Config{}, err
	}

	changeAddress, err := newAddress()
	if err != nil {
		return swap.Config{}, err
	}
	redeemAddress, err := newAddress()
	if err != nil {
		return swap.Config{}, err
	}
	refundAddress, err := newAddress()
	if err != nil {
		return swap.Config{}, err
	}
	aliceFundKey, err := curve.GenerateKeyPair()
	if err != nil {
		return swap.Config{}, err
	}

	return swap.Config{
		AlphaNetwork: alphaNetwork,
		GrinOffer:    chain.Offer{Asset: grinAsset, Fee: grinFee, Expiry: 100},
		BitcoinOffer: chain.Offer{Asset: bitcoinAsset, Fee: bitcoinFee, Expiry: 200},
		BitcoinParams: bitcoin.Params{
			Offer:         chain.Offer{Asset: bitcoinAsset, Fee: bitcoinFee, Expiry: 200},
			ChangeAddress: changeAddress,
			RedeemAddress: redeemAddress,
			RefundAddress: refundAddress,
		},
		BitcoinFundInput: bitcoin.WalletOutput{
			Outpoint: wire.OutPoint{Hash: chainhash.Hash{}, Index: 0},
			Value:    bitcoinInput,
		},
		AliceGrinFundKey: aliceFundKey.Public,
	}, nil
}

// runExchange drives the four-message key exchange to completion,
// printing each message as it is produced.
func runExchange(cfg swap.Config) (swap.Alice2, swap.Bob2, error) {
	alice0, m0, err := swap.NewAlice0(cfg)
	if err != nil {
		return swap.Alice2{}, swap.Bob2{}, fmt.Errorf("alice: build M0: %w", err)
	}
	fmt.Fprintf(os.Stderr, "alice -> bob: M0 (commitment)\n")

	bob0, m1, err := swap.NewBob0(cfg, m0)
	if err != nil {
		return swap.Alice2{}, swap.Bob2{}, fmt.Errorf("bob: receive M0: %w", err)
	}
	fmt.Fprintf(os.Stderr, "bob -> alice: M1 (key sets)\n")

	alice1, m2, err := alice0.ReceiveM1(m1)
	if err != nil {
		return swap.Alice2{}, swap.Bob2{}, fmt.Errorf("alice: receive M1: %w", err)
	}
	fmt.Fprintf(os.Stderr, "alice -> bob: M2 (opening, beta redeemer sigs)\n")

	bob1, m3, err := bob0.ReceiveM2(m2)
	if err != nil {
		return swap.Alice2{}, swap.Bob2{}, fmt.Errorf("bob: receive M2: %w", err)
	}
	fmt.Fprintf(os.Stderr, "bob -> alice: M3 (alpha redeemer sigs, beta enc-sig)\n")

	alice2, m4, err := alice1.ReceiveM3(m3)
	if err != nil {
		return swap.Alice2{}, swap.Bob2{}, fmt.Errorf("alice: receive M3: %w", err)
	}
	fmt.Fprintf(os.Stderr, "alice -> bob: M4 (alpha enc-sig)\n")

	bob2, err := bob1.ReceiveM4(m4)
	if err != nil {
		return swap.Alice2{}, swap.Bob2{}, fmt.Errorf("bob: receive M4: %w", err)
	}
	fmt.Fprintf(os.Stderr, "key exchange complete, beta=%s alpha=%s\n", cfg.BetaNetwork(), cfg.AlphaNetwork)

	return alice2, bob2, nil
}

func runSwap(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	grinNode := newMemGrinNode()
	bitcoinNode := newMemBitcoinNode()
	nodes := swap.Nodes{Grin: grinNode, Bitcoin: bitcoinNode}

	alice2, bob2, err := runExchange(cfg)
	if err != nil {
		return err
	}

	if err := swap.FundBoth(ctx, nodes, alice2.AlphaFund, bob2.BetaFund, cfg.GrinOffer.Fee); err != nil {
		return fmt.Errorf("fund both legs: %w", err)
	}
	fmt.Fprintf(os.Stderr, "alice posted the %s fund transaction, bob posted the %s fund transaction\n", cfg.AlphaNetwork, cfg.BetaNetwork())

	if err := alice2.RedeemBeta(ctx, nodes, cfg.GrinOffer.Fee); err != nil {
		return fmt.Errorf("alice: redeem beta: %w", err)
	}
	fmt.Fprintf(os.Stderr, "alice redeemed the %s leg, revealing y on chain\n", cfg.BetaNetwork())

	var betaTxid chainhash.Hash
	if cfg.BetaNetwork() == chain.Bitcoin {
		betaTxid = bitcoinNode.lastTxid()
	}

	y, err := bob2.RecoverY(ctx, nodes, betaTxid)
	if err != nil {
		return fmt.Errorf("bob: recover y: %w", err)
	}
	fmt.Fprintf(os.Stderr, "bob recovered y from alice's redeem\n")

	if err := bob2.RedeemAlpha(ctx, nodes, y, cfg.GrinOffer.Fee); err != nil {
		return fmt.Errorf("bob: redeem alpha: %w", err)
	}
	fmt.Fprintf(os.Stderr, "bob redeemed the %s leg, swap complete\n", cfg.AlphaNetwork)

	return nil
}

func runRefund(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	grinNode := newMemGrinNode()
	bitcoinNode := newMemBitcoinNode()
	nodes := swap.Nodes{Grin: grinNode, Bitcoin: bitcoinNode}

	alice2, bob2, err := runExchange(cfg)
	if err != nil {
		return err
	}

	if err := swap.FundBoth(ctx, nodes, alice2.AlphaFund, bob2.BetaFund, cfg.GrinOffer.Fee); err != nil {
		return fmt.Errorf("fund both legs: %w", err)
	}
	fmt.Fprintf(os.Stderr, "both legs funded; simulating silence past expiry\n")

	if err := alice2.AlphaRefund.Execute(ctx, nodes, cfg.GrinOffer.Fee); err != nil {
		return fmt.Errorf("alice: refund alpha: %w", err)
	}
	fmt.Fprintf(os.Stderr, "alice reclaimed her %s fund via timeout\n", cfg.AlphaNetwork)

	if err := bob2.BetaRefund.Execute(ctx, nodes, cfg.GrinOffer.Fee); err != nil {
		return fmt.Errorf("bob: refund beta: %w", err)
	}
	fmt.Fprintf(os.Stderr, "bob reclaimed his %s fund via timeout\n", cfg.BetaNetwork())

	return nil
}
