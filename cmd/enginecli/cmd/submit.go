package cmd

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/aurora-is-near/aurora-engine/evmhost"
	"github.com/aurora-is-near/aurora-engine/log"
	"github.com/aurora-is-near/aurora-engine/replay"
	"github.com/aurora-is-near/aurora-engine/state"
	"github.com/aurora-is-near/aurora-engine/txpipeline"
)

// newSubmitCmd implements the EntrySubmit/EntrySubmitWithArgs entry points
// (hostio.Catalog) as a standalone demo: it runs one raw transaction against
// a goleveldb-backed replay.Store instead of the real NEAR host, committing
// the resulting diff on success.
func newSubmitCmd() *cobra.Command {
	var (
		dbPath      string
		txHex       string
		height      uint64
		relayerHex  string
		chainIDFlag int64
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a raw, signed Ethereum transaction against a local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hex.DecodeString(strings.TrimPrefix(txHex, "0x"))
			if err != nil {
				return fmt.Errorf("decoding --tx: %w", err)
			}

			store, err := replay.Open(dbPath)
			if err != nil {
				return fmt.Errorf("opening store at %s: %w", dbPath, err)
			}
			defer store.Close()

			overlay := replay.NewOverlay(store, height, 0, nil)
			backend := state.NewBackend(overlay)

			pipeline := &txpipeline.Pipeline{
				Backend:                backend,
				ChainConfig:            defaultChainConfig(big.NewInt(chainIDFlag)),
				BlockCtx:               evmhost.BlockContext{BlockNumber: new(big.Int).SetUint64(height), BaseFee: big.NewInt(0)},
				EnvInfo:                &evmhost.EnvInfo{BlockHeight: height},
				RelayerAddr:            common.HexToAddress(relayerHex),
				LegacyZeroToCreatesBug: txpipeline.LegacyZeroToCreatesBugAt(height),
				IsPrague:               true,
				InitCodeLimitActive:    true,
				Logger:                 log.NewStdLogger(),
			}

			result, err := pipeline.Run(raw, &printScheduler{})
			if err != nil {
				return err
			}
			if err := overlay.Commit(); err != nil {
				return fmt.Errorf("committing diff: %w", err)
			}

			fmt.Printf("status=%v gasUsed=%d output=0x%s\n", result.Status, result.GasUsed, hex.EncodeToString(result.Output))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the leveldb-backed store")
	cmd.Flags().StringVar(&txHex, "tx", "", "hex-encoded raw signed transaction")
	cmd.Flags().Uint64Var(&height, "height", 1, "block height to submit against")
	cmd.Flags().StringVar(&relayerHex, "relayer", "0x0000000000000000000000000000000000000000", "address credited with the priority-fee reward")
	cmd.Flags().Int64Var(&chainIDFlag, "chain-id", 1313161554, "chain id the transaction must target")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("tx")

	return cmd
}
