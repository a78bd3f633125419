package cmd

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/aurora-is-near/aurora-engine/evmhost"
	"github.com/aurora-is-near/aurora-engine/log"
	"github.com/aurora-is-near/aurora-engine/replay"
)

// newReplayCmd drives a replay.Cursor through one block's worth of recorded
// transactions read from a plain text file (one hex-encoded raw transaction
// per line), the standalone-engine counterpart to the contract's own
// BeginBlock/submit/AdvanceBlockHeight sequence (spec.md §4.8).
func newReplayCmd() *cobra.Command {
	var (
		dbPath      string
		txsPath     string
		height      uint64
		blockHash   string
		relayerHex  string
		chainIDFlag int64
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay one block's recorded transactions against a local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := replay.Open(dbPath)
			if err != nil {
				return fmt.Errorf("opening store at %s: %w", dbPath, err)
			}
			defer store.Close()

			cursor := replay.NewCursor(store, defaultChainConfig(big.NewInt(chainIDFlag)), common.HexToAddress(relayerHex), log.NewStdLogger())

			meta := replay.BlockMetadata{
				Height: height,
				BlockCtx: evmhost.BlockContext{
					BlockNumber: new(big.Int).SetUint64(height),
					BaseFee:     big.NewInt(0),
				},
				Env: evmhost.EnvInfo{BlockHeight: height},
			}
			if err := cursor.BeginBlock(meta, common.HexToHash(blockHash)); err != nil {
				return fmt.Errorf("beginning block %d: %w", height, err)
			}

			f, err := os.Open(txsPath)
			if err != nil {
				return fmt.Errorf("opening --txs file: %w", err)
			}
			defer f.Close()

			sched := &printScheduler{}
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				raw, err := hex.DecodeString(strings.TrimPrefix(line, "0x"))
				if err != nil {
					return fmt.Errorf("decoding transaction line %q: %w", line, err)
				}
				result, err := cursor.ReplayTx(raw, nil, sched)
				if err != nil {
					return err
				}
				fmt.Printf("status=%v gasUsed=%d\n", result.Status, result.GasUsed)
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			return cursor.AdvanceBlockHeight()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the leveldb-backed store")
	cmd.Flags().StringVar(&txsPath, "txs", "", "path to a file of newline-separated hex raw transactions")
	cmd.Flags().Uint64Var(&height, "height", 1, "block height being replayed")
	cmd.Flags().StringVar(&blockHash, "block-hash", "0x00", "32-byte hex block hash recorded for this height")
	cmd.Flags().StringVar(&relayerHex, "relayer", "0x0000000000000000000000000000000000000000", "address credited with the priority-fee reward")
	cmd.Flags().Int64Var(&chainIDFlag, "chain-id", 1313161554, "chain id transactions must target")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("txs")

	return cmd
}
