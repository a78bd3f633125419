package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/aurora-is-near/aurora-engine/replay"
	"github.com/aurora-is-near/aurora-engine/state"
)

// newViewCmd implements the read-only entry points (EntryGetBalance,
// EntryGetNonce, EntryGetCode, EntryGetStorageAt) over a point-in-time
// snapshot of a local store: replay.Overlay's SeekForPrevEngine read path at
// (height, 0xFFFF) reconstructs "state as of the end of height" without
// ever writing anything back.
func newViewCmd() *cobra.Command {
	var (
		dbPath    string
		addrHex   string
		height    uint64
		storageAt string
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Read balance, nonce, code, or a storage slot as of a given block height",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := replay.Open(dbPath)
			if err != nil {
				return fmt.Errorf("opening store at %s: %w", dbPath, err)
			}
			defer store.Close()

			overlay := replay.NewOverlay(store, height, 0xFFFF, nil)
			backend := state.NewBackend(overlay)
			addr := common.HexToAddress(addrHex)

			switch {
			case storageAt != "":
				slot := common.HexToHash(strings.TrimPrefix(storageAt, "0x"))
				gen := backend.GetGeneration(addr)
				val := backend.GetState(addr, gen, slot)
				fmt.Println(val.Hex())
			default:
				fmt.Printf("balance=%s nonce=%d code=0x%s\n",
					backend.GetBalance(addr).String(),
					backend.GetNonce(addr),
					hex.EncodeToString(backend.GetCode(addr)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the leveldb-backed store")
	cmd.Flags().StringVar(&addrHex, "address", "", "20-byte hex address to query")
	cmd.Flags().Uint64Var(&height, "height", 0, "block height to read state as of")
	cmd.Flags().StringVar(&storageAt, "storage-at", "", "32-byte hex storage slot to read instead of balance/nonce/code")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("address")

	return cmd
}
