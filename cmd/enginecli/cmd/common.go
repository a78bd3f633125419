package cmd

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/params"

	"github.com/aurora-is-near/aurora-engine/promise"
)

// defaultChainConfig activates Berlin and London from genesis — there is no
// "historical" chain to stay compatible with here. No later fork
// (Shanghai, Cancun, Prague) is set.
func defaultChainConfig(chainID *big.Int) *params.ChainConfig {
	return &params.ChainConfig{
		ChainID:     chainID,
		BerlinBlock: big.NewInt(0),
		LondonBlock: big.NewInt(0),
	}
}

// printScheduler is the demo CLI's promise.Scheduler: it has nowhere real to
// deliver a cross-contract call, so it assigns sequential ids and prints
// what it would have dispatched.
type printScheduler struct {
	next uint64
}

func (s *printScheduler) ScheduleCreate(args promise.PromiseCreateArgs) (uint64, error) {
	s.next++
	fmt.Printf("scheduled promise #%d: %s.%s\n", s.next, args.TargetAccountID, args.Action.MethodName)
	return s.next, nil
}

func (s *printScheduler) ScheduleCallback(base, callback promise.PromiseCreateArgs) (uint64, error) {
	s.next++
	fmt.Printf("scheduled callback promise #%d on %s: %s.%s\n", s.next, base.TargetAccountID, callback.TargetAccountID, callback.Action.MethodName)
	return s.next, nil
}
