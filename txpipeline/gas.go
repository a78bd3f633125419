package txpipeline

import (
	"math/big"

	"github.com/aurora-is-near/aurora-engine/herrors"
)

// Intrinsic gas constants (spec.md §4.1).
const (
	gasTxCall            = 21_000
	gasTxCreate          = 53_000
	gasTxDataZero        = 4
	gasTxDataNonZero     = 16
	gasAccessListAddress = 2_400
	gasAccessListSlot    = 1_900
	gasInitCodeWord      = 2
	gasPerEmptyAccount   = 25_000 // unused placeholder kept for parity with go-ethereum's params naming
	gasPerAuthBaseCost   = 25_000

	floorGasTxCall        = 21_000
	floorGasPerTokenTenth = 10 // floor = 21000 + 10*(4*nonzero + zero)
)

// IntrinsicGas implements spec.md §4.1's formula, including the Prague
// floor-gas rule (`max(intrinsic, floor)`). isPrague toggles the floor
// computation; initCodeLimitActive toggles the create-time init-code-size
// surcharge (both are hard-fork gated, per SPEC_FULL.md's London/Berlin/
// Cancun/Prague fork coverage).
func IntrinsicGas(tx *NormalizedTransaction, isPrague, initCodeLimitActive bool) (uint64, error) {
	zeroBytes, nonZeroBytes := countDataBytes(tx.Data)

	base := uint64(gasTxCall)
	if tx.IsCreate() {
		base = gasTxCreate
	}

	dataGas, err := mulAdd(zeroBytes, gasTxDataZero, nonZeroBytes, gasTxDataNonZero)
	if err != nil {
		return 0, err
	}

	var addrCount, slotCount uint64
	for _, entry := range tx.AccessList {
		addrCount++
		slotCount += uint64(len(entry.StorageKeys))
	}
	accessGas, err := mulAdd(addrCount, gasAccessListAddress, slotCount, gasAccessListSlot)
	if err != nil {
		return 0, err
	}

	total := base
	if total, err = addOverflow(total, dataGas); err != nil {
		return 0, err
	}
	if total, err = addOverflow(total, accessGas); err != nil {
		return 0, err
	}

	if tx.IsCreate() && initCodeLimitActive {
		words := (uint64(len(tx.Data)) + 31) / 32
		initGas, ovf := mulOverflow(words, gasInitCodeWord)
		if ovf {
			return 0, herrors.ErrGasOverflow
		}
		if total, err = addOverflow(total, initGas); err != nil {
			return 0, err
		}
	}

	if len(tx.AuthList) > 0 {
		authGas, ovf := mulOverflow(uint64(len(tx.AuthList)), gasPerAuthBaseCost)
		if ovf {
			return 0, herrors.ErrGasOverflow
		}
		if total, err = addOverflow(total, authGas); err != nil {
			return 0, err
		}
	}

	if !isPrague {
		return total, nil
	}

	floorDataGas, ovf := mulOverflow(4*nonZeroBytes+zeroBytes, floorGasPerTokenTenth)
	if ovf {
		return 0, herrors.ErrGasOverflow
	}
	floor, err := addOverflow(floorGasTxCall, floorDataGas)
	if err != nil {
		return 0, err
	}
	if floor > total {
		return floor, nil
	}
	return total, nil
}

func countDataBytes(data []byte) (zero, nonZero uint64) {
	for _, b := range data {
		if b == 0 {
			zero++
		} else {
			nonZero++
		}
	}
	return zero, nonZero
}

func mulOverflow(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	r := a * b
	return r, r/a != b
}

func addOverflow(a, b uint64) (uint64, error) {
	r := a + b
	if r < a {
		return 0, herrors.ErrGasOverflow
	}
	return r, nil
}

func mulAdd(a, aCoeff, b, bCoeff uint64) (uint64, error) {
	x, ovf := mulOverflow(a, aCoeff)
	if ovf {
		return 0, herrors.ErrGasOverflow
	}
	y, ovf := mulOverflow(b, bCoeff)
	if ovf {
		return 0, herrors.ErrGasOverflow
	}
	return addOverflow(x, y)
}

// GasPaymentResult is charge_gas's output (spec.md §4.2 / §4.5).
type GasPaymentResult struct {
	Prepaid       *big.Int
	EffectivePrice *big.Int
	PriorityFee   *big.Int
}

// ChargeGas implements spec.md §4.2's charge_gas: effective price is
// min(max_fee, base_fee+max_priority) with base_fee pinned to 0 on this
// system (the arithmetic is kept to preserve mainline semantics verbatim).
// getBalance/setBalance let the caller charge either the native wei balance
// or, when SPEC_FULL.md §5's gas_token feature is active, an ERC-20
// balance instead.
func ChargeGas(tx *NormalizedTransaction, baseFee *big.Int, getBalance func() *big.Int, setBalance func(*big.Int)) (*GasPaymentResult, error) {
	effectivePrice := new(big.Int).Add(baseFee, tx.MaxPriorityFeePerGas)
	if effectivePrice.Cmp(tx.MaxFeePerGas) > 0 {
		effectivePrice = new(big.Int).Set(tx.MaxFeePerGas)
	}
	priorityFee := new(big.Int).Sub(effectivePrice, baseFee)

	prepaid := new(big.Int).Mul(new(big.Int).SetUint64(tx.GasLimit), effectivePrice)

	balance := getBalance()
	if balance.Cmp(prepaid) < 0 {
		return nil, herrors.ErrOutOfFund
	}
	setBalance(new(big.Int).Sub(balance, prepaid))

	return &GasPaymentResult{Prepaid: prepaid, EffectivePrice: effectivePrice, PriorityFee: priorityFee}, nil
}
