package atlasswap

import (
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/atlas-go/atlas_swap/math"
	"github.com/krazyTry/atlas-go/atlas_swap/math/pool_fees"
	"github.com/krazyTry/atlas-go/atlas_swap/shared"
)

// SwapConstraints is the policy the program enforces on configuration and
// pool creation, plus the defaults used to bootstrap the global state.
type SwapConstraints struct {
	ValidCurveTypes []shared.CurveType
	// Floor every configured trade fee must meet.
	Fees pool_fees.Fees
	// Owner allowed to perform the first Configure.
	InitialOwner    solanago.PublicKey
	InitialFeeOwner solanago.PublicKey
	InitialFees     pool_fees.Fees
	InitialSupply   uint64
	LpDecimals      uint8
	MinLpSupply     uint64
}

// InitialProgramOwner bootstraps the global state when no policy overrides
// it.
var InitialProgramOwner = solanago.MustPublicKeyFromBase58("2P8t68gg3Jue2AQGZerKqVenQdLq8eoqaHi27pbhf88U")

func DefaultConstraints() *SwapConstraints {
	return &SwapConstraints{
		ValidCurveTypes: []shared.CurveType{shared.CurveTypeConstantPrice, shared.CurveTypeConstantProduct},
		Fees:            pool_fees.Fees{TradeFeeNumerator: 0, TradeFeeDenominator: shared.BasisPointMax},
		InitialOwner:    InitialProgramOwner,
		InitialFeeOwner: InitialProgramOwner,
		InitialFees: pool_fees.Fees{
			TradeFeeNumerator:        25,
			TradeFeeDenominator:      shared.BasisPointMax,
			OwnerTradeFeeNumerator:   5,
			OwnerTradeFeeDenominator: shared.BasisPointMax,
			HostFeePercent:           20,
		},
		InitialSupply: shared.DefaultInitialLp,
		LpDecimals:    shared.DefaultLpDecimals,
		MinLpSupply:   shared.MinLpSupply,
	}
}

// ValidateCurve rejects curve types outside the whitelist.
func (c *SwapConstraints) ValidateCurve(curve math.SwapCurve) error {
	for _, t := range c.ValidCurveTypes {
		if t == curve.CurveType {
			return nil
		}
	}
	return ErrUnsupportedCurveType
}

// ValidateFees rejects fees below the floor.
func (c *SwapConstraints) ValidateFees(fees pool_fees.Fees) error {
	if !fees.AtLeast(c.Fees) {
		return ErrInvalidFee
	}
	return nil
}

// bootstrapState is the global state written by the first Configure.
func (c *SwapConstraints) bootstrapState() GlobalState {
	return GlobalState{
		IsInitialized: true,
		Owner:         c.InitialOwner,
		FeeOwner:      c.InitialFeeOwner,
		InitialSupply: c.InitialSupply,
		LpDecimals:    c.LpDecimals,
		Fees:          c.InitialFees,
		SwapCurve:     math.ConstantProduct(),
	}
}
