package atlas

import (
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	atlasswap "github.com/krazyTry/atlas-go/atlas_swap"
	"github.com/krazyTry/atlas-go/atlas_swap/math"
	"github.com/krazyTry/atlas-go/atlas_swap/math/pool_fees"
	"github.com/krazyTry/atlas-go/atlas_swap/shared"
)

func TestConfigureThroughBank(t *testing.T) {
	owner := solanago.NewWallet().PublicKey()
	constraints := DefaultConstraints()
	constraints.InitialOwner = owner

	bank := NewBank(NewMemStore(), ProgramID, WithConstraints(constraints))
	global, err := atlasswap.DeriveGlobalStateAddress(ProgramID)
	require.NoError(t, err)

	fees := pool_fees.Fees{TradeFeeNumerator: 25, TradeFeeDenominator: shared.BasisPointMax}
	ix := NewConfigureInstruction(ProgramID, atlasswap.ConfigureAccounts{GlobalState: global, Owner: owner}, atlasswap.Configure{
		Owner:         owner,
		FeeOwner:      owner,
		InitialSupply: shared.DefaultInitialLp,
		LpDecimals:    shared.DefaultLpDecimals,
		Fees:          fees,
	})
	require.NoError(t, bank.Execute(ix, owner))

	state, err := bank.GlobalState()
	require.NoError(t, err)
	assert.Equal(t, owner, state.Owner)
	assert.Equal(t, fees, state.Fees)
}

func TestSwapQuote(t *testing.T) {
	fees := pool_fees.Fees{TradeFeeNumerator: 25, TradeFeeDenominator: shared.BasisPointMax}
	quote, err := GetSwapQuote(math.ConstantProduct(), fees, 1000, 1_000_000, 1_000_000, shared.TradeDirectionAtoB, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(997), quote.AmountOut)
	assert.Equal(t, uint64(997), GetAmountWithSlippage(quote.AmountOut, 0))
}
