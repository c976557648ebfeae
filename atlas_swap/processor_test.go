package atlasswap_test

import (
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	atlasswap "github.com/krazyTry/atlas-go/atlas_swap"
	"github.com/krazyTry/atlas-go/atlas_swap/math"
	"github.com/krazyTry/atlas-go/atlas_swap/math/pool_fees"
	"github.com/krazyTry/atlas-go/atlas_swap/shared"
	"github.com/krazyTry/atlas-go/runtime"
)

const initialSupply = 1_000_000_000

var scenarioFees = pool_fees.Fees{TradeFeeNumerator: 25, TradeFeeDenominator: 10_000}

func newKey() solanago.PublicKey { return solanago.NewWallet().PublicKey() }

type fixture struct {
	t    *testing.T
	bank *runtime.Bank

	owner, feeOwner, user solanago.PublicKey
	global                solanago.PublicKey

	pool, authority          solanago.PublicKey
	mintA, mintB, poolMint   solanago.PublicKey
	reserveA, reserveB       solanago.PublicKey
	initFee, initDestination solanago.PublicKey
	userA, userB, userLP     solanago.PublicKey
	feeA, feeB, hostA, hostB solanago.PublicKey
}

// newFixture configures the program with fees and creates the accounts of
// one pool holding reserveA/reserveB. The pool is not initialized.
func newFixture(t *testing.T, fees pool_fees.Fees, reserveA, reserveB uint64, policy ...func(*atlasswap.SwapConstraints)) *fixture {
	t.Helper()
	f := &fixture{
		t:        t,
		owner:    newKey(),
		feeOwner: newKey(),
		user:     newKey(),
		pool:     newKey(),
		mintA:    newKey(),
		mintB:    newKey(),
		poolMint: newKey(),
	}
	constraints := atlasswap.DefaultConstraints()
	constraints.InitialOwner = f.owner
	constraints.InitialFeeOwner = f.owner
	for _, fn := range policy {
		fn(constraints)
	}
	f.bank = runtime.NewBank(runtime.NewMemStore(), atlasswap.ProgramID, runtime.WithConstraints(constraints))
	var err error
	f.global, err = atlasswap.DeriveGlobalStateAddress(atlasswap.ProgramID)
	require.NoError(t, err)
	f.authority, _, err = atlasswap.DerivePoolAuthority(f.pool, atlasswap.ProgramID)
	require.NoError(t, err)

	require.NoError(t, f.configure(f.owner, atlasswap.Configure{
		Owner:         f.owner,
		FeeOwner:      f.feeOwner,
		InitialSupply: initialSupply,
		LpDecimals:    8,
		Fees:          fees,
	}))

	require.NoError(t, f.bank.CreateProgramAccount(f.pool, atlasswap.SwapStateLen))
	require.NoError(t, f.bank.CreateMint(f.mintA, newKey(), 6))
	require.NoError(t, f.bank.CreateMint(f.mintB, newKey(), 6))
	require.NoError(t, f.bank.CreateMint(f.poolMint, f.authority, 8))

	f.reserveA = f.tokenAccount(f.mintA, f.authority, reserveA)
	f.reserveB = f.tokenAccount(f.mintB, f.authority, reserveB)
	f.initFee = f.tokenAccount(f.poolMint, f.feeOwner, 0)
	f.initDestination = f.tokenAccount(f.poolMint, f.user, 0)
	f.userA = f.tokenAccount(f.mintA, f.user, 10_000_000)
	f.userB = f.tokenAccount(f.mintB, f.user, 10_000_000)
	f.userLP = f.initDestination
	f.feeA = f.tokenAccount(f.mintA, f.feeOwner, 0)
	f.feeB = f.tokenAccount(f.mintB, f.feeOwner, 0)
	f.hostA = f.tokenAccount(f.mintA, newKey(), 0)
	f.hostB = f.tokenAccount(f.mintB, newKey(), 0)
	return f
}

func (f *fixture) tokenAccount(mint, owner solanago.PublicKey, amount uint64) solanago.PublicKey {
	f.t.Helper()
	key := newKey()
	require.NoError(f.t, f.bank.CreateTokenAccount(key, mint, owner, amount))
	return key
}

func (f *fixture) balance(key solanago.PublicKey) uint64 {
	f.t.Helper()
	acct, err := f.bank.TokenAccount(key)
	require.NoError(f.t, err)
	return acct.Amount
}

func (f *fixture) supply() uint64 {
	f.t.Helper()
	mint, err := f.bank.Mint(f.poolMint)
	require.NoError(f.t, err)
	return mint.Supply
}

func (f *fixture) configure(signer solanago.PublicKey, data atlasswap.Configure) error {
	ix := atlasswap.NewConfigureInstruction(atlasswap.ProgramID, atlasswap.ConfigureAccounts{
		GlobalState: f.global,
		Owner:       signer,
	}, data)
	return f.bank.Execute(ix, signer)
}

func (f *fixture) initializeAccounts() atlasswap.InitializeAccounts {
	return atlasswap.InitializeAccounts{
		Pool:         f.pool,
		Authority:    f.authority,
		GlobalState:  f.global,
		TokenA:       f.reserveA,
		TokenB:       f.reserveB,
		PoolMint:     f.poolMint,
		FeeAccount:   f.initFee,
		Destination:  f.initDestination,
		TokenProgram: solanago.TokenProgramID,
	}
}

func (f *fixture) initialize(data atlasswap.Initialize) error {
	return f.bank.Execute(atlasswap.NewInitializeInstruction(atlasswap.ProgramID, f.initializeAccounts(), data))
}

func (f *fixture) swapAToB(amountIn, minimumOut uint64, host *solanago.PublicKey) error {
	ix := atlasswap.NewSwapInstruction(atlasswap.ProgramID, atlasswap.SwapAccounts{
		Pool:                  f.pool,
		Authority:             f.authority,
		UserTransferAuthority: f.user,
		GlobalState:           f.global,
		Source:                f.userA,
		SwapSource:            f.reserveA,
		SwapDestination:       f.reserveB,
		Destination:           f.userB,
		PoolMint:              f.poolMint,
		FeeAccount:            f.feeB,
		TokenProgram:          solanago.TokenProgramID,
		HostFeeAccount:        host,
	}, atlasswap.Swap{AmountIn: amountIn, MinimumAmountOut: minimumOut})
	return f.bank.Execute(ix, f.user)
}

func (f *fixture) swapBToA(amountIn, minimumOut uint64) error {
	ix := atlasswap.NewSwapInstruction(atlasswap.ProgramID, atlasswap.SwapAccounts{
		Pool:                  f.pool,
		Authority:             f.authority,
		UserTransferAuthority: f.user,
		GlobalState:           f.global,
		Source:                f.userB,
		SwapSource:            f.reserveB,
		SwapDestination:       f.reserveA,
		Destination:           f.userA,
		PoolMint:              f.poolMint,
		FeeAccount:            f.feeA,
		TokenProgram:          solanago.TokenProgramID,
	}, atlasswap.Swap{AmountIn: amountIn, MinimumAmountOut: minimumOut})
	return f.bank.Execute(ix, f.user)
}

func (f *fixture) deposit(data atlasswap.DepositAllTokenTypes) error {
	ix := atlasswap.NewDepositAllTokenTypesInstruction(atlasswap.ProgramID, atlasswap.DepositAccounts{
		Pool:                  f.pool,
		Authority:             f.authority,
		GlobalState:           f.global,
		UserTransferAuthority: f.user,
		SourceA:               f.userA,
		SourceB:               f.userB,
		TokenA:                f.reserveA,
		TokenB:                f.reserveB,
		PoolMint:              f.poolMint,
		Destination:           f.userLP,
		TokenProgram:          solanago.TokenProgramID,
	}, data)
	return f.bank.Execute(ix, f.user)
}

func (f *fixture) withdraw(data atlasswap.WithdrawAllTokenTypes) error {
	ix := atlasswap.NewWithdrawAllTokenTypesInstruction(atlasswap.ProgramID, atlasswap.WithdrawAccounts{
		Pool:                  f.pool,
		Authority:             f.authority,
		GlobalState:           f.global,
		UserTransferAuthority: f.user,
		PoolMint:              f.poolMint,
		Source:                f.userLP,
		TokenA:                f.reserveA,
		TokenB:                f.reserveB,
		DestinationA:          f.userA,
		DestinationB:          f.userB,
		TokenProgram:          solanago.TokenProgramID,
	}, data)
	return f.bank.Execute(ix, f.user)
}

func newPool(t *testing.T, fees pool_fees.Fees, reserveA, reserveB uint64) *fixture {
	t.Helper()
	f := newFixture(t, fees, reserveA, reserveB)
	require.NoError(t, f.initialize(atlasswap.Initialize{}))
	return f
}

func TestConfigureOwnership(t *testing.T) {
	f := newFixture(t, scenarioFees, 1, 1)

	state, err := f.bank.GlobalState()
	require.NoError(t, err)
	assert.True(t, state.IsInitialized)
	assert.Equal(t, f.owner, state.Owner)
	assert.Equal(t, f.feeOwner, state.FeeOwner)
	assert.Equal(t, scenarioFees, state.Fees)
	assert.Equal(t, math.ConstantProduct(), state.SwapCurve)

	// Hand ownership to x, then try to reconfigure as the old owner.
	x := newKey()
	require.NoError(t, f.configure(f.owner, atlasswap.Configure{
		Owner: x, FeeOwner: f.feeOwner, InitialSupply: initialSupply, LpDecimals: 8, Fees: scenarioFees,
	}))
	err = f.configure(f.owner, atlasswap.Configure{
		Owner: f.owner, FeeOwner: f.feeOwner, InitialSupply: 5, LpDecimals: 8, Fees: scenarioFees,
	})
	require.ErrorIs(t, err, atlasswap.ErrInvalidProgramOwner)

	state, err = f.bank.GlobalState()
	require.NoError(t, err)
	assert.Equal(t, x, state.Owner)
	assert.Equal(t, uint64(initialSupply), state.InitialSupply)

	price := math.ConstantPrice(3)
	require.NoError(t, f.configure(x, atlasswap.Configure{
		Owner: x, FeeOwner: f.feeOwner, InitialSupply: 7, LpDecimals: 6, Fees: scenarioFees, SwapCurve: &price,
	}))
	state, err = f.bank.GlobalState()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), state.InitialSupply)
	assert.Equal(t, price, state.SwapCurve)
}

func TestConfigureRejections(t *testing.T) {
	f := newFixture(t, scenarioFees, 1, 1)
	base := atlasswap.Configure{Owner: f.owner, FeeOwner: f.feeOwner, InitialSupply: 1, LpDecimals: 8, Fees: scenarioFees}

	stable := math.Stable(100)
	withStable := base
	withStable.SwapCurve = &stable
	require.ErrorIs(t, f.configure(f.owner, withStable), atlasswap.ErrUnsupportedCurveType)

	badFees := base
	badFees.Fees = pool_fees.Fees{TradeFeeNumerator: 25, TradeFeeDenominator: 1000}
	require.ErrorIs(t, f.configure(f.owner, badFees), atlasswap.ErrInvalidFee)

	ownerOverflow := base
	ownerOverflow.Fees = pool_fees.Fees{TradeFeeNumerator: 25, TradeFeeDenominator: 10_000, OwnerTradeFeeNumerator: 2, OwnerTradeFeeDenominator: 1}
	require.ErrorIs(t, f.configure(f.owner, ownerOverflow), atlasswap.ErrInvalidFee)

	// Unsigned owner meta is refused by the runtime before the program runs.
	ix := atlasswap.NewConfigureInstruction(atlasswap.ProgramID, atlasswap.ConfigureAccounts{GlobalState: f.global, Owner: f.owner}, base)
	require.ErrorIs(t, f.bank.Execute(ix), runtime.ErrMissingSignature)

	ix = atlasswap.NewConfigureInstruction(atlasswap.ProgramID, atlasswap.ConfigureAccounts{GlobalState: newKey(), Owner: f.owner}, base)
	require.ErrorIs(t, f.bank.Execute(ix, f.owner), atlasswap.ErrInvalidPdaAddress)
}

func TestInitialize(t *testing.T) {
	f := newPool(t, scenarioFees, 1_000_000, 1_000_000)

	pool, err := f.bank.Pool(f.pool)
	require.NoError(t, err)
	assert.True(t, pool.IsInitialized)
	assert.Equal(t, f.reserveA, pool.TokenA)
	assert.Equal(t, f.reserveB, pool.TokenB)
	assert.Equal(t, f.poolMint, pool.PoolMint)
	assert.Equal(t, f.mintA, pool.TokenAMint)
	assert.Equal(t, f.mintB, pool.TokenBMint)
	assert.Equal(t, solanago.TokenProgramID, pool.TokenProgramID)
	assert.Equal(t, math.ConstantProduct(), pool.SwapCurve)

	_, nonce, err := atlasswap.DerivePoolAuthority(f.pool, atlasswap.ProgramID)
	require.NoError(t, err)
	assert.Equal(t, nonce, pool.Nonce)
	assert.Equal(t, uint64(initialSupply), f.balance(f.initDestination))
	assert.Equal(t, uint64(initialSupply), f.supply())

	require.ErrorIs(t, f.initialize(atlasswap.Initialize{}), atlasswap.ErrAlreadyInUse)
}

func TestInitializeWithCurve(t *testing.T) {
	f := newFixture(t, scenarioFees, 1_000_000, 1_000_000)

	price := math.ConstantPrice(2)
	require.NoError(t, f.initialize(atlasswap.Initialize{SwapCurve: &price}))
	pool, err := f.bank.Pool(f.pool)
	require.NoError(t, err)
	assert.Equal(t, price, pool.SwapCurve)
}

func TestInitializeRepeatedMintLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, scenarioFees, 1_000_000, 1_000_000)
	sameMint := f.tokenAccount(f.mintA, f.authority, 1_000_000)

	accounts := f.initializeAccounts()
	accounts.TokenB = sameMint
	err := f.bank.Execute(atlasswap.NewInitializeInstruction(atlasswap.ProgramID, accounts, atlasswap.Initialize{}))
	require.ErrorIs(t, err, atlasswap.ErrRepeatedMint)

	raw, err := f.bank.Account(f.pool)
	require.NoError(t, err)
	assert.False(t, atlasswap.IsSwapInitialized(raw.Data))
	assert.Equal(t, make([]byte, atlasswap.SwapStateLen), raw.Data)
	assert.Zero(t, f.supply())
	assert.Zero(t, f.balance(f.initDestination))
}

func TestInitializeRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(f *fixture, a *atlasswap.InitializeAccounts)
		want   error
	}{
		{
			name:   "wrong authority",
			mutate: func(f *fixture, a *atlasswap.InitializeAccounts) { a.Authority = newKey() },
			want:   atlasswap.ErrInvalidProgramAddress,
		},
		{
			name: "reserve not owned by authority",
			mutate: func(f *fixture, a *atlasswap.InitializeAccounts) {
				a.TokenA = f.tokenAccount(f.mintA, f.user, 10)
			},
			want: atlasswap.ErrInvalidOwner,
		},
		{
			name: "destination owned by authority",
			mutate: func(f *fixture, a *atlasswap.InitializeAccounts) {
				a.Destination = f.tokenAccount(f.poolMint, f.authority, 0)
			},
			want: atlasswap.ErrInvalidOutputOwner,
		},
		{
			name: "empty reserve",
			mutate: func(f *fixture, a *atlasswap.InitializeAccounts) {
				a.TokenB = f.tokenAccount(f.mintB, f.authority, 0)
			},
			want: atlasswap.ErrEmptySupply,
		},
		{
			name: "fee account on another mint",
			mutate: func(f *fixture, a *atlasswap.InitializeAccounts) {
				a.FeeAccount = f.tokenAccount(f.mintA, f.feeOwner, 0)
			},
			want: atlasswap.ErrIncorrectPoolMint,
		},
		{
			name: "pool mint with wrong decimals",
			mutate: func(f *fixture, a *atlasswap.InitializeAccounts) {
				mint := newKey()
				require.NoError(f.t, f.bank.CreateMint(mint, f.authority, 6))
				a.PoolMint = mint
			},
			want: atlasswap.ErrMismatchDecimalValidation,
		},
		{
			name:   "pool not owned by the program",
			mutate: func(f *fixture, a *atlasswap.InitializeAccounts) { a.Pool = newKey() },
			want:   atlasswap.ErrIncorrectProgramID,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, scenarioFees, 1_000_000, 1_000_000)
			accounts := f.initializeAccounts()
			tc.mutate(f, &accounts)
			err := f.bank.Execute(atlasswap.NewInitializeInstruction(atlasswap.ProgramID, accounts, atlasswap.Initialize{}))
			require.ErrorIs(t, err, tc.want)
			assert.Zero(t, f.supply())
		})
	}
}

func TestInitializeRejectsUnlistedCurve(t *testing.T) {
	f := newFixture(t, scenarioFees, 1_000_000, 1_000_000)
	stable := math.Stable(100)
	require.ErrorIs(t, f.initialize(atlasswap.Initialize{SwapCurve: &stable}), atlasswap.ErrUnsupportedCurveType)
}

func TestSwapScenario(t *testing.T) {
	f := newPool(t, scenarioFees, 1_000_000, 1_000_000)

	require.NoError(t, f.swapAToB(1000, 997, nil))

	assert.Equal(t, uint64(1_001_000), f.balance(f.reserveA))
	assert.Equal(t, uint64(999_003), f.balance(f.reserveB))
	assert.Equal(t, uint64(10_000_000-1000), f.balance(f.userA))
	assert.Equal(t, uint64(10_000_000+997), f.balance(f.userB))
	assert.Zero(t, f.balance(f.feeB))
}

func TestSwapSlippageBoundary(t *testing.T) {
	f := newPool(t, scenarioFees, 1_000_000, 1_000_000)

	require.ErrorIs(t, f.swapAToB(1000, 998, nil), atlasswap.ErrExceededSlippage)
	assert.Equal(t, uint64(1_000_000), f.balance(f.reserveA))
	assert.Equal(t, uint64(1_000_000), f.balance(f.reserveB))
	assert.Equal(t, uint64(10_000_000), f.balance(f.userA))

	require.NoError(t, f.swapAToB(1000, 997, nil))
}

func TestSwapOwnerAndHostFees(t *testing.T) {
	fees := pool_fees.Fees{
		TradeFeeNumerator:        25,
		TradeFeeDenominator:      10_000,
		OwnerTradeFeeNumerator:   5,
		OwnerTradeFeeDenominator: 10_000,
		HostFeePercent:           20,
	}
	f := newPool(t, fees, 1_000_000, 1_000_000)

	// gross 90909, trade fee 227, owner fee 45 of which 9 to the host
	require.NoError(t, f.swapAToB(100_000, 0, &f.hostB))
	assert.Equal(t, uint64(10_000_000+90_637), f.balance(f.userB))
	assert.Equal(t, uint64(36), f.balance(f.feeB))
	assert.Equal(t, uint64(9), f.balance(f.hostB))
	assert.Equal(t, uint64(1_000_000-90_909+227), f.balance(f.reserveB))
	assert.Equal(t, uint64(1_100_000), f.balance(f.reserveA))
}

func TestSwapBToA(t *testing.T) {
	f := newPool(t, scenarioFees, 1_000_000, 1_000_000)

	require.NoError(t, f.swapBToA(1000, 997))
	assert.Equal(t, uint64(999_003), f.balance(f.reserveA))
	assert.Equal(t, uint64(1_001_000), f.balance(f.reserveB))
}

func TestSwapRejections(t *testing.T) {
	f := newPool(t, scenarioFees, 1_000_000, 1_000_000)

	base := atlasswap.SwapAccounts{
		Pool:                  f.pool,
		Authority:             f.authority,
		UserTransferAuthority: f.user,
		GlobalState:           f.global,
		Source:                f.userA,
		SwapSource:            f.reserveA,
		SwapDestination:       f.reserveB,
		Destination:           f.userB,
		PoolMint:              f.poolMint,
		FeeAccount:            f.feeB,
		TokenProgram:          solanago.TokenProgramID,
	}
	cases := []struct {
		name   string
		mutate func(a *atlasswap.SwapAccounts)
		want   error
	}{
		{"wrong authority", func(a *atlasswap.SwapAccounts) { a.Authority = newKey() }, atlasswap.ErrInvalidProgramAddress},
		{"foreign reserve", func(a *atlasswap.SwapAccounts) { a.SwapDestination = f.userB }, atlasswap.ErrIncorrectSwapAccount},
		{"wrong pool mint", func(a *atlasswap.SwapAccounts) { a.PoolMint = f.mintA }, atlasswap.ErrIncorrectPoolMint},
		{"wrong token program", func(a *atlasswap.SwapAccounts) { a.TokenProgram = solanago.Token2022ProgramID }, atlasswap.ErrIncorrectTokenProgramID},
		{"fee account on source mint", func(a *atlasswap.SwapAccounts) { a.FeeAccount = f.feeA }, atlasswap.ErrIncorrectFeeAccount},
		{"user source is a reserve", func(a *atlasswap.SwapAccounts) { a.Source = f.reserveA }, atlasswap.ErrInvalidInput},
		{"wrong global state", func(a *atlasswap.SwapAccounts) { a.GlobalState = newKey() }, atlasswap.ErrInvalidPdaAddress},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			accounts := base
			tc.mutate(&accounts)
			ix := atlasswap.NewSwapInstruction(atlasswap.ProgramID, accounts, atlasswap.Swap{AmountIn: 1000})
			require.ErrorIs(t, f.bank.Execute(ix, f.user), tc.want)
			assert.Equal(t, uint64(1_000_000), f.balance(f.reserveA))
			assert.Equal(t, uint64(1_000_000), f.balance(f.reserveB))
		})
	}

	require.ErrorIs(t, f.swapAToB(0, 0, nil), atlasswap.ErrZeroTradingTokens)
}

func TestSwapInsufficientFundsRollsBack(t *testing.T) {
	f := newPool(t, scenarioFees, 1_000_000, 1_000_000)

	require.ErrorIs(t, f.swapAToB(20_000_000, 0, nil), runtime.ErrInsufficientFunds)
	assert.Equal(t, uint64(1_000_000), f.balance(f.reserveA))
	assert.Equal(t, uint64(1_000_000), f.balance(f.reserveB))
	assert.Equal(t, uint64(10_000_000), f.balance(f.userB))
}

func TestDeposit(t *testing.T) {
	f := newPool(t, scenarioFees, 1_000_000, 1_000_000)

	require.NoError(t, f.deposit(atlasswap.DepositAllTokenTypes{MaximumTokenAAmount: 1000, MaximumTokenBAmount: 1000}))
	assert.Equal(t, uint64(initialSupply+1_000_000), f.supply())
	assert.Equal(t, uint64(initialSupply+1_000_000), f.balance(f.userLP))
	assert.Equal(t, uint64(1_001_000), f.balance(f.reserveA))
	assert.Equal(t, uint64(1_001_000), f.balance(f.reserveB))
}

func TestDepositMinimumPoolTokens(t *testing.T) {
	f := newPool(t, scenarioFees, 1_000_000, 1_000_000)

	err := f.deposit(atlasswap.DepositAllTokenTypes{PoolTokenAmount: 1_000_001, MaximumTokenAAmount: 1000, MaximumTokenBAmount: 1000})
	require.ErrorIs(t, err, atlasswap.ErrExceededSlippage)
	assert.Equal(t, uint64(initialSupply), f.supply())

	require.NoError(t, f.deposit(atlasswap.DepositAllTokenTypes{PoolTokenAmount: 1_000_000, MaximumTokenAAmount: 1000, MaximumTokenBAmount: 1000}))
}

func TestDepositZeroPoolTokens(t *testing.T) {
	f := newPool(t, scenarioFees, 1_000_000, 1_000_000)
	require.ErrorIs(t, f.deposit(atlasswap.DepositAllTokenTypes{}), atlasswap.ErrZeroTradingTokens)
}

func TestDepositRejectedOnOffsetCurve(t *testing.T) {
	f := newFixture(t, scenarioFees, 1_000_000, 0, func(c *atlasswap.SwapConstraints) {
		c.ValidCurveTypes = append(c.ValidCurveTypes, shared.CurveTypeOffset)
	})

	offset := math.Offset(1_000_000)
	require.NoError(t, f.initialize(atlasswap.Initialize{SwapCurve: &offset}))
	require.ErrorIs(t,
		f.deposit(atlasswap.DepositAllTokenTypes{MaximumTokenAAmount: 10, MaximumTokenBAmount: 10}),
		atlasswap.ErrUnsupportedCurveOperation,
	)
}

func TestWithdrawClampsToMinimumSupply(t *testing.T) {
	f := newPool(t, scenarioFees, 1_000_000, 1_000_000)

	require.NoError(t, f.withdraw(atlasswap.WithdrawAllTokenTypes{PoolTokenAmount: initialSupply}))
	assert.Equal(t, uint64(atlasswap.DefaultConstraints().MinLpSupply), f.supply())
	assert.Equal(t, uint64(100), f.balance(f.reserveA))
	assert.Equal(t, uint64(100), f.balance(f.reserveB))
	assert.Equal(t, uint64(10_000_000+999_900), f.balance(f.userA))
	assert.Equal(t, uint64(10_000_000+999_900), f.balance(f.userB))

	err := f.withdraw(atlasswap.WithdrawAllTokenTypes{PoolTokenAmount: 1})
	require.ErrorIs(t, err, atlasswap.ErrBelowMinimumSupply)
}

func TestWithdrawSlippageAndZero(t *testing.T) {
	f := newPool(t, scenarioFees, 1_000_000, 1_000_000)

	require.ErrorIs(t, f.withdraw(atlasswap.WithdrawAllTokenTypes{}), atlasswap.ErrZeroTradingTokens)

	// 1_000_000 pool tokens are worth exactly 1000 of each side.
	err := f.withdraw(atlasswap.WithdrawAllTokenTypes{PoolTokenAmount: 1_000_000, MinimumTokenAAmount: 1001})
	require.ErrorIs(t, err, atlasswap.ErrExceededSlippage)
	assert.Equal(t, uint64(initialSupply), f.supply())

	require.NoError(t, f.withdraw(atlasswap.WithdrawAllTokenTypes{PoolTokenAmount: 1_000_000, MinimumTokenAAmount: 1000, MinimumTokenBAmount: 1000}))
	assert.Equal(t, uint64(999_000), f.balance(f.reserveA))

	// Dust that rounds to nothing on a non-empty side is refused.
	require.ErrorIs(t, f.withdraw(atlasswap.WithdrawAllTokenTypes{PoolTokenAmount: 1}), atlasswap.ErrZeroTradingTokens)
}

func TestRequestsAgainstUninitializedPool(t *testing.T) {
	f := newFixture(t, scenarioFees, 1_000_000, 1_000_000)
	require.ErrorIs(t, f.swapAToB(1000, 0, nil), atlasswap.ErrUninitializedAccount)
}

func TestMalformedRequest(t *testing.T) {
	f := newPool(t, scenarioFees, 1_000_000, 1_000_000)
	ix := solanago.NewInstruction(atlasswap.ProgramID, nil, []byte{9})
	require.ErrorIs(t, f.bank.Execute(ix), atlasswap.ErrInvalidInstruction)

	ix = solanago.NewInstruction(atlasswap.ProgramID, nil, atlasswap.Swap{AmountIn: 1}.Encode()[:10])
	require.ErrorIs(t, f.bank.Execute(ix), atlasswap.ErrInvalidInstruction)

	ix = solanago.NewInstruction(atlasswap.ProgramID, nil, atlasswap.Swap{AmountIn: 1}.Encode())
	require.ErrorIs(t, f.bank.Execute(ix), atlasswap.ErrNotEnoughAccountKeys)
}
