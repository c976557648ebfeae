package atlasswap

import (
	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"go.uber.org/zap"

	"github.com/krazyTry/atlas-go/atlas_swap/shared"
	"github.com/krazyTry/atlas-go/u128"
)

// Processor executes decoded requests against the accounts the host
// supplies. Every check runs before the first token movement, and a failing
// token movement aborts the request; the host discards partial effects.
type Processor struct {
	programID   solanago.PublicKey
	host        Host
	constraints *SwapConstraints
	log         *zap.Logger
}

type Option func(*Processor)

func WithConstraints(c *SwapConstraints) Option {
	return func(p *Processor) { p.constraints = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Processor) { p.log = l }
}

func NewProcessor(programID solanago.PublicKey, host Host, opts ...Option) *Processor {
	p := &Processor{
		programID:   programID,
		host:        host,
		constraints: DefaultConstraints(),
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Processor) ProgramID() solanago.PublicKey { return p.programID }

func (p *Processor) Constraints() *SwapConstraints { return p.constraints }

// Process decodes input and dispatches it by kind.
func (p *Processor) Process(accounts []*AccountInfo, input []byte) error {
	ix, err := DecodeInstruction(input)
	if err != nil {
		return err
	}
	p.log.Debug("Instruction: "+ix.Tag().String(), zap.Int("accounts", len(accounts)))

	switch v := ix.(type) {
	case Configure:
		return p.processConfigure(accounts, v)
	case Initialize:
		return p.processInitialize(accounts, v)
	case Swap:
		return p.processSwap(accounts, v)
	case DepositAllTokenTypes:
		return p.processDepositAllTokenTypes(accounts, v)
	case WithdrawAllTokenTypes:
		return p.processWithdrawAllTokenTypes(accounts, v)
	}
	return ErrInvalidInstruction
}

func toU64(v u128.Uint128) (uint64, error) {
	n, ok := v.Uint64()
	if !ok {
		return 0, ErrConversionFailure
	}
	return n, nil
}

// invoke sends a token instruction to the token program the pool was
// created with.
func (p *Processor) invoke(tokenProgram *AccountInfo, ix solanago.Instruction, signerSeeds [][][]byte) error {
	data, err := ix.Data()
	if err != nil {
		return err
	}
	return p.host.InvokeSigned(solanago.NewInstruction(tokenProgram.Key, ix.Accounts(), data), signerSeeds)
}

func (p *Processor) tokenTransfer(
	pool solanago.PublicKey, tokenProgram, source, destination, authority *AccountInfo, nonce uint8, amount uint64,
) error {
	ix := token.NewTransferInstruction(amount, source.Key, destination.Key, authority.Key, nil).Build()
	return p.invoke(tokenProgram, ix, [][][]byte{authoritySeeds(pool, nonce)})
}

// userTransfer moves tokens on the caller's signature.
func (p *Processor) userTransfer(tokenProgram, source, destination, authority *AccountInfo, amount uint64) error {
	ix := token.NewTransferInstruction(amount, source.Key, destination.Key, authority.Key, nil).Build()
	return p.invoke(tokenProgram, ix, nil)
}

func (p *Processor) tokenMintTo(
	pool solanago.PublicKey, tokenProgram, mint, destination, authority *AccountInfo, nonce uint8, amount uint64,
) error {
	ix := token.NewMintToInstruction(amount, mint.Key, destination.Key, authority.Key, nil).Build()
	return p.invoke(tokenProgram, ix, [][][]byte{authoritySeeds(pool, nonce)})
}

func (p *Processor) userBurn(tokenProgram, source, mint, authority *AccountInfo, amount uint64) error {
	ix := token.NewBurnInstruction(amount, source.Key, mint.Key, authority.Key, nil).Build()
	return p.invoke(tokenProgram, ix, nil)
}

func (p *Processor) processConfigure(accounts []*AccountInfo, ix Configure) error {
	if len(accounts) < 4 {
		return ErrNotEnoughAccountKeys
	}
	stateInfo, ownerInfo, systemInfo, rentInfo := accounts[0], accounts[1], accounts[2], accounts[3]

	seeds := globalStateSeeds(p.programID)
	addr, bump, err := p.host.FindProgramAddress(seeds, p.programID)
	if err != nil || stateInfo.Key != addr {
		return ErrInvalidPdaAddress
	}
	if !ownerInfo.IsSigner {
		return ErrInvalidSigner
	}
	if systemInfo.Key != solanago.SystemProgramID {
		return ErrInvalidSystemProgramID
	}
	if rentInfo.Key != solanago.SysVarRentPubkey {
		return ErrInvalidRentSysvarID
	}

	if stateInfo.DataIsEmpty() {
		if err := p.host.Allocate(stateInfo, GlobalStateLen, p.programID, append(seeds, []byte{bump})); err != nil {
			return err
		}
		if len(stateInfo.Data) != GlobalStateLen {
			return ErrInvalidAllocateSpaceForAccount
		}
		p.log.Debug("allocated global state", zap.Stringer("address", stateInfo.Key))
	} else if stateInfo.Owner != p.programID {
		return ErrIncorrectProgramID
	}

	state, err := UnpackGlobalState(stateInfo.Data)
	if err != nil {
		return err
	}
	if !state.IsInitialized {
		state = p.constraints.bootstrapState()
	}
	if state.Owner != ownerInfo.Key {
		return ErrInvalidProgramOwner
	}

	next := GlobalState{
		IsInitialized: true,
		Owner:         ix.Owner,
		FeeOwner:      ix.FeeOwner,
		InitialSupply: ix.InitialSupply,
		LpDecimals:    ix.LpDecimals,
		Fees:          ix.Fees,
		SwapCurve:     state.SwapCurve,
	}
	if ix.SwapCurve != nil {
		next.SwapCurve = *ix.SwapCurve
	}
	if err := p.constraints.ValidateCurve(next.SwapCurve); err != nil {
		return err
	}
	if err := next.SwapCurve.Validate(); err != nil {
		return ErrInvalidCurve
	}
	if err := p.constraints.ValidateFees(next.Fees); err != nil {
		return err
	}
	if err := next.Fees.Validate(); err != nil {
		return ErrInvalidFee
	}

	copy(stateInfo.Data, next.Pack())
	p.log.Debug("global state updated",
		zap.Stringer("owner", next.Owner),
		zap.Stringer("fee_owner", next.FeeOwner),
		zap.Stringer("curve", next.SwapCurve),
	)
	return nil
}

func (p *Processor) processInitialize(accounts []*AccountInfo, ix Initialize) error {
	if len(accounts) < 9 {
		return ErrNotEnoughAccountKeys
	}
	var (
		poolInfo         = accounts[0]
		authorityInfo    = accounts[1]
		globalInfo       = accounts[2]
		tokenAInfo       = accounts[3]
		tokenBInfo       = accounts[4]
		poolMintInfo     = accounts[5]
		feeInfo          = accounts[6]
		destinationInfo  = accounts[7]
		tokenProgramInfo = accounts[8]
		tokenProgramID   = tokenProgramInfo.Key
	)

	if IsSwapInitialized(poolInfo.Data) {
		return ErrAlreadyInUse
	}
	if poolInfo.Owner != p.programID {
		return ErrIncorrectProgramID
	}
	if len(poolInfo.Data) < SwapStateLen {
		return ErrInvalidAccountData
	}
	_, nonce, err := p.host.FindProgramAddress([][]byte{poolInfo.Key.Bytes()}, p.programID)
	if err != nil {
		return ErrInvalidProgramAddress
	}
	authority, err := p.authorityID(poolInfo.Key, nonce)
	if err != nil {
		return err
	}
	if authorityInfo.Key != authority {
		return ErrInvalidProgramAddress
	}
	global, err := p.loadGlobalState(globalInfo)
	if err != nil {
		return err
	}

	tokenA, err := unpackTokenAccount(tokenAInfo, tokenProgramID)
	if err != nil {
		return err
	}
	tokenB, err := unpackTokenAccount(tokenBInfo, tokenProgramID)
	if err != nil {
		return err
	}
	fee, err := unpackTokenAccount(feeInfo, tokenProgramID)
	if err != nil {
		return err
	}
	destination, err := unpackTokenAccount(destinationInfo, tokenProgramID)
	if err != nil {
		return err
	}
	poolMint, err := unpackMint(poolMintInfo, tokenProgramID)
	if err != nil {
		return err
	}

	if tokenA.Owner != authority || tokenB.Owner != authority {
		return ErrInvalidOwner
	}
	if destination.Owner == authority || fee.Owner == authority {
		return ErrInvalidOutputOwner
	}
	if poolMint.MintAuthority == nil || *poolMint.MintAuthority != authority {
		return ErrInvalidOwner
	}
	if tokenA.Mint == tokenB.Mint {
		return ErrRepeatedMint
	}

	curve := global.SwapCurve
	if ix.SwapCurve != nil {
		curve = *ix.SwapCurve
	}
	if err := p.constraints.ValidateCurve(curve); err != nil {
		return err
	}
	if err := curve.Validate(); err != nil {
		return ErrInvalidCurve
	}
	if err := curve.ValidateSupply(tokenA.Amount, tokenB.Amount); err != nil {
		return ErrEmptySupply
	}

	if tokenA.Delegate != nil || tokenB.Delegate != nil {
		return ErrInvalidDelegate
	}
	if tokenA.CloseAuthority != nil || tokenB.CloseAuthority != nil {
		return ErrInvalidCloseAuthority
	}
	if tokenA.IsFrozen() || tokenB.IsFrozen() {
		return ErrInvalidInput
	}
	if poolMint.Supply != 0 {
		return ErrInvalidSupply
	}
	if poolMint.FreezeAuthority != nil {
		return ErrInvalidFreezeAuthority
	}
	if poolMint.Decimals != global.LpDecimals {
		return ErrMismatchDecimalValidation
	}
	if fee.Mint != poolMintInfo.Key || destination.Mint != poolMintInfo.Key {
		return ErrIncorrectPoolMint
	}

	if err := p.tokenMintTo(poolInfo.Key, tokenProgramInfo, poolMintInfo, destinationInfo, authorityInfo, nonce, global.InitialSupply); err != nil {
		return err
	}

	swap := SwapV1{
		IsInitialized:  true,
		Nonce:          nonce,
		TokenProgramID: tokenProgramID,
		TokenA:         tokenAInfo.Key,
		TokenB:         tokenBInfo.Key,
		PoolMint:       poolMintInfo.Key,
		TokenAMint:     tokenA.Mint,
		TokenBMint:     tokenB.Mint,
		SwapCurve:      curve,
	}
	if err := PackSwapState(swap, poolInfo.Data); err != nil {
		return err
	}
	p.log.Debug("pool initialized",
		zap.Stringer("pool", poolInfo.Key),
		zap.Stringer("curve", curve),
		zap.Uint64("initial_supply", global.InitialSupply),
	)
	return nil
}

func (p *Processor) processSwap(accounts []*AccountInfo, ix Swap) error {
	if len(accounts) < 11 {
		return ErrNotEnoughAccountKeys
	}
	var (
		poolInfo            = accounts[0]
		authorityInfo       = accounts[1]
		userAuthorityInfo   = accounts[2]
		globalInfo          = accounts[3]
		sourceInfo          = accounts[4]
		swapSourceInfo      = accounts[5]
		swapDestinationInfo = accounts[6]
		destinationInfo     = accounts[7]
		poolMintInfo        = accounts[8]
		feeInfo             = accounts[9]
		tokenProgramInfo    = accounts[10]
		hostFeeInfo         *AccountInfo
	)
	if len(accounts) > 11 {
		hostFeeInfo = accounts[11]
	}

	swap, err := p.loadSwap(poolInfo)
	if err != nil {
		return err
	}

	// Map source and destination onto the A/B sides of the record.
	direction := shared.TradeDirectionAtoB
	accts := poolAccounts{
		Pool:         poolInfo,
		Authority:    authorityInfo,
		TokenA:       swapSourceInfo,
		TokenB:       swapDestinationInfo,
		PoolMint:     poolMintInfo,
		TokenProgram: tokenProgramInfo,
		UserA:        sourceInfo,
		UserB:        destinationInfo,
	}
	if swapSourceInfo.Key == swap.TokenB {
		direction = shared.TradeDirectionBtoA
		accts.TokenA, accts.TokenB = swapDestinationInfo, swapSourceInfo
		accts.UserA, accts.UserB = destinationInfo, sourceInfo
	}
	if err := p.checkAccounts(swap, accts); err != nil {
		return err
	}
	if swapSourceInfo.Key == swapDestinationInfo.Key {
		return ErrInvalidInput
	}
	if sourceInfo.Key == swapDestinationInfo.Key || destinationInfo.Key == swapSourceInfo.Key {
		return ErrInvalidInput
	}
	global, err := p.loadGlobalState(globalInfo)
	if err != nil {
		return err
	}

	sourceReserve, err := unpackTokenAccount(swapSourceInfo, swap.TokenProgramID)
	if err != nil {
		return err
	}
	destinationReserve, err := unpackTokenAccount(swapDestinationInfo, swap.TokenProgramID)
	if err != nil {
		return err
	}
	feeAccount, err := unpackTokenAccount(feeInfo, swap.TokenProgramID)
	if err != nil {
		return err
	}
	if feeAccount.Owner != global.FeeOwner || feeAccount.Mint != destinationReserve.Mint {
		return ErrIncorrectFeeAccount
	}
	if hostFeeInfo != nil {
		hostAccount, err := unpackTokenAccount(hostFeeInfo, swap.TokenProgramID)
		if err != nil {
			return err
		}
		if hostAccount.Mint != destinationReserve.Mint {
			return ErrIncorrectFeeAccount
		}
	}

	result, ok := swap.SwapCurve.Swap(
		u128.New(ix.AmountIn),
		u128.New(sourceReserve.Amount),
		u128.New(destinationReserve.Amount),
		direction,
		global.Fees,
	)
	if !ok {
		return ErrZeroTradingTokens
	}
	amountOut, err := toU64(result.DestinationAmountSwapped)
	if err != nil {
		return err
	}
	if amountOut < ix.MinimumAmountOut {
		return ErrExceededSlippage
	}
	amountIn, err := toU64(result.SourceAmountSwapped)
	if err != nil {
		return err
	}
	ownerFee, err := toU64(result.OwnerFee)
	if err != nil {
		return err
	}
	var hostFee uint64
	if hostFeeInfo != nil {
		fee, ok := global.Fees.HostFee(result.OwnerFee)
		if !ok {
			return ErrFeeCalculationFailure
		}
		if hostFee, err = toU64(fee); err != nil {
			return err
		}
	}

	if err := p.userTransfer(tokenProgramInfo, sourceInfo, swapSourceInfo, userAuthorityInfo, amountIn); err != nil {
		return err
	}
	if err := p.tokenTransfer(poolInfo.Key, tokenProgramInfo, swapDestinationInfo, destinationInfo, authorityInfo, swap.Nonce, amountOut); err != nil {
		return err
	}
	if ownerFee > hostFee {
		if err := p.tokenTransfer(poolInfo.Key, tokenProgramInfo, swapDestinationInfo, feeInfo, authorityInfo, swap.Nonce, ownerFee-hostFee); err != nil {
			return err
		}
	}
	if hostFee > 0 {
		if err := p.tokenTransfer(poolInfo.Key, tokenProgramInfo, swapDestinationInfo, hostFeeInfo, authorityInfo, swap.Nonce, hostFee); err != nil {
			return err
		}
	}

	p.log.Debug("swapped",
		zap.Stringer("pool", poolInfo.Key),
		zap.Stringer("direction", direction),
		zap.Uint64("amount_in", amountIn),
		zap.Uint64("amount_out", amountOut),
		zap.Stringer("trade_fee", result.TradeFee),
		zap.Uint64("owner_fee", ownerFee),
	)
	return nil
}

func (p *Processor) processDepositAllTokenTypes(accounts []*AccountInfo, ix DepositAllTokenTypes) error {
	if len(accounts) < 11 {
		return ErrNotEnoughAccountKeys
	}
	var (
		poolInfo          = accounts[0]
		authorityInfo     = accounts[1]
		globalInfo        = accounts[2]
		userAuthorityInfo = accounts[3]
		sourceAInfo       = accounts[4]
		sourceBInfo       = accounts[5]
		tokenAInfo        = accounts[6]
		tokenBInfo        = accounts[7]
		poolMintInfo      = accounts[8]
		destinationInfo   = accounts[9]
		tokenProgramInfo  = accounts[10]
	)

	swap, err := p.loadSwap(poolInfo)
	if err != nil {
		return err
	}
	if err := p.checkAccounts(swap, poolAccounts{
		Pool:         poolInfo,
		Authority:    authorityInfo,
		TokenA:       tokenAInfo,
		TokenB:       tokenBInfo,
		PoolMint:     poolMintInfo,
		TokenProgram: tokenProgramInfo,
		UserA:        sourceAInfo,
		UserB:        sourceBInfo,
	}); err != nil {
		return err
	}
	if _, err := p.loadGlobalState(globalInfo); err != nil {
		return err
	}
	if !swap.SwapCurve.AllowsDeposits() {
		return ErrUnsupportedCurveOperation
	}

	tokenA, err := unpackTokenAccount(tokenAInfo, swap.TokenProgramID)
	if err != nil {
		return err
	}
	tokenB, err := unpackTokenAccount(tokenBInfo, swap.TokenProgramID)
	if err != nil {
		return err
	}
	poolMint, err := unpackMint(poolMintInfo, swap.TokenProgramID)
	if err != nil {
		return err
	}

	minted, ok := swap.SwapCurve.DepositPoolTokens(
		u128.New(ix.MaximumTokenAAmount),
		u128.New(ix.MaximumTokenBAmount),
		u128.New(poolMint.Supply),
		u128.New(tokenA.Amount),
		u128.New(tokenB.Amount),
	)
	if !ok {
		return ErrCalculationFailure
	}
	poolTokens, err := toU64(minted)
	if err != nil {
		return err
	}
	if poolTokens == 0 {
		return ErrZeroTradingTokens
	}
	if ix.PoolTokenAmount != 0 && poolTokens < ix.PoolTokenAmount {
		return ErrExceededSlippage
	}

	if ix.MaximumTokenAAmount > 0 {
		if err := p.userTransfer(tokenProgramInfo, sourceAInfo, tokenAInfo, userAuthorityInfo, ix.MaximumTokenAAmount); err != nil {
			return err
		}
	}
	if ix.MaximumTokenBAmount > 0 {
		if err := p.userTransfer(tokenProgramInfo, sourceBInfo, tokenBInfo, userAuthorityInfo, ix.MaximumTokenBAmount); err != nil {
			return err
		}
	}
	if err := p.tokenMintTo(poolInfo.Key, tokenProgramInfo, poolMintInfo, destinationInfo, authorityInfo, swap.Nonce, poolTokens); err != nil {
		return err
	}

	p.log.Debug("deposited",
		zap.Stringer("pool", poolInfo.Key),
		zap.Uint64("token_a", ix.MaximumTokenAAmount),
		zap.Uint64("token_b", ix.MaximumTokenBAmount),
		zap.Uint64("pool_tokens", poolTokens),
	)
	return nil
}

func (p *Processor) processWithdrawAllTokenTypes(accounts []*AccountInfo, ix WithdrawAllTokenTypes) error {
	if len(accounts) < 11 {
		return ErrNotEnoughAccountKeys
	}
	var (
		poolInfo          = accounts[0]
		authorityInfo     = accounts[1]
		globalInfo        = accounts[2]
		userAuthorityInfo = accounts[3]
		poolMintInfo      = accounts[4]
		sourceInfo        = accounts[5]
		tokenAInfo        = accounts[6]
		tokenBInfo        = accounts[7]
		destAInfo         = accounts[8]
		destBInfo         = accounts[9]
		tokenProgramInfo  = accounts[10]
	)

	swap, err := p.loadSwap(poolInfo)
	if err != nil {
		return err
	}
	if err := p.checkAccounts(swap, poolAccounts{
		Pool:         poolInfo,
		Authority:    authorityInfo,
		TokenA:       tokenAInfo,
		TokenB:       tokenBInfo,
		PoolMint:     poolMintInfo,
		TokenProgram: tokenProgramInfo,
		UserA:        destAInfo,
		UserB:        destBInfo,
	}); err != nil {
		return err
	}
	if _, err := p.loadGlobalState(globalInfo); err != nil {
		return err
	}

	tokenA, err := unpackTokenAccount(tokenAInfo, swap.TokenProgramID)
	if err != nil {
		return err
	}
	tokenB, err := unpackTokenAccount(tokenBInfo, swap.TokenProgramID)
	if err != nil {
		return err
	}
	poolMint, err := unpackMint(poolMintInfo, swap.TokenProgramID)
	if err != nil {
		return err
	}

	if ix.PoolTokenAmount == 0 {
		return ErrZeroTradingTokens
	}
	var burnable uint64
	if poolMint.Supply > p.constraints.MinLpSupply {
		burnable = poolMint.Supply - p.constraints.MinLpSupply
	}
	poolTokens := min(ix.PoolTokenAmount, burnable)
	if poolTokens == 0 {
		return ErrBelowMinimumSupply
	}

	res, ok := swap.SwapCurve.PoolTokensToTradingTokens(
		u128.New(poolTokens),
		u128.New(poolMint.Supply),
		u128.New(tokenA.Amount),
		u128.New(tokenB.Amount),
		shared.RoundDirectionFloor,
	)
	if !ok {
		return ErrZeroTradingTokens
	}
	amountA, err := toU64(res.TokenAAmount)
	if err != nil {
		return err
	}
	amountB, err := toU64(res.TokenBAmount)
	if err != nil {
		return err
	}
	amountA = min(amountA, tokenA.Amount)
	amountB = min(amountB, tokenB.Amount)

	if amountA < ix.MinimumTokenAAmount || amountB < ix.MinimumTokenBAmount {
		return ErrExceededSlippage
	}
	if (amountA == 0 && tokenA.Amount != 0) || (amountB == 0 && tokenB.Amount != 0) {
		return ErrZeroTradingTokens
	}

	if err := p.userBurn(tokenProgramInfo, sourceInfo, poolMintInfo, userAuthorityInfo, poolTokens); err != nil {
		return err
	}
	if amountA > 0 {
		if err := p.tokenTransfer(poolInfo.Key, tokenProgramInfo, tokenAInfo, destAInfo, authorityInfo, swap.Nonce, amountA); err != nil {
			return err
		}
	}
	if amountB > 0 {
		if err := p.tokenTransfer(poolInfo.Key, tokenProgramInfo, tokenBInfo, destBInfo, authorityInfo, swap.Nonce, amountB); err != nil {
			return err
		}
	}

	p.log.Debug("withdrew",
		zap.Stringer("pool", poolInfo.Key),
		zap.Uint64("pool_tokens", poolTokens),
		zap.Uint64("token_a", amountA),
		zap.Uint64("token_b", amountB),
	)
	return nil
}
