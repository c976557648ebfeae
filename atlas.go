package atlas

import (
	atlasswap "github.com/krazyTry/atlas-go/atlas_swap"
	"github.com/krazyTry/atlas-go/runtime"
)

// ProgramID is the default address of the swap program.
var ProgramID = atlasswap.ProgramID

// NewBank creates a local runtime that executes swap and token requests.
//
// Example:
//
// bank := NewBank(NewMemStore(), ProgramID, WithConstraints(constraints))
//
// bank.Execute(NewSwapInstruction(ProgramID, accounts, atlasswap.Swap{AmountIn: 1000, MinimumAmountOut: 990}), user)
var NewBank = runtime.NewBank

// NewMemStore creates an in-memory account store.
var NewMemStore = runtime.NewMemStore

// OpenLevelStore opens a goleveldb account store at path.
var OpenLevelStore = runtime.OpenLevelStore

// WithConstraints sets the program policy of a bank.
var WithConstraints = runtime.WithConstraints

// DefaultConstraints returns the program policy of the deployed program.
var DefaultConstraints = atlasswap.DefaultConstraints

// NewProcessor creates the swap program over a caller-provided host.
//
// Example:
//
// err := NewProcessor(ProgramID, host).Process(accounts, data)
var NewProcessor = atlasswap.NewProcessor

var (
	NewConfigureInstruction             = atlasswap.NewConfigureInstruction
	NewInitializeInstruction            = atlasswap.NewInitializeInstruction
	NewSwapInstruction                  = atlasswap.NewSwapInstruction
	NewDepositAllTokenTypesInstruction  = atlasswap.NewDepositAllTokenTypesInstruction
	NewWithdrawAllTokenTypesInstruction = atlasswap.NewWithdrawAllTokenTypesInstruction
)

// GetSwapQuote prices a swap without executing it.
//
// Example:
//
// quote, _ := GetSwapQuote(pool.SwapCurve, global.Fees, 1000, reserveA, reserveB, shared.TradeDirectionAtoB, 50)
var GetSwapQuote = atlasswap.GetSwapQuote

var (
	GetDepositQuote       = atlasswap.GetDepositQuote
	GetWithdrawQuote      = atlasswap.GetWithdrawQuote
	GetAmountWithSlippage = atlasswap.GetAmountWithSlippage
)
