package atlasswap

import "fmt"

// ErrorKind groups SwapError codes by the class of precondition they report.
type ErrorKind uint8

const (
	KindMalformed ErrorKind = iota
	KindAuthorization
	KindBinding
	KindPolicy
	KindArithmetic
	KindEconomic
	KindLifecycle
	KindHost
)

var kindNames = map[ErrorKind]string{
	KindMalformed:     "malformed input",
	KindAuthorization: "authorization",
	KindBinding:       "binding mismatch",
	KindPolicy:        "policy violation",
	KindArithmetic:    "arithmetic",
	KindEconomic:      "economic guard",
	KindLifecycle:     "lifecycle",
	KindHost:          "host",
}

func (k ErrorKind) String() string { return kindNames[k] }

// SwapError is a program error code. Codes are stable and comparable with
// errors.Is.
type SwapError uint32

const (
	ErrAlreadyInUse SwapError = iota
	ErrInvalidProgramAddress
	ErrInvalidOwner
	ErrInvalidOutputOwner
	ErrExpectedMint
	ErrExpectedAccount
	ErrEmptySupply
	ErrInvalidSupply
	ErrRepeatedMint
	ErrInvalidDelegate
	ErrInvalidInput
	ErrIncorrectSwapAccount
	ErrIncorrectPoolMint
	ErrInvalidOutput
	ErrCalculationFailure
	ErrInvalidInstruction
	ErrExceededSlippage
	ErrInvalidCloseAuthority
	ErrInvalidFreezeAuthority
	ErrIncorrectFeeAccount
	ErrZeroTradingTokens
	ErrFeeCalculationFailure
	ErrConversionFailure
	ErrInvalidFee
	ErrIncorrectTokenProgramID
	ErrUnsupportedCurveType
	ErrInvalidCurve
	ErrUnsupportedCurveOperation
	ErrMismatchDecimalValidation
	ErrInvalidPdaAddress
	ErrInvalidAllocateSpaceForAccount
	ErrInvalidSigner
	ErrInvalidSystemProgramID
	ErrInvalidRentSysvarID
	ErrInvalidProgramOwner
	ErrNotInitializedState
	ErrIncorrectProgramID
	ErrNotEnoughAccountKeys
	ErrInvalidAccountData
	ErrUninitializedAccount
	ErrBelowMinimumSupply
	ErrInvalidAccountFlags
)

var swapErrors = map[SwapError]struct {
	msg  string
	kind ErrorKind
}{
	ErrAlreadyInUse:                   {"swap account already in use", KindLifecycle},
	ErrInvalidProgramAddress:          {"invalid program address generated from nonce and key", KindAuthorization},
	ErrInvalidOwner:                   {"input account owner is not the program address", KindBinding},
	ErrInvalidOutputOwner:             {"output pool account owner cannot be the program address", KindBinding},
	ErrExpectedMint:                   {"deserialized account is not an SPL token mint", KindMalformed},
	ErrExpectedAccount:                {"deserialized account is not an SPL token account", KindMalformed},
	ErrEmptySupply:                    {"input token account empty", KindEconomic},
	ErrInvalidSupply:                  {"pool token mint has a non-zero supply", KindLifecycle},
	ErrRepeatedMint:                   {"swap input token accounts have the same mint", KindPolicy},
	ErrInvalidDelegate:                {"token account has a delegate", KindBinding},
	ErrInvalidInput:                   {"input token is invalid for swap", KindBinding},
	ErrIncorrectSwapAccount:           {"address of the provided swap token account is incorrect", KindBinding},
	ErrIncorrectPoolMint:              {"address of the provided pool token mint is incorrect", KindBinding},
	ErrInvalidOutput:                  {"output token is invalid for swap", KindBinding},
	ErrCalculationFailure:             {"general calculation failure due to overflow or underflow", KindArithmetic},
	ErrInvalidInstruction:             {"invalid instruction", KindMalformed},
	ErrExceededSlippage:               {"swap instruction exceeds desired slippage limit", KindEconomic},
	ErrInvalidCloseAuthority:          {"token account has a close authority", KindBinding},
	ErrInvalidFreezeAuthority:         {"pool token mint has a freeze authority", KindBinding},
	ErrIncorrectFeeAccount:            {"pool fee token account incorrect", KindBinding},
	ErrZeroTradingTokens:              {"given pool token amount results in zero trading tokens", KindEconomic},
	ErrFeeCalculationFailure:          {"fee calculation failed due to overflow, underflow, or unexpected 0", KindArithmetic},
	ErrConversionFailure:              {"conversion to u64 failed with an overflow or underflow", KindArithmetic},
	ErrInvalidFee:                     {"the provided fee does not match the program owner's constraints", KindPolicy},
	ErrIncorrectTokenProgramID:        {"the provided token program does not match the token program expected by the swap", KindBinding},
	ErrUnsupportedCurveType:           {"the provided curve type is not supported by the program owner", KindPolicy},
	ErrInvalidCurve:                   {"the provided curve parameters are invalid", KindPolicy},
	ErrUnsupportedCurveOperation:      {"the operation cannot be performed on the given curve", KindPolicy},
	ErrMismatchDecimalValidation:      {"pool token mint decimals do not match the configured decimals", KindPolicy},
	ErrInvalidPdaAddress:              {"global state address is not the program derived address", KindAuthorization},
	ErrInvalidAllocateSpaceForAccount: {"allocated account space does not match the state size", KindHost},
	ErrInvalidSigner:                  {"required signature is missing", KindAuthorization},
	ErrInvalidSystemProgramID:         {"invalid system program id", KindBinding},
	ErrInvalidRentSysvarID:            {"invalid rent sysvar id", KindBinding},
	ErrInvalidProgramOwner:            {"signer is not the program owner", KindAuthorization},
	ErrNotInitializedState:            {"global state is not initialized", KindLifecycle},
	ErrIncorrectProgramID:             {"account is not owned by this program", KindBinding},
	ErrNotEnoughAccountKeys:           {"not enough account keys", KindMalformed},
	ErrInvalidAccountData:             {"account data is corrupt", KindMalformed},
	ErrUninitializedAccount:           {"account is not initialized or has an unknown version", KindLifecycle},
	ErrBelowMinimumSupply:             {"withdrawal would burn into the minimum pool token supply", KindEconomic},
	ErrInvalidAccountFlags:            {"account signer or writable flags are wrong", KindAuthorization},
}

func (e SwapError) Error() string {
	if info, ok := swapErrors[e]; ok {
		return info.msg
	}
	return fmt.Sprintf("unknown swap error %d", uint32(e))
}

func (e SwapError) Kind() ErrorKind {
	return swapErrors[e].kind
}

func (e SwapError) Code() uint32 { return uint32(e) }
