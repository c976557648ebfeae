package atlasswap

import (
	solanago "github.com/gagliardetto/solana-go"
)

type ConfigureAccounts struct {
	GlobalState solanago.PublicKey
	Owner       solanago.PublicKey
}

type InitializeAccounts struct {
	Pool         solanago.PublicKey
	Authority    solanago.PublicKey
	GlobalState  solanago.PublicKey
	TokenA       solanago.PublicKey
	TokenB       solanago.PublicKey
	PoolMint     solanago.PublicKey
	FeeAccount   solanago.PublicKey
	Destination  solanago.PublicKey
	TokenProgram solanago.PublicKey
}

type SwapAccounts struct {
	Pool                  solanago.PublicKey
	Authority             solanago.PublicKey
	UserTransferAuthority solanago.PublicKey
	GlobalState           solanago.PublicKey
	Source                solanago.PublicKey
	SwapSource            solanago.PublicKey
	SwapDestination       solanago.PublicKey
	Destination           solanago.PublicKey
	PoolMint              solanago.PublicKey
	FeeAccount            solanago.PublicKey
	TokenProgram          solanago.PublicKey
	// Optional account receiving the host share of the owner fee.
	HostFeeAccount *solanago.PublicKey
}

type DepositAccounts struct {
	Pool                  solanago.PublicKey
	Authority             solanago.PublicKey
	GlobalState           solanago.PublicKey
	UserTransferAuthority solanago.PublicKey
	SourceA               solanago.PublicKey
	SourceB               solanago.PublicKey
	TokenA                solanago.PublicKey
	TokenB                solanago.PublicKey
	PoolMint              solanago.PublicKey
	Destination           solanago.PublicKey
	TokenProgram          solanago.PublicKey
}

type WithdrawAccounts struct {
	Pool                  solanago.PublicKey
	Authority             solanago.PublicKey
	GlobalState           solanago.PublicKey
	UserTransferAuthority solanago.PublicKey
	PoolMint              solanago.PublicKey
	Source                solanago.PublicKey
	TokenA                solanago.PublicKey
	TokenB                solanago.PublicKey
	DestinationA          solanago.PublicKey
	DestinationB          solanago.PublicKey
	TokenProgram          solanago.PublicKey
}

func readonly(key solanago.PublicKey) *solanago.AccountMeta {
	return solanago.NewAccountMeta(key, false, false)
}

func writable(key solanago.PublicKey) *solanago.AccountMeta {
	return solanago.NewAccountMeta(key, true, false)
}

func signer(key solanago.PublicKey) *solanago.AccountMeta {
	return solanago.NewAccountMeta(key, false, true)
}

func NewConfigureInstruction(programID solanago.PublicKey, accounts ConfigureAccounts, data Configure) solanago.Instruction {
	return solanago.NewInstruction(programID, solanago.AccountMetaSlice{
		writable(accounts.GlobalState),
		signer(accounts.Owner),
		readonly(solanago.SystemProgramID),
		readonly(solanago.SysVarRentPubkey),
	}, data.Encode())
}

func NewInitializeInstruction(programID solanago.PublicKey, accounts InitializeAccounts, data Initialize) solanago.Instruction {
	return solanago.NewInstruction(programID, solanago.AccountMetaSlice{
		writable(accounts.Pool),
		readonly(accounts.Authority),
		readonly(accounts.GlobalState),
		readonly(accounts.TokenA),
		readonly(accounts.TokenB),
		writable(accounts.PoolMint),
		readonly(accounts.FeeAccount),
		writable(accounts.Destination),
		readonly(accounts.TokenProgram),
	}, data.Encode())
}

func NewSwapInstruction(programID solanago.PublicKey, accounts SwapAccounts, data Swap) solanago.Instruction {
	metas := solanago.AccountMetaSlice{
		readonly(accounts.Pool),
		readonly(accounts.Authority),
		signer(accounts.UserTransferAuthority),
		readonly(accounts.GlobalState),
		writable(accounts.Source),
		writable(accounts.SwapSource),
		writable(accounts.SwapDestination),
		writable(accounts.Destination),
		writable(accounts.PoolMint),
		writable(accounts.FeeAccount),
		readonly(accounts.TokenProgram),
	}
	if accounts.HostFeeAccount != nil {
		metas = append(metas, writable(*accounts.HostFeeAccount))
	}
	return solanago.NewInstruction(programID, metas, data.Encode())
}

func NewDepositAllTokenTypesInstruction(programID solanago.PublicKey, accounts DepositAccounts, data DepositAllTokenTypes) solanago.Instruction {
	return solanago.NewInstruction(programID, solanago.AccountMetaSlice{
		readonly(accounts.Pool),
		readonly(accounts.Authority),
		readonly(accounts.GlobalState),
		signer(accounts.UserTransferAuthority),
		writable(accounts.SourceA),
		writable(accounts.SourceB),
		writable(accounts.TokenA),
		writable(accounts.TokenB),
		writable(accounts.PoolMint),
		writable(accounts.Destination),
		readonly(accounts.TokenProgram),
	}, data.Encode())
}

func NewWithdrawAllTokenTypesInstruction(programID solanago.PublicKey, accounts WithdrawAccounts, data WithdrawAllTokenTypes) solanago.Instruction {
	return solanago.NewInstruction(programID, solanago.AccountMetaSlice{
		readonly(accounts.Pool),
		readonly(accounts.Authority),
		readonly(accounts.GlobalState),
		signer(accounts.UserTransferAuthority),
		writable(accounts.PoolMint),
		writable(accounts.Source),
		writable(accounts.TokenA),
		writable(accounts.TokenB),
		writable(accounts.DestinationA),
		writable(accounts.DestinationB),
		readonly(accounts.TokenProgram),
	}, data.Encode())
}
