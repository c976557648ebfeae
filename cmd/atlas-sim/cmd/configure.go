package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	atlasswap "github.com/krazyTry/atlas-go/atlas_swap"
	"github.com/krazyTry/atlas-go/atlas_swap/shared"
)

func newConfigureCmd(s *simulator) *cobra.Command {
	var (
		signer, owner, feeOwner string
		initialSupply           uint64
		lpDecimals              uint8
		tradeFee, ownerFee      string
		hostFee                 uint64
		curve                   string
	)
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Write the global state, signed by its current owner",
	}
	cmd.Flags().StringVar(&signer, "signer", "", "current owner of the global state")
	cmd.Flags().StringVar(&owner, "owner", "", "new owner, defaults to the signer")
	cmd.Flags().StringVar(&feeOwner, "fee-owner", "", "owner of the accounts collecting owner fees, defaults to the signer")
	cmd.Flags().Uint64Var(&initialSupply, "initial-supply", shared.DefaultInitialLp, "pool tokens minted when a pool is initialized")
	cmd.Flags().Uint8Var(&lpDecimals, "lp-decimals", shared.DefaultLpDecimals, "decimals of new pool mints")
	cmd.Flags().StringVar(&tradeFee, "trade-fee", "25/10000", "trade fee kept by the pool")
	cmd.Flags().StringVar(&ownerFee, "owner-fee", "5/10000", "owner fee paid to the fee owner")
	cmd.Flags().Uint64Var(&hostFee, "host-fee", 20, "percentage of the owner fee paid to a host account")
	cmd.Flags().StringVar(&curve, "curve", "", "default curve as Name or Name:parameter; empty keeps the stored one")

	cmd.RunE = s.runE(func(cmd *cobra.Command, args []string) error {
		signerKey, err := parseKey("signer", signer)
		if err != nil {
			return err
		}
		ownerKey, feeOwnerKey := signerKey, signerKey
		if owner != "" {
			if ownerKey, err = parseKey("owner", owner); err != nil {
				return err
			}
		}
		if feeOwner != "" {
			if feeOwnerKey, err = parseKey("fee-owner", feeOwner); err != nil {
				return err
			}
		}
		fees, err := parseFees(tradeFee, ownerFee, hostFee)
		if err != nil {
			return err
		}
		swapCurve, err := parseCurve(curve)
		if err != nil {
			return err
		}

		global, err := atlasswap.DeriveGlobalStateAddress(s.bank.ProgramID())
		if err != nil {
			return err
		}
		ix := atlasswap.NewConfigureInstruction(s.bank.ProgramID(), atlasswap.ConfigureAccounts{
			GlobalState: global,
			Owner:       signerKey,
		}, atlasswap.Configure{
			Owner:         ownerKey,
			FeeOwner:      feeOwnerKey,
			InitialSupply: initialSupply,
			LpDecimals:    lpDecimals,
			Fees:          fees,
			SwapCurve:     swapCurve,
		})
		if err := s.bank.Execute(ix, signerKey); err != nil {
			return err
		}
		s.log.Info("configured", zap.Stringer("owner", ownerKey), zap.Stringer("fee_owner", feeOwnerKey))

		state, err := s.bank.GlobalState()
		if err != nil {
			return err
		}
		return s.print(newGlobalView(global, state))
	})
	return cmd
}
