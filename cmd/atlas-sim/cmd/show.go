package cmd

import (
	"github.com/spf13/cobra"

	atlasswap "github.com/krazyTry/atlas-go/atlas_swap"
	spl "github.com/krazyTry/atlas-go/solana"
)

type balanceView struct {
	Address string `json:"address"`
	Owner   string `json:"owner"`
	Mint    string `json:"mint"`
	Amount  uint64 `json:"amount"`
	UI      string `json:"ui_amount"`
}

func newShowCmd(s *simulator) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print stored records",
	}

	global := &cobra.Command{
		Use:   "global",
		Short: "Print the global state",
		Args:  cobra.NoArgs,
		RunE: s.runE(func(cmd *cobra.Command, args []string) error {
			addr, err := atlasswap.DeriveGlobalStateAddress(s.bank.ProgramID())
			if err != nil {
				return err
			}
			state, err := s.bank.GlobalState()
			if err != nil {
				return err
			}
			return s.print(newGlobalView(addr, state))
		}),
	}

	pool := &cobra.Command{
		Use:   "pool <address>",
		Short: "Print a pool with its reserves",
		Args:  cobra.ExactArgs(1),
		RunE: s.runE(func(cmd *cobra.Command, args []string) error {
			key, err := parseKey("pool", args[0])
			if err != nil {
				return err
			}
			p, err := s.loadPool(key)
			if err != nil {
				return err
			}
			return s.print(p.view())
		}),
	}

	var owner, mint string
	balance := &cobra.Command{
		Use:   "balance",
		Short: "Print the associated token account of an owner",
		Args:  cobra.NoArgs,
		RunE: s.runE(func(cmd *cobra.Command, args []string) error {
			ownerKey, err := parseKey("owner", owner)
			if err != nil {
				return err
			}
			mintKey, err := parseKey("mint", mint)
			if err != nil {
				return err
			}
			ata, err := spl.AssociatedTokenAddress(ownerKey, mintKey)
			if err != nil {
				return err
			}
			acct, err := s.bank.TokenAccount(ata)
			if err != nil {
				return err
			}
			m, err := s.bank.Mint(mintKey)
			if err != nil {
				return err
			}
			return s.print(balanceView{
				Address: ata.String(),
				Owner:   acct.Owner.String(),
				Mint:    acct.Mint.String(),
				Amount:  acct.Amount,
				UI:      uiAmount(acct.Amount, m.Decimals),
			})
		}),
	}
	balance.Flags().StringVar(&owner, "owner", "", "token account owner")
	balance.Flags().StringVar(&mint, "mint", "", "token mint")

	cmd.AddCommand(global, pool, balance)
	return cmd
}
