package cmd

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	atlasswap "github.com/krazyTry/atlas-go/atlas_swap"
	spl "github.com/krazyTry/atlas-go/solana"
)

// poolContext is a pool record with the accounts it references.
type poolContext struct {
	key       solanago.PublicKey
	authority solanago.PublicKey
	globalKey solanago.PublicKey
	swap      atlasswap.SwapV1
	global    atlasswap.GlobalState

	reserveA, reserveB   *spl.Account
	mintA, mintB, mintLP *spl.Mint
}

func (s *simulator) loadPool(key solanago.PublicKey) (*poolContext, error) {
	swap, err := s.bank.Pool(key)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", key, err)
	}
	global, err := s.bank.GlobalState()
	if err != nil {
		return nil, fmt.Errorf("global state: %w", err)
	}
	p := &poolContext{key: key, swap: swap, global: global}
	if p.authority, _, err = atlasswap.DerivePoolAuthority(key, s.bank.ProgramID()); err != nil {
		return nil, err
	}
	if p.globalKey, err = atlasswap.DeriveGlobalStateAddress(s.bank.ProgramID()); err != nil {
		return nil, err
	}

	if p.reserveA, err = s.bank.TokenAccount(swap.TokenA); err != nil {
		return nil, err
	}
	if p.reserveB, err = s.bank.TokenAccount(swap.TokenB); err != nil {
		return nil, err
	}
	if p.mintA, err = s.bank.Mint(swap.TokenAMint); err != nil {
		return nil, err
	}
	if p.mintB, err = s.bank.Mint(swap.TokenBMint); err != nil {
		return nil, err
	}
	if p.mintLP, err = s.bank.Mint(swap.PoolMint); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *poolContext) view() poolView {
	return poolView{
		Address:    p.key.String(),
		Authority:  p.authority.String(),
		Curve:      p.swap.SwapCurve.String(),
		TokenA:     p.swap.TokenA.String(),
		TokenB:     p.swap.TokenB.String(),
		TokenAMint: p.swap.TokenAMint.String(),
		TokenBMint: p.swap.TokenBMint.String(),
		PoolMint:   p.swap.PoolMint.String(),
		ReserveA:   uiAmount(p.reserveA.Amount, p.mintA.Decimals),
		ReserveB:   uiAmount(p.reserveB.Amount, p.mintB.Decimals),
		LpSupply:   uiAmount(p.mintLP.Supply, p.mintLP.Decimals),
		SpotPrice:  atlasswap.SpotPrice(p.reserveA.Amount, p.reserveB.Amount, p.mintA.Decimals, p.mintB.Decimals).String(),
	}
}

func newCreatePoolCmd(s *simulator) *cobra.Command {
	var (
		funder, mintA, mintB string
		amountA, amountB     uint64
		curve                string
	)
	cmd := &cobra.Command{
		Use:   "create-pool",
		Short: "Create and initialize a pool funded from the funder's token accounts",
	}
	cmd.Flags().StringVar(&funder, "funder", "", "owner of the token accounts that fund the reserves")
	cmd.Flags().StringVar(&mintA, "mint-a", "", "token A mint")
	cmd.Flags().StringVar(&mintB, "mint-b", "", "token B mint")
	cmd.Flags().Uint64Var(&amountA, "amount-a", 0, "initial token A reserve, raw units")
	cmd.Flags().Uint64Var(&amountB, "amount-b", 0, "initial token B reserve, raw units")
	cmd.Flags().StringVar(&curve, "curve", "", "curve as Name or Name:parameter; empty uses the configured default")

	cmd.RunE = s.runE(func(cmd *cobra.Command, args []string) error {
		funderKey, err := parseKey("funder", funder)
		if err != nil {
			return err
		}
		mintAKey, err := parseKey("mint-a", mintA)
		if err != nil {
			return err
		}
		mintBKey, err := parseKey("mint-b", mintB)
		if err != nil {
			return err
		}
		swapCurve, err := parseCurve(curve)
		if err != nil {
			return err
		}
		global, err := s.bank.GlobalState()
		if err != nil {
			return fmt.Errorf("global state: %w (run configure first)", err)
		}

		pool := solanago.NewWallet().PublicKey()
		authority, _, err := atlasswap.DerivePoolAuthority(pool, s.bank.ProgramID())
		if err != nil {
			return err
		}
		globalKey, err := atlasswap.DeriveGlobalStateAddress(s.bank.ProgramID())
		if err != nil {
			return err
		}
		lpMint := solanago.NewWallet().PublicKey()
		reserveA := solanago.NewWallet().PublicKey()
		reserveB := solanago.NewWallet().PublicKey()

		if err := s.bank.CreateProgramAccount(pool, atlasswap.SwapStateLen); err != nil {
			return err
		}
		if err := s.bank.CreateMint(lpMint, authority, global.LpDecimals); err != nil {
			return err
		}
		for _, r := range []struct {
			key, mint solanago.PublicKey
			amount    uint64
		}{{reserveA, mintAKey, amountA}, {reserveB, mintBKey, amountB}} {
			if err := s.bank.CreateTokenAccount(r.key, r.mint, authority, 0); err != nil {
				return err
			}
			if r.amount == 0 {
				continue
			}
			source, err := spl.AssociatedTokenAddress(funderKey, r.mint)
			if err != nil {
				return err
			}
			ix := token.NewTransferInstruction(r.amount, source, r.key, funderKey, nil).Build()
			if err := s.bank.Execute(ix, funderKey); err != nil {
				return fmt.Errorf("fund reserve %s: %w", r.key, err)
			}
		}
		feeAccount, err := s.bank.EnsureTokenAccount(global.FeeOwner, lpMint)
		if err != nil {
			return err
		}
		destination, err := s.bank.EnsureTokenAccount(funderKey, lpMint)
		if err != nil {
			return err
		}

		ix := atlasswap.NewInitializeInstruction(s.bank.ProgramID(), atlasswap.InitializeAccounts{
			Pool:         pool,
			Authority:    authority,
			GlobalState:  globalKey,
			TokenA:       reserveA,
			TokenB:       reserveB,
			PoolMint:     lpMint,
			FeeAccount:   feeAccount,
			Destination:  destination,
			TokenProgram: s.bank.TokenProgramID(),
		}, atlasswap.Initialize{SwapCurve: swapCurve})
		if err := s.bank.Execute(ix); err != nil {
			return fmt.Errorf("initialize pool: %w", err)
		}
		s.log.Info("pool created", zap.Stringer("pool", pool), zap.Stringer("lp_mint", lpMint))

		p, err := s.loadPool(pool)
		if err != nil {
			return err
		}
		return s.print(p.view())
	})
	return cmd
}
