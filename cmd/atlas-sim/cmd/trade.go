package cmd

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	atlasswap "github.com/krazyTry/atlas-go/atlas_swap"
	"github.com/krazyTry/atlas-go/atlas_swap/shared"
	spl "github.com/krazyTry/atlas-go/solana"
)

type swapReport struct {
	Direction        string   `json:"direction"`
	AmountIn         uint64   `json:"amount_in"`
	QuotedAmountOut  uint64   `json:"quoted_amount_out"`
	MinimumAmountOut uint64   `json:"minimum_amount_out"`
	TradeFee         uint64   `json:"trade_fee"`
	OwnerFee         uint64   `json:"owner_fee"`
	PriceImpact      string   `json:"price_impact_percent"`
	Received         uint64   `json:"received"`
	Pool             poolView `json:"pool"`
}

func (s *simulator) balance(key solanago.PublicKey) (uint64, error) {
	acct, err := s.bank.TokenAccount(key)
	if err != nil {
		return 0, err
	}
	return acct.Amount, nil
}

func newSwapCmd(s *simulator) *cobra.Command {
	var (
		pool, user, fromMint, host string
		amount                     uint64
		slippageBps                uint16
	)
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Swap through a pool from the user's associated token accounts",
	}
	cmd.Flags().StringVar(&pool, "pool", "", "pool address")
	cmd.Flags().StringVar(&user, "user", "", "trader, signs the transfer")
	cmd.Flags().StringVar(&fromMint, "from-mint", "", "mint of the token sold")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "amount sold, raw units")
	cmd.Flags().Uint16Var(&slippageBps, "slippage-bps", 50, "accepted slippage below the quote")
	cmd.Flags().StringVar(&host, "host", "", "owner of a host fee account, optional")

	cmd.RunE = s.runE(func(cmd *cobra.Command, args []string) error {
		poolKey, err := parseKey("pool", pool)
		if err != nil {
			return err
		}
		userKey, err := parseKey("user", user)
		if err != nil {
			return err
		}
		fromKey, err := parseKey("from-mint", fromMint)
		if err != nil {
			return err
		}
		p, err := s.loadPool(poolKey)
		if err != nil {
			return err
		}

		direction := shared.TradeDirectionAtoB
		swapSource, swapDestination := p.swap.TokenA, p.swap.TokenB
		reserveIn, reserveOut := p.reserveA.Amount, p.reserveB.Amount
		toKey := p.swap.TokenBMint
		switch fromKey {
		case p.swap.TokenAMint:
		case p.swap.TokenBMint:
			direction = shared.TradeDirectionBtoA
			swapSource, swapDestination = swapDestination, swapSource
			reserveIn, reserveOut = reserveOut, reserveIn
			toKey = p.swap.TokenAMint
		default:
			return fmt.Errorf("mint %s is not traded by pool %s", fromKey, poolKey)
		}

		quote, err := atlasswap.GetSwapQuote(p.swap.SwapCurve, p.global.Fees, amount, reserveIn, reserveOut, direction, slippageBps)
		if err != nil {
			return err
		}

		source, err := spl.AssociatedTokenAddress(userKey, fromKey)
		if err != nil {
			return err
		}
		destination, err := s.bank.EnsureTokenAccount(userKey, toKey)
		if err != nil {
			return err
		}
		feeAccount, err := s.bank.EnsureTokenAccount(p.global.FeeOwner, toKey)
		if err != nil {
			return err
		}
		var hostAccount *solanago.PublicKey
		if host != "" {
			hostKey, err := parseKey("host", host)
			if err != nil {
				return err
			}
			ata, err := s.bank.EnsureTokenAccount(hostKey, toKey)
			if err != nil {
				return err
			}
			hostAccount = &ata
		}
		before, err := s.balance(destination)
		if err != nil {
			return err
		}

		ix := atlasswap.NewSwapInstruction(s.bank.ProgramID(), atlasswap.SwapAccounts{
			Pool:                  poolKey,
			Authority:             p.authority,
			UserTransferAuthority: userKey,
			GlobalState:           p.globalKey,
			Source:                source,
			SwapSource:            swapSource,
			SwapDestination:       swapDestination,
			Destination:           destination,
			PoolMint:              p.swap.PoolMint,
			FeeAccount:            feeAccount,
			TokenProgram:          p.swap.TokenProgramID,
			HostFeeAccount:        hostAccount,
		}, atlasswap.Swap{AmountIn: amount, MinimumAmountOut: quote.MinimumAmountOut})
		if err := s.bank.Execute(ix, userKey); err != nil {
			return err
		}

		after, err := s.balance(destination)
		if err != nil {
			return err
		}
		if p, err = s.loadPool(poolKey); err != nil {
			return err
		}
		s.log.Info("swapped", zap.Stringer("pool", poolKey), zap.Uint64("received", after-before))
		return s.print(swapReport{
			Direction:        direction.String(),
			AmountIn:         quote.AmountIn,
			QuotedAmountOut:  quote.AmountOut,
			MinimumAmountOut: quote.MinimumAmountOut,
			TradeFee:         quote.TradeFee,
			OwnerFee:         quote.OwnerFee,
			PriceImpact:      quote.PriceImpact.StringFixed(4),
			Received:         after - before,
			Pool:             p.view(),
		})
	})
	return cmd
}

func newDepositCmd(s *simulator) *cobra.Command {
	var (
		pool, user       string
		amountA, amountB uint64
		slippageBps      uint16
	)
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Deposit both tokens and receive pool tokens",
	}
	cmd.Flags().StringVar(&pool, "pool", "", "pool address")
	cmd.Flags().StringVar(&user, "user", "", "depositor, signs the transfers")
	cmd.Flags().Uint64Var(&amountA, "amount-a", 0, "token A deposited, raw units")
	cmd.Flags().Uint64Var(&amountB, "amount-b", 0, "token B deposited, raw units")
	cmd.Flags().Uint16Var(&slippageBps, "slippage-bps", 50, "accepted shortfall of pool tokens below the quote")

	cmd.RunE = s.runE(func(cmd *cobra.Command, args []string) error {
		poolKey, err := parseKey("pool", pool)
		if err != nil {
			return err
		}
		userKey, err := parseKey("user", user)
		if err != nil {
			return err
		}
		p, err := s.loadPool(poolKey)
		if err != nil {
			return err
		}
		lp, err := atlasswap.GetDepositQuote(p.swap.SwapCurve, amountA, amountB, p.mintLP.Supply, p.reserveA.Amount, p.reserveB.Amount)
		if err != nil {
			return err
		}
		minimum := max(atlasswap.GetAmountWithSlippage(lp, slippageBps), 1)

		sourceA, err := spl.AssociatedTokenAddress(userKey, p.swap.TokenAMint)
		if err != nil {
			return err
		}
		sourceB, err := spl.AssociatedTokenAddress(userKey, p.swap.TokenBMint)
		if err != nil {
			return err
		}
		destination, err := s.bank.EnsureTokenAccount(userKey, p.swap.PoolMint)
		if err != nil {
			return err
		}

		ix := atlasswap.NewDepositAllTokenTypesInstruction(s.bank.ProgramID(), atlasswap.DepositAccounts{
			Pool:                  poolKey,
			Authority:             p.authority,
			GlobalState:           p.globalKey,
			UserTransferAuthority: userKey,
			SourceA:               sourceA,
			SourceB:               sourceB,
			TokenA:                p.swap.TokenA,
			TokenB:                p.swap.TokenB,
			PoolMint:              p.swap.PoolMint,
			Destination:           destination,
			TokenProgram:          p.swap.TokenProgramID,
		}, atlasswap.DepositAllTokenTypes{
			PoolTokenAmount:     minimum,
			MaximumTokenAAmount: amountA,
			MaximumTokenBAmount: amountB,
		})
		if err := s.bank.Execute(ix, userKey); err != nil {
			return err
		}
		s.log.Info("deposited", zap.Stringer("pool", poolKey), zap.Uint64("pool_tokens", lp))

		if p, err = s.loadPool(poolKey); err != nil {
			return err
		}
		return s.print(p.view())
	})
	return cmd
}

func newWithdrawCmd(s *simulator) *cobra.Command {
	var (
		pool, user  string
		poolTokens  uint64
		slippageBps uint16
	)
	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Burn pool tokens for both reserve tokens",
	}
	cmd.Flags().StringVar(&pool, "pool", "", "pool address")
	cmd.Flags().StringVar(&user, "user", "", "holder of the pool tokens, signs the burn")
	cmd.Flags().Uint64Var(&poolTokens, "pool-tokens", 0, "pool tokens to burn, raw units")
	cmd.Flags().Uint16Var(&slippageBps, "slippage-bps", 50, "accepted shortfall of each side below the quote")

	cmd.RunE = s.runE(func(cmd *cobra.Command, args []string) error {
		poolKey, err := parseKey("pool", pool)
		if err != nil {
			return err
		}
		userKey, err := parseKey("user", user)
		if err != nil {
			return err
		}
		p, err := s.loadPool(poolKey)
		if err != nil {
			return err
		}
		quote, err := atlasswap.GetWithdrawQuote(p.swap.SwapCurve, poolTokens, p.mintLP.Supply,
			p.reserveA.Amount, p.reserveB.Amount, s.bank.Constraints().MinLpSupply)
		if err != nil {
			return err
		}

		source, err := spl.AssociatedTokenAddress(userKey, p.swap.PoolMint)
		if err != nil {
			return err
		}
		destA, err := s.bank.EnsureTokenAccount(userKey, p.swap.TokenAMint)
		if err != nil {
			return err
		}
		destB, err := s.bank.EnsureTokenAccount(userKey, p.swap.TokenBMint)
		if err != nil {
			return err
		}

		ix := atlasswap.NewWithdrawAllTokenTypesInstruction(s.bank.ProgramID(), atlasswap.WithdrawAccounts{
			Pool:                  poolKey,
			Authority:             p.authority,
			GlobalState:           p.globalKey,
			UserTransferAuthority: userKey,
			PoolMint:              p.swap.PoolMint,
			Source:                source,
			TokenA:                p.swap.TokenA,
			TokenB:                p.swap.TokenB,
			DestinationA:          destA,
			DestinationB:          destB,
			TokenProgram:          p.swap.TokenProgramID,
		}, atlasswap.WithdrawAllTokenTypes{
			PoolTokenAmount:     poolTokens,
			MinimumTokenAAmount: atlasswap.GetAmountWithSlippage(quote.TokenAAmount, slippageBps),
			MinimumTokenBAmount: atlasswap.GetAmountWithSlippage(quote.TokenBAmount, slippageBps),
		})
		if err := s.bank.Execute(ix, userKey); err != nil {
			return err
		}
		s.log.Info("withdrew", zap.Stringer("pool", poolKey), zap.Uint64("pool_tokens", quote.PoolTokenAmount))

		if p, err = s.loadPool(poolKey); err != nil {
			return err
		}
		return s.print(p.view())
	})
	return cmd
}
