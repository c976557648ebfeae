package cmd

import (
	"errors"
	"fmt"
	"os"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	spl "github.com/krazyTry/atlas-go/solana"
)

// A seed file declares mints and funded token accounts:
//
//	{
//	  "mints": [{"name": "usdc", "decimals": 6, "address": "...", "authority": "..."}],
//	  "accounts": [{"owner": "...", "mint": "usdc", "amount": 1000000}]
//	}
//
// Mint address and authority are optional. An account's mint is either a
// mint name from the same file or an address.
type seedMint struct {
	Name      string
	Address   solanago.PublicKey
	Authority solanago.PublicKey
	Decimals  uint8
}

type seedAccount struct {
	Owner  solanago.PublicKey
	Mint   string
	Amount uint64
}

type seedFile struct {
	Mints    []seedMint
	Accounts []seedAccount
}

func optionalKey(r gjson.Result) (solanago.PublicKey, error) {
	if !r.Exists() || r.String() == "" {
		return solanago.NewWallet().PublicKey(), nil
	}
	return solanago.PublicKeyFromBase58(r.String())
}

func parseSeed(raw []byte) (*seedFile, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("seed: invalid JSON")
	}
	doc := gjson.ParseBytes(raw)
	out := &seedFile{}

	var err error
	doc.Get("mints").ForEach(func(_, m gjson.Result) bool {
		mint := seedMint{Name: m.Get("name").String(), Decimals: uint8(m.Get("decimals").Uint())}
		if mint.Name == "" {
			err = errors.New("seed: mint without a name")
			return false
		}
		if mint.Address, err = optionalKey(m.Get("address")); err != nil {
			err = fmt.Errorf("seed: mint %s address: %w", mint.Name, err)
			return false
		}
		if mint.Authority, err = optionalKey(m.Get("authority")); err != nil {
			err = fmt.Errorf("seed: mint %s authority: %w", mint.Name, err)
			return false
		}
		out.Mints = append(out.Mints, mint)
		return true
	})
	if err != nil {
		return nil, err
	}

	doc.Get("accounts").ForEach(func(_, a gjson.Result) bool {
		var owner solanago.PublicKey
		if owner, err = solanago.PublicKeyFromBase58(a.Get("owner").String()); err != nil {
			err = fmt.Errorf("seed: account owner: %w", err)
			return false
		}
		out.Accounts = append(out.Accounts, seedAccount{
			Owner:  owner,
			Mint:   a.Get("mint").String(),
			Amount: a.Get("amount").Uint(),
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (sf *seedFile) resolveMint(name string) (solanago.PublicKey, error) {
	for _, m := range sf.Mints {
		if m.Name == name {
			return m.Address, nil
		}
	}
	key, err := solanago.PublicKeyFromBase58(name)
	if err != nil {
		return solanago.PublicKey{}, fmt.Errorf("seed: unknown mint %q", name)
	}
	return key, nil
}

type seedReport struct {
	Mints    map[string]string `json:"mints"`
	Accounts []seedAccountView `json:"accounts"`
}

type seedAccountView struct {
	Address string `json:"address"`
	Owner   string `json:"owner"`
	Mint    string `json:"mint"`
	Amount  uint64 `json:"amount"`
}

func newSeedCmd(s *simulator) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.json>",
		Short: "Create the mints and funded token accounts declared in a seed file",
		Args:  cobra.ExactArgs(1),
		RunE: s.runE(func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			sf, err := parseSeed(raw)
			if err != nil {
				return err
			}

			report := seedReport{Mints: make(map[string]string, len(sf.Mints))}
			for _, m := range sf.Mints {
				if err := s.bank.CreateMint(m.Address, m.Authority, m.Decimals); err != nil {
					return fmt.Errorf("mint %s: %w", m.Name, err)
				}
				report.Mints[m.Name] = m.Address.String()
			}
			for _, a := range sf.Accounts {
				mint, err := sf.resolveMint(a.Mint)
				if err != nil {
					return err
				}
				ata, err := spl.AssociatedTokenAddress(a.Owner, mint)
				if err != nil {
					return err
				}
				if err := s.bank.CreateTokenAccount(ata, mint, a.Owner, a.Amount); err != nil {
					return fmt.Errorf("token account %s: %w", ata, err)
				}
				report.Accounts = append(report.Accounts, seedAccountView{
					Address: ata.String(),
					Owner:   a.Owner.String(),
					Mint:    mint.String(),
					Amount:  a.Amount,
				})
			}
			s.log.Info("seeded", zap.Int("mints", len(sf.Mints)), zap.Int("accounts", len(sf.Accounts)))
			return s.print(report)
		}),
	}
}
