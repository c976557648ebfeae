package runtime

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	solanago "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	atlasswap "github.com/krazyTry/atlas-go/atlas_swap"
)

var (
	ErrMissingSignature  = errors.New("runtime: missing required signature")
	ErrUnknownProgram    = errors.New("runtime: unknown program")
	ErrAccountNotInTx    = errors.New("runtime: account not passed to the transaction")
	ErrReadonlyModified  = errors.New("runtime: read-only account modified")
	ErrAccountInUse      = errors.New("runtime: account already in use")
	ErrInvalidSeeds      = errors.New("runtime: seeds do not derive the account")
	ErrInvalidAllocation = errors.New("runtime: invalid allocation")
)

// Bank holds the account store and executes requests against it one at a
// time. A request runs on private copies of the accounts it names; the
// copies are written back only when the request succeeds.
type Bank struct {
	mu             sync.Mutex
	store          Store
	programID      solanago.PublicKey
	tokenProgramID solanago.PublicKey
	constraints    *atlasswap.SwapConstraints
	log            *zap.Logger
	deriver        atlasswap.SolanaDeriver
}

type BankOption func(*Bank)

func WithConstraints(c *atlasswap.SwapConstraints) BankOption {
	return func(b *Bank) { b.constraints = c }
}

func WithLogger(l *zap.Logger) BankOption {
	return func(b *Bank) { b.log = l }
}

func WithTokenProgram(id solanago.PublicKey) BankOption {
	return func(b *Bank) { b.tokenProgramID = id }
}

func NewBank(store Store, programID solanago.PublicKey, opts ...BankOption) *Bank {
	b := &Bank{
		store:          store,
		programID:      programID,
		tokenProgramID: solanago.TokenProgramID,
		constraints:    atlasswap.DefaultConstraints(),
		log:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bank) ProgramID() solanago.PublicKey      { return b.programID }
func (b *Bank) TokenProgramID() solanago.PublicKey { return b.tokenProgramID }
func (b *Bank) Store() Store                       { return b.store }

func (b *Bank) Constraints() *atlasswap.SwapConstraints { return b.constraints }

// Execute runs ix atomically. signers lists the keys that signed the
// request; every meta flagged as signer must be among them.
func (b *Bank) Execute(ix solanago.Instruction, signers ...solanago.PublicKey) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.begin(ix.Accounts(), signers)
	if err != nil {
		return err
	}
	data, err := ix.Data()
	if err != nil {
		return fmt.Errorf("instruction data: %w", err)
	}

	switch ix.ProgramID() {
	case b.programID:
		proc := atlasswap.NewProcessor(b.programID, tx,
			atlasswap.WithConstraints(b.constraints),
			atlasswap.WithLogger(b.log),
		)
		err = proc.Process(tx.infos, data)
	case b.tokenProgramID:
		err = tx.processToken(ix.ProgramID(), ix.Accounts(), data, nil)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownProgram, ix.ProgramID())
	}
	if err != nil {
		b.log.Debug("rollback", zap.Stringer("program", ix.ProgramID()), zap.Error(err))
		return err
	}
	return tx.commit()
}

func (b *Bank) begin(metas []*solanago.AccountMeta, signers []solanago.PublicKey) (*txContext, error) {
	signed := make(map[solanago.PublicKey]bool, len(signers))
	for _, s := range signers {
		signed[s] = true
	}
	tx := &txContext{
		bank:     b,
		accounts: make(map[solanago.PublicKey]*atlasswap.AccountInfo, len(metas)),
		original: make(map[solanago.PublicKey]*Account, len(metas)),
		infos:    make([]*atlasswap.AccountInfo, 0, len(metas)),
	}
	for _, meta := range metas {
		if meta.IsSigner && !signed[meta.PublicKey] {
			return nil, fmt.Errorf("%w: %s", ErrMissingSignature, meta.PublicKey)
		}
		info, ok := tx.accounts[meta.PublicKey]
		if !ok {
			acct, err := b.store.Get(meta.PublicKey)
			switch {
			case errors.Is(err, ErrNotFound):
				acct = &Account{Owner: solanago.SystemProgramID}
			case err != nil:
				return nil, err
			}
			tx.original[meta.PublicKey] = acct.clone()
			info = &atlasswap.AccountInfo{
				Key:      meta.PublicKey,
				Owner:    acct.Owner,
				Lamports: acct.Lamports,
				Data:     acct.Data,
			}
			tx.accounts[meta.PublicKey] = info
			tx.order = append(tx.order, meta.PublicKey)
		}
		info.IsSigner = info.IsSigner || meta.IsSigner
		info.IsWritable = info.IsWritable || meta.IsWritable
		tx.infos = append(tx.infos, info)
	}
	return tx, nil
}

// txContext is the per-request host handed to the processor.
type txContext struct {
	bank     *Bank
	accounts map[solanago.PublicKey]*atlasswap.AccountInfo
	original map[solanago.PublicKey]*Account
	order    []solanago.PublicKey
	infos    []*atlasswap.AccountInfo
}

func (tx *txContext) CreateProgramAddress(seeds [][]byte, programID solanago.PublicKey) (solanago.PublicKey, error) {
	return tx.bank.deriver.CreateProgramAddress(seeds, programID)
}

func (tx *txContext) FindProgramAddress(seeds [][]byte, programID solanago.PublicKey) (solanago.PublicKey, uint8, error) {
	return tx.bank.deriver.FindProgramAddress(seeds, programID)
}

// InvokeSigned runs a token instruction issued by the program. Addresses
// derived from signerSeeds count as signers.
func (tx *txContext) InvokeSigned(ix solanago.Instruction, signerSeeds [][][]byte) error {
	pdas := make(map[solanago.PublicKey]bool, len(signerSeeds))
	for _, seeds := range signerSeeds {
		key, err := tx.CreateProgramAddress(seeds, tx.bank.programID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSeeds, err)
		}
		pdas[key] = true
	}
	if ix.ProgramID() != tx.bank.tokenProgramID {
		return fmt.Errorf("%w: %s", ErrUnknownProgram, ix.ProgramID())
	}
	data, err := ix.Data()
	if err != nil {
		return err
	}
	return tx.processToken(ix.ProgramID(), ix.Accounts(), data, pdas)
}

// Allocate sizes a fresh account and assigns it to owner. The seeds must
// derive the account's address under the calling program.
func (tx *txContext) Allocate(account *atlasswap.AccountInfo, space int, owner solanago.PublicKey, signerSeeds [][]byte) error {
	key, err := tx.CreateProgramAddress(signerSeeds, tx.bank.programID)
	if err != nil || key != account.Key {
		return ErrInvalidSeeds
	}
	if !account.IsWritable {
		return ErrReadonlyModified
	}
	if len(account.Data) != 0 || account.Owner != solanago.SystemProgramID {
		return ErrAccountInUse
	}
	if space <= 0 {
		return ErrInvalidAllocation
	}
	account.Data = make([]byte, space)
	account.Owner = owner
	return nil
}

func (tx *txContext) lookup(key solanago.PublicKey) (*atlasswap.AccountInfo, error) {
	info, ok := tx.accounts[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotInTx, key)
	}
	return info, nil
}

func (tx *txContext) commit() error {
	changed := make([]solanago.PublicKey, 0, len(tx.order))
	for _, key := range tx.order {
		info, orig := tx.accounts[key], tx.original[key]
		if info.Owner == orig.Owner && info.Lamports == orig.Lamports && bytes.Equal(info.Data, orig.Data) {
			continue
		}
		if !info.IsWritable {
			tx.bank.log.Debug("rollback", zap.Stringer("account", key), zap.Error(ErrReadonlyModified))
			return fmt.Errorf("%w: %s", ErrReadonlyModified, key)
		}
		changed = append(changed, key)
	}
	for _, key := range changed {
		info := tx.accounts[key]
		if err := tx.bank.store.Put(key, &Account{Owner: info.Owner, Lamports: info.Lamports, Data: info.Data}); err != nil {
			return fmt.Errorf("commit %s: %w", key, err)
		}
	}
	tx.bank.log.Debug("commit", zap.Int("accounts", len(changed)))
	return nil
}
