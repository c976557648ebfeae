package runtime

import (
	"bytes"
	bin "encoding/binary"
	"errors"
	"fmt"
	"sync"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/syndtr/goleveldb/leveldb"
)

var ErrNotFound = errors.New("account not found")

// Account is a stored account.
type Account struct {
	Owner    solanago.PublicKey
	Lamports uint64
	Data     []byte
}

func (a *Account) clone() *Account {
	return &Account{Owner: a.Owner, Lamports: a.Lamports, Data: bytes.Clone(a.Data)}
}

// Store persists accounts by address.
type Store interface {
	Get(key solanago.PublicKey) (*Account, error)
	Put(key solanago.PublicKey, acct *Account) error
	ForEach(fn func(key solanago.PublicKey, acct *Account) error) error
}

// MemStore keeps accounts in memory.
type MemStore struct {
	mu       sync.RWMutex
	accounts map[solanago.PublicKey]*Account
}

func NewMemStore() *MemStore {
	return &MemStore{accounts: make(map[solanago.PublicKey]*Account)}
}

func (s *MemStore) Get(key solanago.PublicKey) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[key]
	if !ok {
		return nil, ErrNotFound
	}
	return acct.clone(), nil
}

func (s *MemStore) Put(key solanago.PublicKey, acct *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[key] = acct.clone()
	return nil
}

func (s *MemStore) ForEach(fn func(key solanago.PublicKey, acct *Account) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key, acct := range s.accounts {
		if err := fn(key, acct.clone()); err != nil {
			return err
		}
	}
	return nil
}

// LevelStore keeps accounts in a goleveldb database keyed by address.
type LevelStore struct {
	db *leveldb.DB
}

func OpenLevelStore(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open account db %s: %w", path, err)
	}
	return &LevelStore{db: db}, nil
}

func (s *LevelStore) Close() error { return s.db.Close() }

func (s *LevelStore) Get(key solanago.PublicKey) (*Account, error) {
	raw, err := s.db.Get(key.Bytes(), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeAccount(raw)
}

func (s *LevelStore) Put(key solanago.PublicKey, acct *Account) error {
	return s.db.Put(key.Bytes(), encodeAccount(acct), nil)
}

func (s *LevelStore) ForEach(fn func(key solanago.PublicKey, acct *Account) error) error {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		if len(iter.Key()) != solanago.PublicKeyLength {
			continue
		}
		acct, err := decodeAccount(iter.Value())
		if err != nil {
			return err
		}
		if err := fn(solanago.PublicKeyFromBytes(iter.Key()), acct); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Stored layout: owner (32) | lamports (8) | data.
const accountHeaderLen = solanago.PublicKeyLength + 8

func encodeAccount(acct *Account) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, accountHeaderLen+len(acct.Data)))
	enc := binary.NewBinEncoder(buf)
	_ = enc.WriteBytes(acct.Owner.Bytes(), false)
	_ = enc.WriteUint64(acct.Lamports, bin.LittleEndian)
	_ = enc.WriteBytes(acct.Data, false)
	return buf.Bytes()
}

func decodeAccount(raw []byte) (*Account, error) {
	if len(raw) < accountHeaderLen {
		return nil, fmt.Errorf("stored account: short record (%d bytes)", len(raw))
	}
	dec := binary.NewBinDecoder(raw)
	owner, err := dec.ReadNBytes(solanago.PublicKeyLength)
	if err != nil {
		return nil, err
	}
	lamports, err := dec.ReadUint64(bin.LittleEndian)
	if err != nil {
		return nil, err
	}
	return &Account{
		Owner:    solanago.PublicKeyFromBytes(owner),
		Lamports: lamports,
		Data:     bytes.Clone(raw[accountHeaderLen:]),
	}, nil
}
