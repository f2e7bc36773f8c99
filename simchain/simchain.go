// Package simchain implements the simulated EVM chain the deployment harness
// runs against: an in-process backend with a fixed set of funded signing
// identities.
package simchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
)

const (
	// ChainID is the chain ID used for the simulated chain. EVM simulated
	// chains always use 1337
	//
	// https://pkg.go.dev/github.com/ethereum/go-ethereum/ethclient/simulated#NewBackend
	ChainID = 1337
)

// Signer represents a signing identity with a private key. Each identity
// carries its own nonce state inside the node; callers must serialize usage
// of the same identity across in-flight calls.
type Signer struct {
	PrivateKey *ecdsa.PrivateKey
}

// NewSigner generates a fresh signing identity.
func NewSigner() (*Signer, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}

	return &Signer{PrivateKey: key}, nil
}

// Address extracts the address from the signer's private key.
func (s *Signer) Address() common.Address {
	return crypto.PubkeyToAddress(s.PrivateKey.PublicKey)
}

// NewTransactOpts creates transact options bound to the simulated chain ID.
func (s *Signer) NewTransactOpts() (*bind.TransactOpts, error) {
	return bind.NewKeyedTransactorWithChainID(s.PrivateKey, big.NewInt(ChainID))
}

// Accounts is the fixed set of identities provisioned for a test run: a
// primary deployer, two secondary identities, and an identity reserved for
// exit flows.
type Accounts struct {
	Primary *Signer
	Second  *Signer
	Third   *Signer
	Exit    *Signer
}

// All returns the provisioned identities in a stable order.
func (a Accounts) All() []*Signer {
	return []*Signer{a.Primary, a.Second, a.Third, a.Exit}
}

func newAccounts() (Accounts, error) {
	signers := make([]*Signer, 0, 4)
	for range 4 {
		s, err := NewSigner()
		if err != nil {
			return Accounts{}, err
		}

		signers = append(signers, s)
	}

	return Accounts{
		Primary: signers[0],
		Second:  signers[1],
		Third:   signers[2],
		Exit:    signers[3],
	}, nil
}

// Chain is a simulated chain with provisioned, funded signing identities.
type Chain struct {
	Backend  *simulated.Backend
	Accounts Accounts

	// SkipContractTests signals consuming test suites to skip tests that
	// need the chain. The effect is decided entirely by the consumer.
	SkipContractTests bool

	cfg Config
}

// New creates a simulated chain configured from the environment.
func New() (*Chain, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a simulated chain with four identities funded at the
// configured balance.
func NewWithConfig(cfg Config) (*Chain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simchain config: %w", err)
	}

	accounts, err := newAccounts()
	if err != nil {
		return nil, err
	}

	genesisAlloc := gethTypes.GenesisAlloc{}
	for _, s := range accounts.All() {
		genesisAlloc[s.Address()] = gethTypes.Account{
			Balance: new(big.Int).Set(cfg.Balance),
		}
	}

	backend := simulated.NewBackend(genesisAlloc,
		simulated.WithBlockGasLimit(cfg.GasLimit),
	)

	return &Chain{
		Backend:           backend,
		Accounts:          accounts,
		SkipContractTests: cfg.SkipContractTests,
		cfg:               cfg,
	}, nil
}

// Client returns a client that commits a block after every submitted
// transaction, so waiting for a receipt resolves immediately. The simulated
// backend only mines when told to.
func (c *Chain) Client() *Client {
	return &Client{
		Client:  c.Backend.Client(),
		backend: c.Backend,
	}
}

// GasLimit returns the configured block gas limit.
func (c *Chain) GasLimit() uint64 {
	return c.cfg.GasLimit
}

// Close shuts the simulated backend down.
func (c *Chain) Close() error {
	return c.Backend.Close()
}

// Client wraps the simulated backend's client with commit-on-send behavior.
type Client struct {
	simulated.Client

	backend *simulated.Backend
}

// SendTransaction submits the transaction and immediately commits a block
// containing it.
func (c *Client) SendTransaction(ctx context.Context, tx *gethTypes.Transaction) error {
	if err := c.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}

	c.backend.Commit()

	return nil
}
