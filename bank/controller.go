package bank

import (
	"context"
	"sync"

	"github.com/El-Merovingio/dapp-bank-ackee/common"
	"github.com/El-Merovingio/dapp-bank-ackee/ledger"
	"github.com/El-Merovingio/dapp-bank-ackee/storage"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("bank")

// Controller owns the locally cached view of known bank accounts and is the
// only writer of it. It sequences user intents into client calls and folds
// confirmed results back into the cache; a failed call leaves the cache at
// its last known good state.
type Controller struct {
	mu       sync.RWMutex
	client   *ledger.Client
	accounts *linkedhashmap.Map
	creates  map[common.Address]bool
	ops      map[common.Address]bool
	store    storage.Storage
}

// NewController builds a controller around client. store may be nil; when
// given, the last persisted snapshot is restored so callers see a stale but
// available view before the first listing completes.
func NewController(client *ledger.Client, store storage.Storage) *Controller {
	c := &Controller{
		client:   client,
		accounts: linkedhashmap.New(),
		creates:  make(map[common.Address]bool),
		ops:      make(map[common.Address]bool),
		store:    store,
	}
	if store != nil {
		if err := c.restore(); err != nil {
			log.Warningf("Can't restore account snapshot: %v", err)
		}
	}
	return c
}

// RequestCreate creates the signer's bank account. The fresh account is not
// merged into the cache directly; a full listing re-synchronizes instead, so
// the cache never diverges from what the ledger confirmed. DuplicateAccount
// comes back to the caller as is: informational, not fatal.
func (c *Controller) RequestCreate(ctx context.Context, label string, signer ledger.Signer) error {
	owner := signer.Identity()
	if err := c.acquire(c.creates, owner); err != nil {
		return err
	}
	account, err := c.client.Create(ctx, label, signer)
	c.release(c.creates, owner)

	switch errors.Cause(err) {
	case nil:
		log.Infof("Created bank %v for %v", account.Address(), owner)
	case ledger.DuplicateAccountError:
		log.Infof("Bank for %v already exists", owner)
	default:
		return err
	}
	if e := c.RequestList(ctx); e != nil {
		log.Warningf("Can't refresh accounts after create: %v", e)
	}
	return err
}

// RequestList replaces the whole cache with the remote enumeration. On
// failure the previous cache stays untouched.
func (c *Controller) RequestList(ctx context.Context) error {
	accounts, warnings, err := c.client.List(ctx)
	for _, w := range warnings {
		log.Warningf("Listing warning: %v", w)
	}
	if err != nil {
		return err
	}

	fresh := linkedhashmap.New()
	for _, account := range accounts {
		fresh.Put(account.Address().String(), account)
	}

	c.mu.Lock()
	c.accounts = fresh
	c.mu.Unlock()

	c.persist()
	return nil
}

// RequestDeposit moves amount into the bank at address and, once confirmed,
// adds the returned delta to the one cached balance. The delta comes from the
// operation result, never from an optimistic local guess.
func (c *Controller) RequestDeposit(ctx context.Context, address common.Address, amount uint64, signer ledger.Signer) error {
	if err := c.acquire(c.ops, address); err != nil {
		return err
	}
	defer c.release(c.ops, address)

	delta, err := c.client.Deposit(ctx, address, amount, signer)
	if err != nil {
		return err
	}
	c.updateBalance(address, func(balance uint64) uint64 { return balance + delta })
	return nil
}

// RequestWithdraw drains the bank at address to its reserve floor and pins
// the cached balance to the remaining floor balance the client reports.
func (c *Controller) RequestWithdraw(ctx context.Context, address common.Address, signer ledger.Signer) (uint64, error) {
	if err := c.acquire(c.ops, address); err != nil {
		return 0, err
	}
	defer c.release(c.ops, address)

	w, err := c.client.Withdraw(ctx, address, signer)
	if err != nil {
		return 0, err
	}
	c.updateBalance(address, func(uint64) uint64 { return w.Remaining })
	return w.Amount, nil
}

// Snapshot returns the cached accounts in enumeration order as copies. The
// display layer renders these; it never touches controller internals.
func (c *Controller) Snapshot() []*ledger.Account {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var accounts []*ledger.Account
	for _, v := range c.accounts.Values() {
		accounts = append(accounts, v.(*ledger.Account).Copy())
	}
	return accounts
}

func (c *Controller) acquire(inflight map[common.Address]bool, key common.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if inflight[key] {
		return errors.Wrapf(ledger.OperationInProgressError, "%v", key)
	}
	inflight[key] = true
	return nil
}

func (c *Controller) release(inflight map[common.Address]bool, key common.Address) {
	c.mu.Lock()
	delete(inflight, key)
	c.mu.Unlock()
}

func (c *Controller) updateBalance(address common.Address, f func(uint64) uint64) {
	c.mu.Lock()
	if v, found := c.accounts.Get(address.String()); found {
		account := v.(*ledger.Account)
		account.SetBalance(f(account.Balance()))
	}
	c.mu.Unlock()

	c.persist()
}
