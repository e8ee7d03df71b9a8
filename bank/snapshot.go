package bank

import (
	"encoding/json"

	"github.com/El-Merovingio/dapp-bank-ackee/common"
	"github.com/El-Merovingio/dapp-bank-ackee/ledger"
	"github.com/El-Merovingio/dapp-bank-ackee/storage"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/pkg/errors"
)

var snapshotKey = []byte("accounts")

type snapshotEntry struct {
	Address string `json:"address"`
	Owner   string `json:"owner"`
	Label   string `json:"label"`
	Balance uint64 `json:"balance"`
}

// persist writes the current cache to the store. Best effort: the cache is
// authoritative in memory, the snapshot only seeds the next start.
func (c *Controller) persist() {
	if c.store == nil {
		return
	}

	c.mu.RLock()
	var entries []snapshotEntry
	for _, v := range c.accounts.Values() {
		a := v.(*ledger.Account)
		entries = append(entries, snapshotEntry{
			Address: a.Address().String(),
			Owner:   a.Owner().String(),
			Label:   a.Label(),
			Balance: a.Balance(),
		})
	}
	c.mu.RUnlock()

	marshal, err := json.Marshal(entries)
	if err != nil {
		log.Error("Can't marshal account snapshot", err)
		return
	}
	if err := c.store.Put(storage.Accounts, snapshotKey, marshal); err != nil {
		log.Error("Can't persist account snapshot", err)
	}
}

func (c *Controller) restore() error {
	if !c.store.Contains(storage.Accounts, snapshotKey) {
		return nil
	}
	value, err := c.store.Get(storage.Accounts, snapshotKey)
	if err != nil {
		return err
	}
	var entries []snapshotEntry
	if err := json.Unmarshal(value, &entries); err != nil {
		return errors.Wrap(err, "can't parse account snapshot")
	}

	restored := linkedhashmap.New()
	for _, e := range entries {
		address, err := common.ParseAddress(e.Address)
		if err != nil {
			return err
		}
		owner, err := common.ParseAddress(e.Owner)
		if err != nil {
			return err
		}
		restored.Put(e.Address, ledger.NewAccount(address, owner, e.Label, e.Balance))
	}

	c.mu.Lock()
	c.accounts = restored
	c.mu.Unlock()

	log.Debugf("Restored %v accounts from snapshot", restored.Size())
	return nil
}
