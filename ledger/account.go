package ledger

import (
	"bytes"

	"github.com/El-Merovingio/dapp-bank-ackee/common"
	"github.com/near/borsh-go"
	"github.com/pkg/errors"
)

// Account is one ledger resident bank account. Address, owner and label are
// fixed at creation; balance tracks the lamports held at the address and only
// changes from confirmed operation results.
type Account struct {
	address common.Address
	owner   common.Address
	label   string
	balance uint64
}

func NewAccount(address common.Address, owner common.Address, label string, balance uint64) *Account {
	return &Account{address: address, owner: owner, label: label, balance: balance}
}

func (a *Account) Address() common.Address {
	return a.address
}

func (a *Account) Owner() common.Address {
	return a.owner
}

func (a *Account) Label() string {
	return a.label
}

func (a *Account) Balance() uint64 {
	return a.balance
}

func (a *Account) SetBalance(balance uint64) {
	a.balance = balance
}

func (a *Account) Copy() *Account {
	cp := *a
	return &cp
}

// bankData is the borsh layout the program stores after its discriminator.
type bankData struct {
	Name    string
	Balance uint64
	Owner   [32]uint8
}

const accountEntity = "Bank"

// DecodeAccount parses one enumerated program account. The lamports reported
// by the ledger, not the program's own balance field, are authoritative for
// what the address actually holds.
func DecodeAccount(info *AccountInfo) (*Account, error) {
	disc := discriminator("account", accountEntity)
	if len(info.Data) < len(disc) || !bytes.Equal(info.Data[:len(disc)], disc) {
		return nil, errors.Errorf("account %v is not a %v account", info.Address, accountEntity)
	}
	data := &bankData{}
	if err := borsh.Deserialize(data, info.Data[len(disc):]); err != nil {
		return nil, errors.Wrapf(err, "can't decode account %v", info.Address)
	}
	return &Account{
		address: info.Address,
		owner:   common.BytesToAddress(data.Owner[:]),
		label:   data.Name,
		balance: info.Lamports,
	}, nil
}

// EncodeAccountData builds the wire form of a bank account's data. Used by
// tests and tools that fake the remote side.
func EncodeAccountData(label string, balance uint64, owner common.Address) ([]byte, error) {
	data := &bankData{Name: label, Balance: balance}
	copy(data.Owner[:], owner.Bytes())
	encoded, err := borsh.Serialize(*data)
	if err != nil {
		return nil, err
	}
	return append(discriminator("account", accountEntity), encoded...), nil
}
