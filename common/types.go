package common

import (
	"bytes"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const AddressLength = 32

// Address is a 32 byte ledger identity. It is used both for keypair-backed
// identities and for program derived addresses, which have no keypair at all.
type Address [AddressLength]byte

var EmptyAddress = Address{}

func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

func ParseAddress(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Address{}, errors.Wrapf(err, "can't parse address %v", s)
	}
	if len(b) != AddressLength {
		return Address{}, errors.Errorf("address %v must decode to %v bytes, got %v", s, AddressLength, len(b))
	}
	return BytesToAddress(b), nil
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) IsEmpty() bool {
	return bytes.Equal(a[:], EmptyAddress[:])
}
