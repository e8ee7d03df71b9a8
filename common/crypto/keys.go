package crypto

import (
	"crypto/ed25519"
	"crypto/rand"

	"github.com/El-Merovingio/dapp-bank-ackee/common"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("crypto")

type PublicKey struct {
	v ed25519.PublicKey
}

func NewPublicKey(v ed25519.PublicKey) *PublicKey {
	return &PublicKey{v: v}
}

func (key *PublicKey) V() ed25519.PublicKey {
	return key.v
}

func (key *PublicKey) Bytes() []byte {
	b := make([]byte, len(key.v))
	copy(b, key.v)
	return b
}

func (key *PublicKey) Address() common.Address {
	return common.BytesToAddress(key.v)
}

type PrivateKey struct {
	v ed25519.PrivateKey
}

func NewPrivateKey(v ed25519.PrivateKey) *PrivateKey {
	return &PrivateKey{v: v}
}

func (pk *PrivateKey) V() ed25519.PrivateKey {
	return pk.v
}

func (pk *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{v: pk.v.Public().(ed25519.PublicKey)}
}

func GenerateKey() (*PrivateKey, error) {
	_, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "can't generate keypair")
	}
	return &PrivateKey{v: sk}, nil
}

func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != ed25519.PrivateKeySize {
		return nil, errors.Errorf("private key must be %v bytes, got %v", ed25519.PrivateKeySize, len(b))
	}
	return &PrivateKey{v: ed25519.PrivateKey(b)}, nil
}

type Signature struct {
	from common.Address
	sign []byte
}

func NewSignature(from common.Address, sign []byte) *Signature {
	return &Signature{from: from, sign: sign}
}

func (s *Signature) From() common.Address {
	return s.from
}

func (s *Signature) Sign() []byte {
	return s.sign
}

func Sign(payload []byte, pk *PrivateKey) *Signature {
	sign := ed25519.Sign(pk.v, payload)
	return &Signature{from: pk.PublicKey().Address(), sign: sign}
}

func Verify(payload []byte, s *Signature) bool {
	if s == nil || len(s.sign) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(s.from.Bytes()), payload, s.sign)
}
