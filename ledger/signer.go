package ledger

import (
	"github.com/El-Merovingio/dapp-bank-ackee/common"
	"github.com/El-Merovingio/dapp-bank-ackee/common/crypto"
)

// KeypairSigner authorizes instructions with a local ed25519 keypair.
type KeypairSigner struct {
	pk *crypto.PrivateKey
}

func NewKeypairSigner(pk *crypto.PrivateKey) *KeypairSigner {
	return &KeypairSigner{pk: pk}
}

func (s *KeypairSigner) Identity() common.Address {
	return s.pk.PublicKey().Address()
}

func (s *KeypairSigner) Sign(payload []byte) ([]byte, error) {
	return crypto.Sign(payload, s.pk).Sign(), nil
}
