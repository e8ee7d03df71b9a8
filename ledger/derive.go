package ledger

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/El-Merovingio/dapp-bank-ackee/common"
)

// BankTag is the domain seed identifying bank accounts of the program.
var BankTag = []byte("bankaccount")

const derivedMarker = "ProgramDerivedAddress"

const maxBump = 255

// Derive computes the program owned address for (tag, owner) by probing the
// bump space downwards from maxBump until the candidate hash is not a valid
// curve point. An off-curve address has no keypair, so only the program can
// move funds held there. Pure function, safe for concurrent use.
func Derive(tag []byte, owner common.Address, program common.Address) (common.Address, uint8, error) {
	for bump := maxBump; bump >= 0; bump-- {
		h := sha256.New()
		h.Write(tag)
		h.Write(owner.Bytes())
		h.Write([]byte{byte(bump)})
		h.Write(program.Bytes())
		h.Write([]byte(derivedMarker))
		candidate := h.Sum(nil)
		if !onCurve(candidate) {
			return common.BytesToAddress(candidate), uint8(bump), nil
		}
	}
	return common.EmptyAddress, 0, DerivationExhaustedError
}

func onCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
