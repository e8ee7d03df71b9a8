package ledger

import (
	"testing"

	"github.com/El-Merovingio/dapp-bank-ackee/common"
	"github.com/stretchr/testify/assert"
)

func TestDeriveIsDeterministic(t *testing.T) {
	owner := common.BytesToAddress([]byte("owner one"))
	program := common.BytesToAddress([]byte("bank program"))

	first, firstBump, err := Derive(BankTag, owner, program)
	assert.NoError(t, err)
	second, secondBump, err := Derive(BankTag, owner, program)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstBump, secondBump)
}

func TestDeriveIsOffCurve(t *testing.T) {
	owner := common.BytesToAddress([]byte("owner one"))
	program := common.BytesToAddress([]byte("bank program"))

	address, _, err := Derive(BankTag, owner, program)
	assert.NoError(t, err)
	assert.False(t, onCurve(address.Bytes()))
}

func TestDeriveDependsOnOwner(t *testing.T) {
	program := common.BytesToAddress([]byte("bank program"))

	first, _, err := Derive(BankTag, common.BytesToAddress([]byte("owner one")), program)
	assert.NoError(t, err)
	second, _, err := Derive(BankTag, common.BytesToAddress([]byte("owner two")), program)
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDeriveDependsOnTag(t *testing.T) {
	owner := common.BytesToAddress([]byte("owner one"))
	program := common.BytesToAddress([]byte("bank program"))

	first, _, err := Derive(BankTag, owner, program)
	assert.NoError(t, err)
	second, _, err := Derive([]byte("vaultaccount"), owner, program)
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}
