package ledger

import (
	"testing"

	"github.com/El-Merovingio/dapp-bank-ackee/common"
	"github.com/El-Merovingio/dapp-bank-ackee/common/crypto"
	"github.com/davecgh/go-spew/spew"
	"github.com/near/borsh-go"
	"github.com/stretchr/testify/assert"
)

func TestPayloadCoversAccountsAndArgs(t *testing.T) {
	program := common.BytesToAddress([]byte("bank program"))
	bank := common.BytesToAddress([]byte("bank one"))
	user := common.BytesToAddress([]byte("user"))

	first, err := encodeInstruction(program, InstructionDeposit, amountArgs{Amount: 100}, []AccountMeta{
		{Address: bank, Writable: true},
		{Address: user, Signer: true, Writable: true},
	})
	assert.NoError(t, err)
	second, err := encodeInstruction(program, InstructionDeposit, amountArgs{Amount: 100}, []AccountMeta{
		{Address: common.BytesToAddress([]byte("bank two")), Writable: true},
		{Address: user, Signer: true, Writable: true},
	})
	assert.NoError(t, err)

	firstPayload, err := first.Payload(user)
	assert.NoError(t, err)
	secondPayload, err := second.Payload(user)
	assert.NoError(t, err)

	assert.NotEqual(t, firstPayload, secondPayload)
}

func TestSerializeCarriesSignatureAndMessage(t *testing.T) {
	pk, err := crypto.GenerateKey()
	assert.NoError(t, err)
	signer := NewKeypairSigner(pk)

	in, err := encodeInstruction(common.BytesToAddress([]byte("bank program")), InstructionCreate, createArgs{Name: "Julio Bank"}, []AccountMeta{
		{Address: signer.Identity(), Signer: true, Writable: true},
	})
	assert.NoError(t, err)

	signed, err := SignInstruction(in, signer)
	assert.NoError(t, err)
	t.Log(spew.Sdump(signed.Instruction))

	serialized, err := signed.Serialize()
	assert.NoError(t, err)

	decoded := &wire{}
	assert.NoError(t, borsh.Deserialize(decoded, serialized))
	assert.Equal(t, signed.Signature, decoded.Signature)

	payload, err := in.Payload(signer.Identity())
	assert.NoError(t, err)
	assert.Equal(t, payload, decoded.Message)
	assert.True(t, crypto.Verify(decoded.Message, crypto.NewSignature(signer.Identity(), decoded.Signature)))
}
