package ledger

import (
	"crypto/sha256"

	"github.com/El-Merovingio/dapp-bank-ackee/common"
	"github.com/near/borsh-go"
	"github.com/pkg/errors"
)

// SystemProgram is the ledger's native program funding newly created accounts.
var SystemProgram = common.Address{}

type AccountMeta struct {
	Address  common.Address
	Signer   bool
	Writable bool
}

// Instruction is one call into the remote program: a method discriminator
// plus borsh encoded arguments, and the accounts the method touches.
type Instruction struct {
	Program  common.Address
	Accounts []AccountMeta
	Data     []byte
}

type SignedInstruction struct {
	Instruction *Instruction
	Payer       common.Address
	Signature   []byte
}

// envelope is the borsh form of an instruction that gets signed and shipped.
type envelope struct {
	Program  [32]uint8
	Accounts []envelopeMeta
	Data     []uint8
	Payer    [32]uint8
}

type envelopeMeta struct {
	Address  [32]uint8
	Signer   bool
	Writable bool
}

// discriminator is the 8 byte method tag the program dispatches on.
func discriminator(kind string, name string) []byte {
	sum := sha256.Sum256([]byte(kind + ":" + name))
	return sum[:8]
}

func encodeInstruction(program common.Address, name string, args interface{}, accounts []AccountMeta) (*Instruction, error) {
	data := discriminator("global", name)
	if args != nil {
		encoded, err := borsh.Serialize(args)
		if err != nil {
			return nil, errors.Wrapf(err, "can't encode %v arguments", name)
		}
		data = append(data, encoded...)
	}
	return &Instruction{Program: program, Accounts: accounts, Data: data}, nil
}

// Payload serializes the instruction with its payer for signing. The signature
// covers everything the ledger executes, so a relayer can't rewrite accounts
// or arguments under a valid signature.
func (in *Instruction) Payload(payer common.Address) ([]byte, error) {
	e := envelope{Data: in.Data}
	copy(e.Program[:], in.Program.Bytes())
	copy(e.Payer[:], payer.Bytes())
	for _, meta := range in.Accounts {
		m := envelopeMeta{Signer: meta.Signer, Writable: meta.Writable}
		copy(m.Address[:], meta.Address.Bytes())
		e.Accounts = append(e.Accounts, m)
	}
	return borsh.Serialize(e)
}

type wire struct {
	Signature []uint8
	Message   []uint8
}

// Serialize produces the byte form a transport broadcasts: the signature
// followed by the signed message.
func (si *SignedInstruction) Serialize() ([]byte, error) {
	message, err := si.Instruction.Payload(si.Payer)
	if err != nil {
		return nil, err
	}
	return borsh.Serialize(wire{Signature: si.Signature, Message: message})
}

// SignInstruction produces the submittable form of an instruction authorized
// by the signer.
func SignInstruction(in *Instruction, signer Signer) (*SignedInstruction, error) {
	payload, err := in.Payload(signer.Identity())
	if err != nil {
		return nil, err
	}
	sign, err := signer.Sign(payload)
	if err != nil {
		return nil, errors.Wrap(err, "signer refused the instruction")
	}
	return &SignedInstruction{Instruction: in, Payer: signer.Identity(), Signature: sign}, nil
}
