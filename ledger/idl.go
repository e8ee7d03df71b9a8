package ledger

import (
	"encoding/json"
	"io/ioutil"

	"github.com/El-Merovingio/dapp-bank-ackee/common"
	"github.com/pkg/errors"
)

const (
	InstructionCreate   = "create"
	InstructionDeposit  = "deposit"
	InstructionWithdraw = "withdraw"
)

// Schema is the loaded program interface description. It is read once at
// startup and validated against the three instructions the client submits.
type Schema struct {
	Version      string           `json:"version"`
	Name         string           `json:"name"`
	Instructions []InstructionDef `json:"instructions"`
	Accounts     []AccountDef     `json:"accounts"`
	Metadata     struct {
		Address string `json:"address"`
	} `json:"metadata"`
}

type InstructionDef struct {
	Name     string       `json:"name"`
	Accounts []AccountRole `json:"accounts"`
	Args     []ArgDef     `json:"args"`
}

type AccountRole struct {
	Name     string `json:"name"`
	IsMut    bool   `json:"isMut"`
	IsSigner bool   `json:"isSigner"`
}

type ArgDef struct {
	Name string      `json:"name"`
	Type interface{} `json:"type"`
}

type AccountDef struct {
	Name string `json:"name"`
}

func LoadSchema(path string) (*Schema, error) {
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read schema file %v", path)
	}
	return ParseSchema(bytes)
}

func ParseSchema(bytes []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(bytes, s); err != nil {
		return nil, errors.Wrap(SchemaInvalidError, err.Error())
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// validate fails fast when the schema does not declare the instructions the
// client relies on with compatible argument shapes.
func (s *Schema) validate() error {
	required := map[string]string{
		InstructionCreate:   "string",
		InstructionDeposit:  "u64",
		InstructionWithdraw: "u64",
	}
	for name, argType := range required {
		def := s.Instruction(name)
		if def == nil {
			return errors.Wrapf(SchemaInvalidError, "schema %v does not declare instruction %v", s.Name, name)
		}
		if len(def.Args) != 1 {
			return errors.Wrapf(SchemaInvalidError, "instruction %v must take one argument, takes %v", name, len(def.Args))
		}
		if t, ok := def.Args[0].Type.(string); !ok || t != argType {
			return errors.Wrapf(SchemaInvalidError, "instruction %v argument %v must be %v", name, def.Args[0].Name, argType)
		}
	}
	return nil
}

func (s *Schema) Instruction(name string) *InstructionDef {
	for i := range s.Instructions {
		if s.Instructions[i].Name == name {
			return &s.Instructions[i]
		}
	}
	return nil
}

// ProgramAddress returns the program identity the schema was deployed under.
func (s *Schema) ProgramAddress() (common.Address, error) {
	if s.Metadata.Address == "" {
		return common.EmptyAddress, errors.Wrap(SchemaInvalidError, "schema carries no program address")
	}
	return common.ParseAddress(s.Metadata.Address)
}
