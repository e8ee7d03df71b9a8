package ledger

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestLoadSchemaFromStatic(t *testing.T) {
	schema, err := LoadSchema("../static/solanapdas.json")
	assert.NoError(t, err)
	assert.Equal(t, "solanapdas", schema.Name)

	program, err := schema.ProgramAddress()
	assert.NoError(t, err)
	assert.False(t, program.IsEmpty())

	create := schema.Instruction(InstructionCreate)
	assert.NotNil(t, create)
	assert.Equal(t, 3, len(create.Accounts))
	assert.True(t, create.Accounts[1].IsSigner)
}

func TestSchemaMissingInstruction(t *testing.T) {
	_, err := ParseSchema([]byte(`{
		"name": "broken",
		"instructions": [
			{"name": "create", "args": [{"name": "name", "type": "string"}]},
			{"name": "deposit", "args": [{"name": "amount", "type": "u64"}]}
		]
	}`))
	assert.Equal(t, SchemaInvalidError, errors.Cause(err))
}

func TestSchemaWrongArgType(t *testing.T) {
	_, err := ParseSchema([]byte(`{
		"name": "broken",
		"instructions": [
			{"name": "create", "args": [{"name": "name", "type": "string"}]},
			{"name": "deposit", "args": [{"name": "amount", "type": "u32"}]},
			{"name": "withdraw", "args": [{"name": "amount", "type": "u64"}]}
		]
	}`))
	assert.Equal(t, SchemaInvalidError, errors.Cause(err))
}

func TestSchemaNotJson(t *testing.T) {
	_, err := ParseSchema([]byte("not a schema"))
	assert.Equal(t, SchemaInvalidError, errors.Cause(err))
}
