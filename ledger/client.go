package ledger

import (
	"context"

	"github.com/El-Merovingio/dapp-bank-ackee/common"
	"github.com/pkg/errors"
)

// Client translates account lifecycle intents into signed instructions and
// interprets their confirmed or rejected outcome. It never retries: retry
// policy belongs to the caller, and a mutating call only returns once the
// transport reports a terminal receipt.
type Client struct {
	program   common.Address
	schema    *Schema
	transport Transport
	level     Commitment
}

func NewClient(transport Transport, schema *Schema, program common.Address, level Commitment) *Client {
	if level == "" {
		level = Confirmed
	}
	return &Client{
		program:   program,
		schema:    schema,
		transport: transport,
		level:     level,
	}
}

func (c *Client) Program() common.Address {
	return c.program
}

// Create derives the bank address for the signer and submits the create
// instruction. A second create for the same owner lands on the same derived
// address and is reported as DuplicateAccountError; that is the expected way
// to learn the account already exists.
func (c *Client) Create(ctx context.Context, label string, signer Signer) (*Account, error) {
	owner := signer.Identity()
	address, bump, err := Derive(BankTag, owner, c.program)
	if err != nil {
		return nil, err
	}
	log.Debugf("Derived bank %v for owner %v with bump %v", address, owner, bump)

	in, err := c.build(InstructionCreate, createArgs{Name: label}, map[string]common.Address{
		"bank":          address,
		"user":          owner,
		"systemProgram": SystemProgram,
	})
	if err != nil {
		return nil, err
	}
	if err := c.submit(ctx, in, signer); err != nil {
		return nil, err
	}
	return NewAccount(address, owner, label, 0), nil
}

// List enumerates the program's accounts. A single undecodable entry is
// skipped and returned as a warning; the call only fails when the transport
// does, or when every entry is undecodable.
func (c *Client) List(ctx context.Context) (accounts []*Account, warnings []error, err error) {
	infos, err := c.transport.ProgramAccounts(ctx, c.program, c.level)
	if err != nil {
		return nil, nil, errors.Wrap(ListingUnavailableError, err.Error())
	}
	for _, info := range infos {
		account, e := DecodeAccount(info)
		if e != nil {
			log.Warningf("Skipping account %v: %v", info.Address, e)
			warnings = append(warnings, e)
			continue
		}
		accounts = append(accounts, account)
	}
	if len(infos) > 0 && len(accounts) == 0 {
		return nil, warnings, errors.Wrapf(ListingUnavailableError, "all %v entries failed to decode", len(infos))
	}
	return accounts, warnings, nil
}

// Deposit moves amount lamports from the signer into the bank at address and
// returns the confirmed delta. The ledger, not this client, decides whether
// the signer can cover amount plus fees.
func (c *Client) Deposit(ctx context.Context, address common.Address, amount uint64, signer Signer) (uint64, error) {
	if amount == 0 {
		return 0, errors.New("deposit amount must be positive")
	}
	in, err := c.build(InstructionDeposit, amountArgs{Amount: amount}, map[string]common.Address{
		"bank":          address,
		"user":          signer.Identity(),
		"systemProgram": SystemProgram,
	})
	if err != nil {
		return 0, err
	}
	if err := c.submit(ctx, in, signer); err != nil {
		return 0, err
	}
	return amount, nil
}

// Withdrawal is a confirmed withdraw result: the amount moved out and the
// reserve floor balance the account keeps.
type Withdrawal struct {
	Amount    uint64
	Remaining uint64
}

// Withdraw drains the account down to the ledger's current reserve floor for
// its data size. The floor is queried at call time, never hard coded.
func (c *Client) Withdraw(ctx context.Context, address common.Address, signer Signer) (*Withdrawal, error) {
	info, err := c.transport.AccountInfo(ctx, address, c.level)
	if err != nil {
		return nil, errors.Wrapf(SubmissionRejectedError, "can't read account %v: %v", address, err)
	}
	floor, err := c.transport.MinimumBalanceForRentExemption(ctx, len(info.Data))
	if err != nil {
		return nil, errors.Wrap(SubmissionRejectedError, err.Error())
	}
	if info.Lamports <= floor {
		return nil, errors.Wrapf(NothingToWithdrawError, "balance %v, reserve floor %v", info.Lamports, floor)
	}
	amount := info.Lamports - floor

	in, err := c.build(InstructionWithdraw, amountArgs{Amount: amount}, map[string]common.Address{
		"bank": address,
		"user": signer.Identity(),
	})
	if err != nil {
		return nil, err
	}
	if err := c.submit(ctx, in, signer); err != nil {
		return nil, err
	}
	log.Infof("Withdrew %v lamports from %v, %v stays as reserve", amount, address, floor)
	return &Withdrawal{Amount: amount, Remaining: floor}, nil
}

type createArgs struct {
	Name string
}

type amountArgs struct {
	Amount uint64
}

// build assembles an instruction with the account roles the schema declares
// for it, resolved against the addresses this call touches.
func (c *Client) build(name string, args interface{}, resolved map[string]common.Address) (*Instruction, error) {
	def := c.schema.Instruction(name)
	if def == nil {
		return nil, errors.Wrapf(SchemaInvalidError, "schema does not declare %v", name)
	}
	var metas []AccountMeta
	for _, role := range def.Accounts {
		address, ok := resolved[role.Name]
		if !ok {
			return nil, errors.Wrapf(SchemaInvalidError, "no address for account role %v of %v", role.Name, name)
		}
		metas = append(metas, AccountMeta{Address: address, Signer: role.IsSigner, Writable: role.IsMut})
	}
	return encodeInstruction(c.program, name, args, metas)
}

func (c *Client) submit(ctx context.Context, in *Instruction, signer Signer) error {
	signed, err := SignInstruction(in, signer)
	if err != nil {
		return errors.Wrap(SubmissionRejectedError, err.Error())
	}
	receipt, err := c.transport.Submit(ctx, signed, c.level)
	if err != nil {
		return errors.Wrap(SubmissionRejectedError, err.Error())
	}
	switch receipt.Outcome {
	case OutcomeConfirmed:
		return nil
	case OutcomeTimedOut:
		return errors.Wrapf(TimedOutError, "signature %v not at %v yet", receipt.Signature, c.level)
	default:
		return rejection(receipt)
	}
}

func rejection(receipt *Receipt) error {
	switch receipt.Code {
	case RejectAccountInUse:
		return errors.Wrap(DuplicateAccountError, receipt.Reason)
	case RejectInsufficientFunds:
		return errors.Wrap(InsufficientFundsError, receipt.Reason)
	default:
		return errors.Wrap(SubmissionRejectedError, receipt.Reason)
	}
}
