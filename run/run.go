package run

import (
	"context"
	"fmt"
	"time"

	"github.com/El-Merovingio/dapp-bank-ackee/bank"
	"github.com/El-Merovingio/dapp-bank-ackee/common"
	"github.com/El-Merovingio/dapp-bank-ackee/common/crypto"
	"github.com/El-Merovingio/dapp-bank-ackee/ledger"
	"github.com/El-Merovingio/dapp-bank-ackee/rpc"
	"github.com/El-Merovingio/dapp-bank-ackee/storage"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("run")

// Session wires the concrete collaborators together for one CLI invocation.
type Session struct {
	settings   *common.Settings
	program    common.Address
	controller *bank.Controller
	signer     ledger.Signer
	store      storage.Storage
}

func NewSession(s *common.Settings) (*Session, error) {
	schema, err := ledger.LoadSchema(s.Program.Schema)
	if err != nil {
		return nil, err
	}

	program, err := programAddress(s, schema)
	if err != nil {
		return nil, err
	}

	pk, err := crypto.LoadKeypair(s.Wallet.Path)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStorage(s.Storage.Dir, nil)
	if err != nil {
		return nil, errors.Wrap(err, "can't open storage")
	}

	timeout := time.Duration(s.Rpc.TimeoutSeconds) * time.Second
	transport := rpc.NewClient(s.Rpc.Endpoint, timeout)
	client := ledger.NewClient(transport, schema, program, ledger.Commitment(s.Rpc.Commitment))

	return &Session{
		settings:   s,
		program:    program,
		controller: bank.NewController(client, store),
		signer:     ledger.NewKeypairSigner(pk),
		store:      store,
	}, nil
}

// programAddress prefers an explicit setting over the address the schema was
// deployed under.
func programAddress(s *common.Settings, schema *ledger.Schema) (common.Address, error) {
	if s.Program.Address != "" {
		return common.ParseAddress(s.Program.Address)
	}
	return schema.ProgramAddress()
}

func (s *Session) Close() {
	s.store.Close()
}

func (s *Session) context() (context.Context, context.CancelFunc) {
	timeout := time.Duration(s.settings.Rpc.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = rpc.DefaultTimeout
	}
	// leave room for the submit wait plus the follow-up listing
	return context.WithTimeout(context.Background(), 2*timeout)
}

func Create(s *common.Settings, label string) error {
	session, err := NewSession(s)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx, cancel := session.context()
	defer cancel()

	err = session.controller.RequestCreate(ctx, label, session.signer)
	switch errors.Cause(err) {
	case nil:
		log.Infof("Bank %q created for %v", label, session.signer.Identity())
	case ledger.DuplicateAccountError:
		log.Infof("Bank for %v already exists", session.signer.Identity())
		err = nil
	}
	return err
}

func Banks(s *common.Settings) error {
	session, err := NewSession(s)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx, cancel := session.context()
	defer cancel()

	if err := session.controller.RequestList(ctx); err != nil {
		return err
	}
	printAccounts(session.controller.Snapshot())
	return nil
}

func Deposit(s *common.Settings, address string, amount uint64) error {
	session, err := NewSession(s)
	if err != nil {
		return err
	}
	defer session.Close()

	target, err := resolveTarget(session, address)
	if err != nil {
		return err
	}

	ctx, cancel := session.context()
	defer cancel()

	if err := session.controller.RequestDeposit(ctx, target, amount, session.signer); err != nil {
		return err
	}
	log.Infof("Deposited %v lamports into %v", amount, target)
	return nil
}

func Withdraw(s *common.Settings, address string) error {
	session, err := NewSession(s)
	if err != nil {
		return err
	}
	defer session.Close()

	target, err := resolveTarget(session, address)
	if err != nil {
		return err
	}

	ctx, cancel := session.context()
	defer cancel()

	amount, err := session.controller.RequestWithdraw(ctx, target, session.signer)
	if err != nil {
		return err
	}
	log.Infof("Withdrew %v lamports from %v", amount, target)
	return nil
}

func Keygen(s *common.Settings) error {
	pk, err := crypto.LoadKeypair(s.Wallet.Path)
	if err != nil {
		return err
	}
	fmt.Printf("Keypair at %v\nAddress: %v\n", s.Wallet.Path, pk.PublicKey().Address())
	return nil
}

// resolveTarget accepts an explicit bank address or, when none is given,
// re-derives the caller's own bank the way the program does.
func resolveTarget(session *Session, address string) (common.Address, error) {
	if address != "" {
		return common.ParseAddress(address)
	}
	derived, _, err := ledger.Derive(ledger.BankTag, session.signer.Identity(), session.program)
	return derived, err
}

func printAccounts(accounts []*ledger.Account) {
	if len(accounts) == 0 {
		fmt.Println("No banks found")
		return
	}
	for _, a := range accounts {
		fmt.Printf("%v\t%q\towner %v\tbalance %v lamports\n", a.Address(), a.Label(), a.Owner(), a.Balance())
	}
}
