package bank

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/El-Merovingio/dapp-bank-ackee/common"
	"github.com/El-Merovingio/dapp-bank-ackee/common/crypto"
	"github.com/El-Merovingio/dapp-bank-ackee/ledger"
	"github.com/El-Merovingio/dapp-bank-ackee/storage"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type fakeTransport struct {
	mu        sync.Mutex
	receipt   *ledger.Receipt
	submitted int

	listing []*ledger.AccountInfo
	listErr error
	infos   map[common.Address]*ledger.AccountInfo
	floor   uint64

	// when set, Submit signals started once and then waits for release
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (f *fakeTransport) Submit(ctx context.Context, signed *ledger.SignedInstruction, level ledger.Commitment) (*ledger.Receipt, error) {
	f.mu.Lock()
	f.submitted++
	f.mu.Unlock()

	if f.started != nil {
		f.once.Do(func() { close(f.started) })
		<-f.release
	}
	if f.receipt != nil {
		return f.receipt, nil
	}
	return &ledger.Receipt{Outcome: ledger.OutcomeConfirmed, Signature: "sig"}, nil
}

func (f *fakeTransport) submits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitted
}

func (f *fakeTransport) AccountInfo(ctx context.Context, address common.Address, level ledger.Commitment) (*ledger.AccountInfo, error) {
	info, found := f.infos[address]
	if !found {
		return nil, errors.New("no account")
	}
	return info, nil
}

func (f *fakeTransport) Balance(ctx context.Context, address common.Address, level ledger.Commitment) (uint64, error) {
	info, err := f.AccountInfo(ctx, address, level)
	if err != nil {
		return 0, err
	}
	return info.Lamports, nil
}

func (f *fakeTransport) MinimumBalanceForRentExemption(ctx context.Context, dataLen int) (uint64, error) {
	return f.floor, nil
}

func (f *fakeTransport) ProgramAccounts(ctx context.Context, program common.Address, level ledger.Commitment) ([]*ledger.AccountInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listing, nil
}

func bankInfo(t *testing.T, seed string, label string, lamports uint64) *ledger.AccountInfo {
	owner := common.BytesToAddress([]byte("owner of " + seed))
	data, err := ledger.EncodeAccountData(label, 0, owner)
	assert.NoError(t, err)
	return &ledger.AccountInfo{
		Address:  common.BytesToAddress([]byte(seed)),
		Owner:    owner,
		Lamports: lamports,
		Data:     data,
	}
}

func newTestController(t *testing.T, transport ledger.Transport, store storage.Storage) (*Controller, *ledger.KeypairSigner) {
	schema, err := ledger.LoadSchema("../static/solanapdas.json")
	assert.NoError(t, err)
	program, err := schema.ProgramAddress()
	assert.NoError(t, err)
	pk, err := crypto.GenerateKey()
	assert.NoError(t, err)

	client := ledger.NewClient(transport, schema, program, ledger.Confirmed)
	return NewController(client, store), ledger.NewKeypairSigner(pk)
}

func TestRequestListReplacesCache(t *testing.T) {
	transport := &fakeTransport{listing: []*ledger.AccountInfo{
		bankInfo(t, "bank one", "First", 10),
		bankInfo(t, "bank two", "Second", 20),
	}}
	controller, _ := newTestController(t, transport, nil)

	assert.NoError(t, controller.RequestList(context.Background()))
	assert.Equal(t, 2, len(controller.Snapshot()))

	transport.listing = transport.listing[:1]
	assert.NoError(t, controller.RequestList(context.Background()))

	snapshot := controller.Snapshot()
	assert.Equal(t, 1, len(snapshot))
	assert.Equal(t, "First", snapshot[0].Label())
}

func TestRequestListFailureKeepsCache(t *testing.T) {
	transport := &fakeTransport{listing: []*ledger.AccountInfo{bankInfo(t, "bank one", "First", 10)}}
	controller, _ := newTestController(t, transport, nil)

	assert.NoError(t, controller.RequestList(context.Background()))

	transport.listErr = errors.New("connection refused")
	err := controller.RequestList(context.Background())
	assert.Equal(t, ledger.ListingUnavailableError, errors.Cause(err))

	snapshot := controller.Snapshot()
	assert.Equal(t, 1, len(snapshot))
	assert.Equal(t, uint64(10), snapshot[0].Balance())
}

func TestRequestDepositUpdatesSingleBalance(t *testing.T) {
	one := bankInfo(t, "bank one", "First", 100)
	two := bankInfo(t, "bank two", "Second", 20)
	transport := &fakeTransport{listing: []*ledger.AccountInfo{one, two}}
	controller, signer := newTestController(t, transport, nil)

	assert.NoError(t, controller.RequestList(context.Background()))
	assert.NoError(t, controller.RequestDeposit(context.Background(), one.Address, 50, signer))

	snapshot := controller.Snapshot()
	assert.Equal(t, uint64(150), snapshot[0].Balance())
	assert.Equal(t, uint64(20), snapshot[1].Balance())
}

func TestRequestWithdrawPinsBalanceToFloor(t *testing.T) {
	info := bankInfo(t, "bank one", "First", 2000500)
	transport := &fakeTransport{
		listing: []*ledger.AccountInfo{info},
		infos:   map[common.Address]*ledger.AccountInfo{info.Address: info},
		floor:   2000000,
	}
	controller, signer := newTestController(t, transport, nil)

	assert.NoError(t, controller.RequestList(context.Background()))

	amount, err := controller.RequestWithdraw(context.Background(), info.Address, signer)
	assert.NoError(t, err)
	assert.Equal(t, uint64(500), amount)
	assert.Equal(t, uint64(2000000), controller.Snapshot()[0].Balance())
}

func TestWithdrawAtFloorLeavesCacheUntouched(t *testing.T) {
	info := bankInfo(t, "bank one", "First", 2000000)
	transport := &fakeTransport{
		listing: []*ledger.AccountInfo{info},
		infos:   map[common.Address]*ledger.AccountInfo{info.Address: info},
		floor:   2000000,
	}
	controller, signer := newTestController(t, transport, nil)

	assert.NoError(t, controller.RequestList(context.Background()))

	_, err := controller.RequestWithdraw(context.Background(), info.Address, signer)
	assert.Equal(t, ledger.NothingToWithdrawError, errors.Cause(err))
	assert.Equal(t, uint64(2000000), controller.Snapshot()[0].Balance())
	assert.Equal(t, 0, transport.submits())
}

func TestConcurrentDepositRejectedImmediately(t *testing.T) {
	info := bankInfo(t, "bank one", "First", 100)
	transport := &fakeTransport{
		listing: []*ledger.AccountInfo{info},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	controller, signer := newTestController(t, transport, nil)
	assert.NoError(t, controller.RequestList(context.Background()))

	done := make(chan error, 1)
	go func() {
		done <- controller.RequestDeposit(context.Background(), info.Address, 50, signer)
	}()

	select {
	case <-transport.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first deposit never reached the transport")
	}

	err := controller.RequestDeposit(context.Background(), info.Address, 50, signer)
	assert.Equal(t, ledger.OperationInProgressError, errors.Cause(err))

	close(transport.release)
	assert.NoError(t, <-done)
	assert.Equal(t, 1, transport.submits())
}

func TestCreateRefreshesCache(t *testing.T) {
	transport := &fakeTransport{}
	controller, signer := newTestController(t, transport, nil)

	// the listing the follow-up refresh will see
	transport.listing = []*ledger.AccountInfo{bankInfo(t, "bank one", "Julio Bank", 0)}

	assert.NoError(t, controller.RequestCreate(context.Background(), "Julio Bank", signer))
	assert.Equal(t, 1, transport.submits())

	snapshot := controller.Snapshot()
	assert.Equal(t, 1, len(snapshot))
	assert.Equal(t, "Julio Bank", snapshot[0].Label())
}

func TestCreateDuplicateIsInformational(t *testing.T) {
	transport := &fakeTransport{
		receipt: &ledger.Receipt{Outcome: ledger.OutcomeRejected, Code: ledger.RejectAccountInUse, Reason: "already in use"},
		listing: []*ledger.AccountInfo{bankInfo(t, "bank one", "Julio Bank", 5)},
	}
	controller, signer := newTestController(t, transport, nil)

	err := controller.RequestCreate(context.Background(), "Julio Bank", signer)
	assert.Equal(t, ledger.DuplicateAccountError, errors.Cause(err))

	// the existing account was picked up opportunistically
	snapshot := controller.Snapshot()
	assert.Equal(t, 1, len(snapshot))
	assert.Equal(t, uint64(5), snapshot[0].Balance())
}

func TestSnapshotSurvivesRestart(t *testing.T) {
	store, err := storage.NewStorage("", nil)
	assert.NoError(t, err)
	defer store.Close()

	transport := &fakeTransport{listing: []*ledger.AccountInfo{bankInfo(t, "bank one", "First", 10)}}
	controller, _ := newTestController(t, transport, store)
	assert.NoError(t, controller.RequestList(context.Background()))

	empty := &fakeTransport{listErr: errors.New("offline")}
	restarted, _ := newTestController(t, empty, store)

	snapshot := restarted.Snapshot()
	assert.Equal(t, 1, len(snapshot))
	assert.Equal(t, "First", snapshot[0].Label())
	assert.Equal(t, uint64(10), snapshot[0].Balance())
}
