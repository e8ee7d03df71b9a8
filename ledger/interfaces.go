package ledger

import (
	"context"

	"github.com/El-Merovingio/dapp-bank-ackee/common"
)

// Commitment is the durability tier the caller waits for before an operation
// is considered complete.
type Commitment string

const (
	Processed = Commitment("processed")
	Confirmed = Commitment("confirmed")
	Finalized = Commitment("finalized")
)

type Outcome int

const (
	OutcomeConfirmed = Outcome(iota)
	OutcomeRejected
	OutcomeTimedOut
)

type RejectCode int

const (
	RejectUnknown = RejectCode(iota)
	RejectAccountInUse
	RejectInsufficientFunds
)

// Receipt is the terminal state of one submitted instruction. Reason carries
// the remote rejection verbatim, Code is the transport's classification of it.
type Receipt struct {
	Outcome   Outcome
	Signature string
	Code      RejectCode
	Reason    string
}

type AccountInfo struct {
	Address  common.Address
	Owner    common.Address
	Lamports uint64
	Data     []byte
}

// Signer authorizes instructions for one identity. Key material never crosses
// this interface.
type Signer interface {
	Identity() common.Address
	Sign(payload []byte) ([]byte, error)
}

// Transport carries encoded instructions to the remote ledger and answers
// state queries. Implementations must block in Submit until the instruction
// reaches the requested commitment, is rejected, or the wait expires; a
// TimedOut receipt does not mean the instruction did not land.
type Transport interface {
	Submit(ctx context.Context, signed *SignedInstruction, level Commitment) (*Receipt, error)
	AccountInfo(ctx context.Context, address common.Address, level Commitment) (*AccountInfo, error)
	Balance(ctx context.Context, address common.Address, level Commitment) (uint64, error)
	MinimumBalanceForRentExemption(ctx context.Context, dataLen int) (uint64, error)
	ProgramAccounts(ctx context.Context, program common.Address, level Commitment) ([]*AccountInfo, error)
}
