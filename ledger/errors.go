package ledger

import (
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var (
	DerivationExhaustedError = errors.New("no bump found producing an off-curve address")
	DuplicateAccountError    = errors.New("account already initialized")
	SubmissionRejectedError  = errors.New("submission rejected by the ledger")
	InsufficientFundsError   = errors.New("insufficient funds")
	NothingToWithdrawError   = errors.New("nothing to withdraw above the reserve floor")
	ListingUnavailableError  = errors.New("can't list program accounts")
	OperationInProgressError = errors.New("operation already in progress")
	SchemaInvalidError       = errors.New("invalid program schema")
	TimedOutError            = errors.New("confirmation timed out")
	log                      = logging.MustGetLogger("ledger")
)
