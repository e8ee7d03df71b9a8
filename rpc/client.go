package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/El-Merovingio/dapp-bank-ackee/common"
	"github.com/El-Merovingio/dapp-bank-ackee/ledger"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("rpc")

const DefaultTimeout = 30 * time.Second
const defaultPollInterval = 500 * time.Millisecond

// Client talks JSON-RPC 2.0 to a ledger node and implements ledger.Transport.
// Submit waits for the requested commitment by polling signature status; the
// wait is bounded by the configured timeout and by the caller's context.
type Client struct {
	endpoint     string
	http         *http.Client
	timeout      time.Duration
	pollInterval time.Duration
	seq          uint64
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint:     endpoint,
		http:         &http.Client{},
		timeout:      timeout,
		pollInterval: defaultPollInterval,
	}
}

type request struct {
	Version string        `json:"jsonrpc"`
	Id      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type valueWrapper struct {
	Value json.RawMessage `json:"value"`
}

type accountValue struct {
	Lamports uint64   `json:"lamports"`
	Owner    string   `json:"owner"`
	Data     []string `json:"data"`
}

type keyedAccount struct {
	Pubkey  string       `json:"pubkey"`
	Account accountValue `json:"account"`
}

type signatureStatus struct {
	ConfirmationStatus string      `json:"confirmationStatus"`
	Err                interface{} `json:"err"`
}

func (c *Client) call(ctx context.Context, method string, params []interface{}, result interface{}) *rpcError {
	body, err := json.Marshal(&request{
		Version: "2.0",
		Id:      atomic.AddUint64(&c.seq, 1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return &rpcError{Message: err.Error()}
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &rpcError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		return &rpcError{Message: err.Error(), Code: transportErrorCode}
	}
	defer resp.Body.Close()

	raw, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return &rpcError{Message: err.Error(), Code: transportErrorCode}
	}
	r := &response{}
	if err := json.Unmarshal(raw, r); err != nil {
		return &rpcError{Message: err.Error(), Code: transportErrorCode}
	}
	if r.Error != nil {
		return r.Error
	}
	if result != nil {
		if err := json.Unmarshal(r.Result, result); err != nil {
			return &rpcError{Message: err.Error(), Code: transportErrorCode}
		}
	}
	return nil
}

// transportErrorCode marks failures that never reached the remote, so they
// must not be interpreted as a ledger rejection.
const transportErrorCode = -1

func (e *rpcError) transport() bool {
	return e != nil && e.Code == transportErrorCode
}

func (e *rpcError) Error() string {
	return e.Message
}

func (c *Client) Submit(ctx context.Context, signed *ledger.SignedInstruction, level ledger.Commitment) (*ledger.Receipt, error) {
	serialized, err := signed.Serialize()
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(serialized)

	var signature string
	if e := c.call(ctx, "sendTransaction", []interface{}{
		encoded,
		map[string]interface{}{"encoding": "base64", "preflightCommitment": string(level)},
	}, &signature); e != nil {
		if e.transport() {
			return nil, errors.Wrap(e, "can't send transaction")
		}
		log.Debugf("Transaction rejected: %v", e.Message)
		return &ledger.Receipt{
			Outcome: ledger.OutcomeRejected,
			Code:    classify(e.Message),
			Reason:  e.Message,
		}, nil
	}

	return c.awaitCommitment(ctx, signature, level)
}

// awaitCommitment polls the signature status until it reaches level. Running
// out of time yields a TimedOut receipt, not an error: the instruction is
// broadcast and may still land.
func (c *Client) awaitCommitment(ctx context.Context, signature string, level ledger.Commitment) (*ledger.Receipt, error) {
	deadline := time.NewTimer(c.timeout)
	defer deadline.Stop()
	tick := time.NewTicker(c.pollInterval)
	defer tick.Stop()

	for {
		statuses := &valueWrapper{}
		if e := c.call(ctx, "getSignatureStatuses", []interface{}{[]string{signature}}, statuses); e == nil {
			var value []*signatureStatus
			if err := json.Unmarshal(statuses.Value, &value); err == nil && len(value) > 0 && value[0] != nil {
				status := value[0]
				if status.Err != nil {
					reason, _ := json.Marshal(status.Err)
					return &ledger.Receipt{
						Outcome:   ledger.OutcomeRejected,
						Signature: signature,
						Code:      classify(string(reason)),
						Reason:    string(reason),
					}, nil
				}
				if reached(status.ConfirmationStatus, level) {
					return &ledger.Receipt{Outcome: ledger.OutcomeConfirmed, Signature: signature}, nil
				}
			}
		} else if e.transport() {
			log.Warningf("Status poll failed: %v", e.Message)
		}

		select {
		case <-ctx.Done():
			return &ledger.Receipt{Outcome: ledger.OutcomeTimedOut, Signature: signature, Reason: ctx.Err().Error()}, nil
		case <-deadline.C:
			return &ledger.Receipt{Outcome: ledger.OutcomeTimedOut, Signature: signature, Reason: "confirmation wait expired"}, nil
		case <-tick.C:
		}
	}
}

var rank = map[string]int{"processed": 0, "confirmed": 1, "finalized": 2}

func reached(status string, level ledger.Commitment) bool {
	have, ok := rank[status]
	want, okw := rank[string(level)]
	return ok && okw && have >= want
}

// classify maps a remote rejection reason onto the codes the ledger client
// dispatches on. Unknown reasons stay unknown and surface verbatim.
func classify(reason string) ledger.RejectCode {
	lower := strings.ToLower(reason)
	switch {
	case strings.Contains(lower, "already in use"), strings.Contains(lower, "alreadyinitialized"), strings.Contains(lower, "already initialized"):
		return ledger.RejectAccountInUse
	case strings.Contains(lower, "insufficient"):
		return ledger.RejectInsufficientFunds
	default:
		return ledger.RejectUnknown
	}
}

func (c *Client) AccountInfo(ctx context.Context, address common.Address, level ledger.Commitment) (*ledger.AccountInfo, error) {
	wrapper := &valueWrapper{}
	if e := c.call(ctx, "getAccountInfo", []interface{}{
		address.String(),
		map[string]interface{}{"encoding": "base64", "commitment": string(level)},
	}, wrapper); e != nil {
		return nil, errors.Wrapf(e, "can't read account %v", address)
	}
	value := &accountValue{}
	if err := json.Unmarshal(wrapper.Value, value); err != nil {
		return nil, errors.Wrapf(err, "can't parse account %v", address)
	}
	return decodeAccountValue(address.String(), value)
}

func decodeAccountValue(pubkey string, value *accountValue) (*ledger.AccountInfo, error) {
	address, err := common.ParseAddress(pubkey)
	if err != nil {
		return nil, err
	}
	owner, err := common.ParseAddress(value.Owner)
	if err != nil {
		return nil, errors.Wrapf(err, "account %v has malformed owner", pubkey)
	}
	var data []byte
	if len(value.Data) > 0 {
		data, err = base64.StdEncoding.DecodeString(value.Data[0])
		if err != nil {
			return nil, errors.Wrapf(err, "account %v has malformed data", pubkey)
		}
	}
	return &ledger.AccountInfo{
		Address:  address,
		Owner:    owner,
		Lamports: value.Lamports,
		Data:     data,
	}, nil
}

func (c *Client) Balance(ctx context.Context, address common.Address, level ledger.Commitment) (uint64, error) {
	wrapper := &valueWrapper{}
	if e := c.call(ctx, "getBalance", []interface{}{
		address.String(),
		map[string]interface{}{"commitment": string(level)},
	}, wrapper); e != nil {
		return 0, errors.Wrapf(e, "can't read balance of %v", address)
	}
	var balance uint64
	if err := json.Unmarshal(wrapper.Value, &balance); err != nil {
		return 0, errors.Wrap(err, "can't parse balance")
	}
	return balance, nil
}

func (c *Client) MinimumBalanceForRentExemption(ctx context.Context, dataLen int) (uint64, error) {
	var floor uint64
	if e := c.call(ctx, "getMinimumBalanceForRentExemption", []interface{}{dataLen}, &floor); e != nil {
		return 0, errors.Wrap(e, "can't read rent exemption floor")
	}
	return floor, nil
}

func (c *Client) ProgramAccounts(ctx context.Context, program common.Address, level ledger.Commitment) ([]*ledger.AccountInfo, error) {
	var keyed []*keyedAccount
	if e := c.call(ctx, "getProgramAccounts", []interface{}{
		program.String(),
		map[string]interface{}{"encoding": "base64", "commitment": string(level)},
	}, &keyed); e != nil {
		return nil, errors.Wrapf(e, "can't enumerate accounts of %v", program)
	}

	var infos []*ledger.AccountInfo
	for _, k := range keyed {
		info, err := decodeAccountValue(k.Pubkey, &k.Account)
		if err != nil {
			log.Warningf("Malformed program account %v: %v", k.Pubkey, err)
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}
