package ledger

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/spikeekips/partivotes/account"
	"github.com/spikeekips/partivotes/big"
	"github.com/spikeekips/partivotes/common"
	"github.com/spikeekips/partivotes/hash"
	"github.com/spikeekips/partivotes/keypair"
	"github.com/spikeekips/partivotes/poll"
)

var (
	CurrentInvocationVersion common.Version = common.MustParseVersion("0.1.0")
	InvocationHashHint       string         = "iv"
)

// Invocation is the request of a caller. PublicKey and Signature are
// optional; when given, the sender must be derived from PublicKey and
// Signature must be signed over SigningBytes.
type Invocation struct {
	Version   common.Version
	Operation poll.Operation
	Sender    account.Address
	PublicKey keypair.StellarPublicKey
	Amount    big.Big
	Params    json.RawMessage
	Signature keypair.Signature
}

func NewInvocation(op poll.Operation, sender account.Address, amount big.Big, params interface{}) (Invocation, error) {
	var raw json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return Invocation{}, InvalidInvocationError.New(err)
		}
		raw = b
	}

	return Invocation{
		Version:   CurrentInvocationVersion,
		Operation: op,
		Sender:    sender,
		Amount:    amount,
		Params:    raw,
	}, nil
}

type invocationRLP struct {
	Version   string
	Operation uint8
	Sender    string
	PublicKey string
	Amount    big.Big
	Params    []byte
}

func (iv Invocation) SigningBytes() ([]byte, error) {
	return rlp.EncodeToBytes(invocationRLP{
		Version:   iv.Version.String(),
		Operation: uint8(iv.Operation),
		Sender:    iv.Sender.String(),
		PublicKey: iv.PublicKey.String(),
		Amount:    iv.Amount,
		Params:    iv.Params,
	})
}

func (iv Invocation) Hash() (hash.Hash, error) {
	b, err := iv.SigningBytes()
	if err != nil {
		return hash.Hash{}, err
	}

	return hash.DefaultHashes.NewHashByType(hash.DoubleSHA256HashType, InvocationHashHint, b)
}

// Sign sets the public key of pk and signs the invocation; the sender is
// replaced by the address of pk.
func (iv Invocation) Sign(pk keypair.StellarPrivateKey) (Invocation, error) {
	pub, err := keypair.ParseStellarPublicKey(pk.PublicKey().String())
	if err != nil {
		return iv, err
	}

	sender, err := account.NewAddress(pub)
	if err != nil {
		return iv, err
	}

	n := iv
	n.Sender = sender
	n.PublicKey = pub

	b, err := n.SigningBytes()
	if err != nil {
		return iv, err
	}

	sig, err := pk.Sign(b)
	if err != nil {
		return iv, err
	}
	n.Signature = sig

	return n, nil
}

func (iv Invocation) IsSigned() bool {
	return !iv.PublicKey.IsEmpty() && len(iv.Signature) > 0
}

func (iv Invocation) IsValid() error {
	if !CurrentInvocationVersion.Compatible(iv.Version) {
		return InvalidInvocationError.Newf("incompatible version; %q", iv.Version.String())
	}

	if err := iv.Operation.IsValid(); err != nil {
		return err
	}

	if iv.Operation == poll.OperationInitialize {
		return InvalidInvocationError.Newf("initialize can not be invoked")
	}

	if err := iv.Sender.IsValid(); err != nil {
		return InvalidInvocationError.New(err)
	}

	if len(iv.Params) > 0 && !json.Valid(iv.Params) {
		return InvalidInvocationError.Newf("params is not json")
	}

	if iv.PublicKey.IsEmpty() != (len(iv.Signature) < 1) {
		return InvalidInvocationError.Newf("public key and signature should be given together")
	}

	return nil
}

// Authenticate checks the sender against the public key and verifies the
// signature.
func (iv Invocation) Authenticate() error {
	if !iv.IsSigned() {
		return UnauthenticatedError.Newf("not signed")
	}

	sender, err := account.NewAddress(iv.PublicKey)
	if err != nil {
		return UnauthenticatedError.New(err)
	} else if !sender.Equal(iv.Sender) {
		return UnauthenticatedError.Newf("sender does not match with public key; sender=%s", iv.Sender)
	}

	b, err := iv.SigningBytes()
	if err != nil {
		return UnauthenticatedError.New(err)
	}

	if err := iv.PublicKey.Verify(b, iv.Signature); err != nil {
		return UnauthenticatedError.New(err)
	}

	return nil
}

// DecodeParams decodes Params for the operation.
func (iv Invocation) DecodeParams() (interface{}, error) {
	return iv.Operation.DecodeParams(iv.Params)
}

func (iv Invocation) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"version":   iv.Version,
		"operation": iv.Operation,
		"sender":    iv.Sender,
		"amount":    iv.Amount,
	}

	if len(iv.Params) > 0 {
		m["params"] = iv.Params
	}

	if iv.IsSigned() {
		m["public_key"] = iv.PublicKey
		m["signature"] = iv.Signature
	}

	return json.Marshal(m)
}

func (iv *Invocation) UnmarshalJSON(b []byte) error {
	var raw struct {
		Version   *common.Version          `json:"version"`
		Operation poll.Operation           `json:"operation"`
		Sender    account.Address          `json:"sender"`
		PublicKey keypair.StellarPublicKey `json:"public_key"`
		Amount    big.Big                  `json:"amount"`
		Params    json.RawMessage          `json:"params"`
		Signature keypair.Signature        `json:"signature"`
	}

	if err := json.Unmarshal(b, &raw); err != nil {
		return InvalidInvocationError.New(err)
	}

	iv.Version = CurrentInvocationVersion
	if raw.Version != nil {
		iv.Version = *raw.Version
	}

	iv.Operation = raw.Operation
	iv.Sender = raw.Sender
	iv.PublicKey = raw.PublicKey
	iv.Amount = raw.Amount
	iv.Params = raw.Params
	iv.Signature = raw.Signature

	return nil
}

// Record is the journaled invocation with the values stamped by the ledger.
type Record struct {
	ID         string     `json:"id"`
	Height     uint64     `json:"height"`
	Now        uint64     `json:"now"`
	Invocation Invocation `json:"invocation"`
}

func (r Record) Context() poll.Context {
	return poll.Context{
		Sender: r.Invocation.Sender,
		Amount: r.Invocation.Amount,
		Now:    r.Now,
	}
}
