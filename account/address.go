package account

import (
	"github.com/btcsuite/btcutil/base58"

	"github.com/spikeekips/partivotes/common"
	"github.com/spikeekips/partivotes/hash"
	"github.com/spikeekips/partivotes/keypair"
)

const (
	_ common.ErrorCode = iota
	InvalidAddressErrorCode
)

var (
	InvalidAddressError = common.NewError("account", InvalidAddressErrorCode, "invalid address")
)

var (
	AccountHashHint string = "ac"
)

const addressBodySize int = 32

// Address identifies the actor of an invocation. It is the base58 body of
// the argon2 hash of the public key.
type Address string

func NewAddress(pk keypair.PublicKey) (Address, error) {
	if pk == nil || len(pk.String()) < 1 {
		return "", InvalidAddressError.Newf("empty public key")
	}

	h, err := hash.DefaultHashes.NewHashByType(hash.Argon2HashType, AccountHashHint, []byte(pk.String()))
	if err != nil {
		return "", err
	}

	return Address(base58.Encode(h.Body())), nil
}

func ParseAddress(s string) (Address, error) {
	a := Address(s)
	if err := a.IsValid(); err != nil {
		return "", err
	}

	return a, nil
}

func (a Address) IsValid() error {
	if len(a) < 1 {
		return InvalidAddressError.Newf("empty address")
	}

	if b := base58.Decode(string(a)); len(b) != addressBodySize {
		return InvalidAddressError.Newf("wrong address body; address=%q length=%d", string(a), len(b))
	}

	return nil
}

func (a Address) Empty() bool {
	return len(a) < 1
}

func (a Address) Equal(b Address) bool {
	return a == b
}

func (a Address) String() string {
	return string(a)
}
