package big

import (
	"encoding/json"
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/spikeekips/partivotes/common"
)

const (
	_ common.ErrorCode = iota
	InvalidBigErrorCode
)

var (
	InvalidBigError = common.NewError("big", InvalidBigErrorCode, "invalid big number")
)

var (
	ZeroBigInt *big.Int = new(big.Int).SetInt64(0)
	ZeroBig    Big      = NewBig(0)
)

// Big is the non-negative arbitrary precision amount, like paid amount of
// invocation.
type Big struct {
	big.Int
}

func NewBig(i uint64) Big {
	var a big.Int
	a.SetUint64(i)

	return Big{Int: a}
}

func ParseBig(s string) (Big, error) {
	var a big.Int
	if _, ok := a.SetString(strings.TrimSpace(s), 10); !ok {
		return Big{}, InvalidBigError.Newf("%q", s)
	}

	if a.Sign() < 0 {
		return Big{}, InvalidBigError.Newf("negative; %q", s)
	}

	return Big{Int: a}, nil
}

func (a Big) MarshalJSON() ([]byte, error) {
	return json.Marshal(&a.Int)
}

// UnmarshalJSON accepts both json number and quoted string.
func (a *Big) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if len(s) < 1 || s == "null" {
		*a = ZeroBig
		return nil
	}

	p, err := ParseBig(s)
	if err != nil {
		return err
	}

	*a = p

	return nil
}

func (a Big) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Big) UnmarshalText(b []byte) error {
	p, err := ParseBig(string(b))
	if err != nil {
		return err
	}

	*a = p

	return nil
}

func (a Big) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &a.Int)
}

func (a *Big) DecodeRLP(s *rlp.Stream) error {
	i, err := s.BigInt()
	if err != nil {
		return err
	}

	a.Int.Set(i)

	return nil
}

func (a Big) String() string {
	return (&a.Int).String()
}

func (a Big) Add(n Big) Big {
	var b big.Int
	b.Add(&a.Int, &n.Int)

	return Big{Int: b}
}

func (a Big) SubOK(n Big) (Big, bool) {
	switch a.Int.Cmp(&n.Int) {
	case -1:
		return Big{}, false
	case 0:
		return Big{}, true
	}

	var b big.Int
	b.Sub(&a.Int, &n.Int)

	return Big{Int: b}, true
}

func (a Big) Mul(n Big) Big {
	var b big.Int
	b.Mul(&a.Int, &n.Int)

	return Big{Int: b}
}

func (a Big) IsZero() bool {
	return a.Int.Cmp(ZeroBigInt) == 0
}

func (a Big) Cmp(b Big) int {
	return a.Int.Cmp(&b.Int)
}

func (a Big) Equal(b Big) bool {
	return a.Int.Cmp(&b.Int) == 0
}

func (a Big) Uint64Ok() (uint64, bool) {
	return (&(a.Int)).Uint64(), (&(a.Int)).IsUint64()
}
