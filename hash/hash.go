package hash

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"

	"github.com/spikeekips/partivotes/common"
)

// Hash is the hashed body with the hint of what it was made from. The text
// form is "<hint>:<base58 body>:<algorithm>".
type Hash struct {
	algorithm HashAlgorithmType
	hint      string
	body      []byte
}

func NewHash(algorithmType HashAlgorithmType, hint string, body []byte) (Hash, error) {
	if len(hint) < 1 {
		return Hash{}, HashFailedError.Newf("zero hint length")
	} else if strings.Contains(hint, ":") {
		return Hash{}, HashFailedError.Newf("hint should not contain ':'; hint=%q", hint)
	}

	return Hash{
		algorithm: algorithmType,
		hint:      hint,
		body:      body,
	}, nil
}

func (h Hash) MarshalBinary() ([]byte, error) {
	algo, err := h.algorithm.MarshalBinary()
	if err != nil {
		return nil, err
	}

	var b []byte
	b = append(b, common.AppendBinary(algo)...)
	b = append(b, common.AppendBinary([]byte(h.hint))...)
	b = append(b, common.AppendBinary(h.body)...)

	return b, nil
}

func (h *Hash) UnmarshalBinary(b []byte) error {
	var parts [][]byte
	var offset int
	for _, name := range []string{"algorithm", "hint", "body"} {
		e, o := common.ExtractBinary(b[offset:])
		if o < 0 {
			return InvalidHashInputError.Newf("not enough to read %s; length=%d", name, len(b))
		}
		parts = append(parts, e)
		offset += o
	}

	var algorithmType HashAlgorithmType
	if err := algorithmType.UnmarshalBinary(parts[0]); err != nil {
		return err
	}

	h.algorithm = algorithmType
	h.hint = string(parts[1])
	h.body = parts[2]

	return nil
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(b []byte) error {
	n, err := DefaultHashes.ParseHash(string(b))
	if err != nil {
		return err
	}

	*h = n

	return nil
}

func (h Hash) IsValid() error {
	if len(h.hint) < 1 {
		return EmptyHashError.Newf("empty hint")
	}

	if h.algorithm.Empty() {
		return EmptyHashError.Newf("empty algorithm")
	}

	if len(h.body) < 1 {
		return EmptyHashError.Newf("empty body")
	}

	return nil
}

func (h Hash) Empty() bool {
	return len(h.hint) < 1 && len(h.body) < 1 && h.algorithm.Empty()
}

func (h Hash) Equal(a Hash) bool {
	if h.hint != a.hint {
		return false
	}

	if !h.algorithm.Equal(a.Algorithm()) {
		return false
	}

	return bytes.Equal(h.body, a.body)
}

func (h Hash) Algorithm() HashAlgorithmType {
	return h.algorithm
}

func (h Hash) Hint() string {
	return h.hint
}

func (h Hash) Body() []byte {
	return h.body
}

func (h Hash) String() string {
	if h.Empty() {
		return ""
	}

	return fmt.Sprintf("%s:%s:%s", h.hint, base58.Encode(h.body), h.algorithm.String())
}
