package keypair

import (
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"
)

// Signature is rendered in base58.
type Signature []byte

func ParseSignature(s string) (Signature, error) {
	if len(s) < 1 {
		return nil, InvalidSignatureError.Newf("empty signature")
	}

	b := base58.Decode(s)
	if len(b) < 1 {
		return nil, InvalidSignatureError.Newf("not base58; %q", s)
	}

	return Signature(b), nil
}

func (s Signature) String() string {
	return base58.Encode(s)
}

func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Signature) UnmarshalJSON(b []byte) error {
	var n string
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}

	if len(n) < 1 {
		*s = nil
		return nil
	}

	sig, err := ParseSignature(n)
	if err != nil {
		return err
	}

	*s = sig

	return nil
}
