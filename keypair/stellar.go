package keypair

import (
	stellarHash "github.com/stellar/go/hash"
	stellarKeypair "github.com/stellar/go/keypair"
)

// NewStellarPrivateKey generates the new random keypair.
func NewStellarPrivateKey() (StellarPrivateKey, error) {
	full, err := stellarKeypair.Random()
	if err != nil {
		return StellarPrivateKey{}, err
	}

	return StellarPrivateKey{kp: full}, nil
}

// NewStellarPrivateKeyFromSeed derives the keypair from the given seed;
// the same seed always gives the same keypair.
func NewStellarPrivateKeyFromSeed(b []byte) (StellarPrivateKey, error) {
	full, err := stellarKeypair.FromRawSeed(stellarHash.Hash(b))
	if err != nil {
		return StellarPrivateKey{}, err
	}

	return StellarPrivateKey{kp: full}, nil
}

func ParseStellarPrivateKey(s string) (StellarPrivateKey, error) {
	kp, err := stellarKeypair.Parse(s)
	if err != nil {
		return StellarPrivateKey{}, FailedToUnmarshalKeypairError.New(err)
	}

	full, ok := kp.(*stellarKeypair.Full)
	if !ok {
		return StellarPrivateKey{}, FailedToUnmarshalKeypairError.Newf("not private key; %q", s)
	}

	return StellarPrivateKey{kp: full}, nil
}

func ParseStellarPublicKey(s string) (StellarPublicKey, error) {
	kp, err := stellarKeypair.Parse(s)
	if err != nil {
		return StellarPublicKey{}, FailedToUnmarshalKeypairError.New(err)
	}

	if _, ok := kp.(*stellarKeypair.FromAddress); !ok {
		return StellarPublicKey{}, FailedToUnmarshalKeypairError.Newf("not public key; %q", s)
	}

	return StellarPublicKey{kp: kp}, nil
}

type StellarPublicKey struct {
	kp stellarKeypair.KP
}

func (s StellarPublicKey) IsEmpty() bool {
	return s.kp == nil
}

func (s StellarPublicKey) Verify(input []byte, sig Signature) error {
	if s.kp == nil {
		return SignatureVerificationFailedError.Newf("empty public key")
	}

	if err := s.kp.Verify(input, sig); err != nil {
		return SignatureVerificationFailedError.New(err)
	}

	return nil
}

func (s StellarPublicKey) String() string {
	if s.kp == nil {
		return ""
	}

	return s.kp.Address()
}

func (s StellarPublicKey) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *StellarPublicKey) UnmarshalText(b []byte) error {
	if len(b) < 1 {
		s.kp = nil
		return nil
	}

	pk, err := ParseStellarPublicKey(string(b))
	if err != nil {
		return err
	}

	*s = pk

	return nil
}

func (s StellarPublicKey) Equal(k PublicKey) bool {
	if k == nil {
		return false
	}

	return s.String() == k.String()
}

type StellarPrivateKey struct {
	kp *stellarKeypair.Full
}

func (s StellarPrivateKey) Sign(b []byte) (Signature, error) {
	sig, err := s.kp.Sign(b)
	if err != nil {
		return nil, err
	}

	return Signature(sig), nil
}

func (s StellarPrivateKey) String() string {
	return s.kp.Seed()
}

func (s StellarPrivateKey) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *StellarPrivateKey) UnmarshalText(b []byte) error {
	pr, err := ParseStellarPrivateKey(string(b))
	if err != nil {
		return err
	}

	*s = pr

	return nil
}

func (s StellarPrivateKey) Equal(k PrivateKey) bool {
	if k == nil {
		return false
	}

	return s.String() == k.String()
}

func (s StellarPrivateKey) PublicKey() PublicKey {
	kp, err := stellarKeypair.Parse(s.kp.Address())
	if err != nil {
		return StellarPublicKey{kp: s.kp}
	}

	return StellarPublicKey{kp: kp}
}
