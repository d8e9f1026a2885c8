package hash

import "crypto/sha256"

var (
	DoubleSHA256HashType HashAlgorithmType = NewHashAlgorithmType(1, "double-sha256")
)

type DoubleSHA256Hash struct {
}

func NewDoubleSHA256Hash() DoubleSHA256Hash {
	return DoubleSHA256Hash{}
}

func (d DoubleSHA256Hash) Type() HashAlgorithmType {
	return DoubleSHA256HashType
}

func (d DoubleSHA256Hash) GenerateHash(b []byte) ([]byte, error) {
	f := sha256.Sum256(b)
	s := sha256.Sum256(f[:])

	return s[:], nil
}

func (d DoubleSHA256Hash) IsValid(b []byte) error {
	return checkHashBody(DoubleSHA256HashType.String(), sha256.Size, b)
}
