package hash

import (
	"golang.org/x/crypto/argon2"
)

var (
	Argon2HashType HashAlgorithmType = NewHashAlgorithmType(2, "argon2")
	Argon2Salt     []byte            = []byte("partivotes-argon2-salt")
)

const argon2KeyLength uint32 = 32

type Argon2Hash struct {
	salt []byte
}

func NewArgon2Hash() Argon2Hash {
	return Argon2Hash{salt: Argon2Salt}
}

func (a Argon2Hash) Type() HashAlgorithmType {
	return Argon2HashType
}

func (a Argon2Hash) GenerateHash(b []byte) ([]byte, error) {
	return argon2.IDKey(b, a.salt, 1, 16*1024, 2, argon2KeyLength), nil
}

func (a Argon2Hash) IsValid(b []byte) error {
	return checkHashBody(Argon2HashType.String(), int(argon2KeyLength), b)
}
