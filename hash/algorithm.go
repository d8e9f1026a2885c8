package hash

type HashAlgorithm interface {
	Type() HashAlgorithmType
	GenerateHash([]byte) ([]byte, error)
	IsValid([]byte) error
}

func checkHashBody(name string, size int, b []byte) error {
	if len(b) != size {
		return InvalidHashInputError.Newf("%s length should be %d; length=%d", name, size, len(b))
	}

	for _, a := range b {
		if a != 0 {
			return nil
		}
	}

	return EmptyHashError.Newf("empty %s body", name)
}
