package hash

import (
	"strings"
	"sync"

	"github.com/btcsuite/btcutil/base58"
)

type Hashes struct {
	sync.RWMutex
	algorithms  map[ /*HashAlgorithmType*/ uint]HashAlgorithm
	defaultType HashAlgorithmType
}

func NewHashes() *Hashes {
	return &Hashes{
		algorithms: map[uint]HashAlgorithm{},
	}
}

func (h *Hashes) Register(algorithm HashAlgorithm) error {
	h.Lock()
	defer h.Unlock()

	for t, a := range h.algorithms {
		if t == algorithm.Type().ID() || a.Type().String() == algorithm.Type().String() {
			return HashAlgorithmAlreadyRegisteredError.Newf("type=%q", algorithm.Type().String())
		}
	}

	h.algorithms[algorithm.Type().ID()] = algorithm

	if h.defaultType.Empty() {
		h.defaultType = algorithm.Type()
	}

	return nil
}

func (h *Hashes) SetDefault(algorithmType HashAlgorithmType) error {
	algorithm, err := h.Algorithm(algorithmType)
	if err != nil {
		return err
	}

	h.Lock()
	defer h.Unlock()

	h.defaultType = algorithm.Type()

	return nil
}

func (h *Hashes) Default() HashAlgorithmType {
	h.RLock()
	defer h.RUnlock()

	return h.defaultType
}

func (h *Hashes) Algorithm(algorithmType HashAlgorithmType) (HashAlgorithm, error) {
	h.RLock()
	defer h.RUnlock()

	algorithm, found := h.algorithms[algorithmType.ID()]
	if !found {
		return nil, HashAlgorithmNotRegisteredError.Newf("type=%q", algorithmType.String())
	}

	return algorithm, nil
}

func (h *Hashes) AlgorithmByName(name string) (HashAlgorithm, error) {
	h.RLock()
	defer h.RUnlock()

	for _, a := range h.algorithms {
		if a.Type().String() == name {
			return a, nil
		}
	}

	return nil, HashAlgorithmNotRegisteredError.Newf("name=%q", name)
}

func (h *Hashes) NewHash(hint string, b []byte) (Hash, error) {
	return h.NewHashByType(h.Default(), hint, b)
}

func (h *Hashes) NewHashByType(algorithmType HashAlgorithmType, hint string, b []byte) (Hash, error) {
	algorithm, err := h.Algorithm(algorithmType)
	if err != nil {
		return Hash{}, err
	}

	body, err := algorithm.GenerateHash(b)
	if err != nil {
		return Hash{}, HashFailedError.New(err)
	}

	return NewHash(algorithm.Type(), hint, body)
}

// UnmarshalHash decodes the binary form and checks the body against the
// registered algorithm.
func (h *Hashes) UnmarshalHash(b []byte) (Hash, error) {
	var hash Hash
	if err := hash.UnmarshalBinary(b); err != nil {
		return Hash{}, err
	}

	return h.check(hash)
}

// ParseHash parses the text form, "<hint>:<base58 body>:<algorithm>".
func (h *Hashes) ParseHash(s string) (Hash, error) {
	n := strings.SplitN(s, ":", 3)
	if len(n) != 3 {
		return Hash{}, InvalidHashInputError.Newf("wrong format; %q", s)
	}

	algorithm, err := h.AlgorithmByName(n[2])
	if err != nil {
		return Hash{}, err
	}

	hash, err := NewHash(algorithm.Type(), n[0], base58.Decode(n[1]))
	if err != nil {
		return Hash{}, err
	}

	return h.check(hash)
}

func (h *Hashes) check(hash Hash) (Hash, error) {
	algorithm, err := h.Algorithm(hash.Algorithm())
	if err != nil {
		return Hash{}, err
	}

	hash.algorithm = algorithm.Type()

	if err := hash.IsValid(); err != nil {
		return Hash{}, err
	}

	if err := algorithm.IsValid(hash.Body()); err != nil {
		return Hash{}, err
	}

	return hash, nil
}
