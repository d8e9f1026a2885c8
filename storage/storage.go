package storage

// Storage is the ordered key/value store. Get returns RecordNotFoundError
// for the unknown key.
type Storage interface {
	Close() error
	Get(key []byte) ([]byte, error)
	Exists(key []byte) (bool, error)
	Insert(key []byte, value []byte) error
	Update(key []byte, value []byte) error
	Delete(key []byte) error
	Iterator(
		prefix []byte,
		reverse bool,
		callback func([]byte, []byte) bool,
	) error
	Batch() Batch
	// WriteBatch applies every record of the batch or nothing.
	WriteBatch(Batch) error
}

type Batch interface {
	Len() int
	Put(key []byte, value []byte)
	Delete(key []byte)
}
