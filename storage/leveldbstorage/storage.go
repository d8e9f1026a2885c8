package leveldbstorage

import (
	"sync"

	"github.com/inconshreveable/log15"
	"github.com/syndtr/goleveldb/leveldb"
	leveldbErrors "github.com/syndtr/goleveldb/leveldb/errors"
	leveldbIterator "github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"
	leveldbUtil "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/spikeekips/partivotes/common"
	"github.com/spikeekips/partivotes/storage"
)

var log log15.Logger = log15.New("module", "leveldbstorage")

func Log() log15.Logger {
	return log
}

// Config.Path is the directory of leveldb; empty Path is memory storage.
type Config struct {
	Path string `yaml:"path"`
}

func (c Config) IsMemory() bool {
	return len(c.Path) < 1
}

type Storage struct {
	sync.RWMutex
	*common.Logger
	config Config
	db     *leveldb.DB
}

// NewStorage creates new storage; it fails when the storage already exists.
func NewStorage(config Config) (*Storage, error) {
	return newStorage(config, true)
}

// OpenStorage opens the existing storage.
func OpenStorage(config Config) (*Storage, error) {
	return newStorage(config, false)
}

func newStorage(config Config, create bool) (*Storage, error) {
	s := &Storage{
		Logger: common.NewLogger(log, "path", config.Path),
		config: config,
	}

	if err := s.open(create); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Storage) open(create bool) error {
	s.Lock()
	defer s.Unlock()

	if s.db != nil {
		return DBNotClosedError
	}

	var db *leveldb.DB
	var err error

	if s.config.IsMemory() {
		db, err = leveldb.Open(leveldbStorage.NewMemStorage(), nil)
	} else {
		opts := &opt.Options{}
		if create {
			opts.ErrorIfExist = true
		} else {
			opts.ErrorIfMissing = true
		}
		db, err = leveldb.OpenFile(s.config.Path, opts)
	}

	if err != nil {
		return LevelDBError.New(err)
	}

	s.db = db
	s.Log().Debug("storage opened", "create", create, "memory", s.config.IsMemory())

	return nil
}

func (s *Storage) Config() Config {
	return s.config
}

func (s *Storage) Close() error {
	s.Lock()
	defer s.Unlock()

	if s.db == nil {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return LevelDBError.New(err)
	}

	s.db = nil
	s.Log().Debug("storage closed")

	return nil
}

func (s *Storage) conn() (*leveldb.DB, error) {
	s.RLock()
	defer s.RUnlock()

	if s.db == nil {
		return nil, DBClosedError
	}

	return s.db, nil
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if err == leveldbErrors.ErrNotFound {
		return storage.RecordNotFoundError.New(err)
	}

	return LevelDBError.New(err)
}

func (s *Storage) Get(key []byte) ([]byte, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	value, err := db.Get(key, nil)
	if err != nil {
		return nil, wrapError(err)
	}

	return value, nil
}

func (s *Storage) Exists(key []byte) (bool, error) {
	db, err := s.conn()
	if err != nil {
		return false, err
	}

	exists, err := db.Has(key, nil)
	if err != nil {
		return false, wrapError(err)
	}

	return exists, nil
}

func (s *Storage) Insert(key, value []byte) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	if found, err := s.Exists(key); err != nil {
		return err
	} else if found {
		return storage.RecordAlreadyExistsError.Newf("key=%q", key)
	}

	return wrapError(db.Put(key, value, nil))
}

func (s *Storage) Update(key, value []byte) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	if found, err := s.Exists(key); err != nil {
		return err
	} else if !found {
		return storage.RecordNotFoundError.Newf("key=%q", key)
	}

	return wrapError(db.Put(key, value, nil))
}

func (s *Storage) Delete(key []byte) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	if found, err := s.Exists(key); err != nil {
		return err
	} else if !found {
		return storage.RecordNotFoundError.Newf("key=%q", key)
	}

	return wrapError(db.Delete(key, nil))
}

// Iterator calls callback by key order under prefix until callback returns
// false.
func (s *Storage) Iterator(prefix []byte, reverse bool, callback func([]byte, []byte) bool) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	var slice *leveldbUtil.Range
	if prefix != nil {
		slice = leveldbUtil.BytesPrefix(prefix)
	}

	iter := db.NewIterator(slice, nil)
	defer iter.Release()

	var next func() bool
	if reverse {
		if !iter.Last() {
			return wrapError(iter.Error())
		}

		next = iter.Prev
	} else {
		if !iter.First() {
			return wrapError(iter.Error())
		}

		next = iter.Next
	}

	if iteratorCallback(iter, callback) {
		for next() {
			if !iteratorCallback(iter, callback) {
				break
			}
		}
	}

	return wrapError(iter.Error())
}

func (s *Storage) Batch() storage.Batch {
	return &leveldb.Batch{}
}

func (s *Storage) WriteBatch(batch storage.Batch) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	b, ok := batch.(*leveldb.Batch)
	if !ok {
		return WrongBatchError.Newf("type=%T", batch)
	}

	if err := db.Write(b, nil); err != nil {
		return wrapError(err)
	}

	return nil
}

func iteratorCallback(iter leveldbIterator.Iterator, callback func([]byte, []byte) bool) bool {
	key := make([]byte, len(iter.Key()))
	copy(key, iter.Key())

	value := make([]byte, len(iter.Value()))
	copy(value, iter.Value())

	return callback(key, value)
}
