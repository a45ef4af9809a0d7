package badger

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Backend wraps the BadgerDB instance backing the tenant registry.
type Backend struct {
	db *badger.DB
}

// quietLogger routes BadgerDB's log output through slog, demoting Badger's
// info-level compaction chatter to debug so only real problems reach the
// terminal of an embedding CLI.
type quietLogger struct {
	logger *slog.Logger
}

var _ badger.Logger = (*quietLogger)(nil)

func (l *quietLogger) Errorf(msg string, items ...any) {
	l.logger.Error(fmt.Sprintf(msg, items...))
}

func (l *quietLogger) Warningf(msg string, items ...any) {
	l.logger.Warn(fmt.Sprintf(msg, items...))
}

func (l *quietLogger) Infof(msg string, items ...any) {
	l.logger.Debug(fmt.Sprintf(msg, items...))
}

func (l *quietLogger) Debugf(msg string, items ...any) {
	l.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens the registry database at path, creating the directory
// when missing. With inMemory set, the database lives in memory only and
// path is ignored.
func OpenBackend(path string, inMemory bool) (*Backend, error) {
	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("creating registry directory: %w", err)
		}
		opts = badger.DefaultOptions(path)
		// Tenant mutations are rare and must survive a crash.
		opts.SyncWrites = true
	}

	opts.Logger = &quietLogger{logger: slog.Default().With("component", "tenant-registry")}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Backend{db: db}, nil
}

// Close closes the underlying database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed reports whether the database has been closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx runs fn inside a BadgerDB transaction. The transaction is
// discarded when fn returns; write transactions must commit explicitly
// inside fn.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, update bool) error {
	tx := b.db.NewTransaction(update)
	defer tx.Discard()
	return fn(tx)
}
