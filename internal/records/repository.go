package records

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Storage persists records. Implementations need not be safe for
// concurrent Append; the Repository serializes writes.
type Storage interface {
	Load(ctx context.Context) ([]Record, error)
	Append(ctx context.Context, rec Record) error
	Name() string
	Close() error
}

// Repository owns the record list and its id sequence
type Repository struct {
	storage Storage
	logger  *logrus.Logger

	mu     sync.Mutex
	lastID int64
	primed bool
}

// NewRepository creates a repository over storage
func NewRepository(storage Storage, logger *logrus.Logger) *Repository {
	return &Repository{
		storage: storage,
		logger:  logger,
	}
}

// Load returns every stored record in insertion order
func (r *Repository) Load(ctx context.Context) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records from %s: %w", r.storage.Name(), err)
	}
	r.observe(records)
	return records, nil
}

// NextID returns the id the next appended record will receive
func (r *Repository) NextID(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.prime(ctx); err != nil {
		return 0, err
	}
	return r.lastID + 1, nil
}

// Append validates rec, assigns its id and creation time, and stores it
func (r *Repository) Append(ctx context.Context, rec Record) (Record, error) {
	rec = rec.normalize()
	if err := rec.validate(); err != nil {
		return Record{}, fmt.Errorf("cnpj %q: %w", rec.CNPJ, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.prime(ctx); err != nil {
		return Record{}, err
	}

	rec.ID = r.lastID + 1
	rec.CreatedAt = time.Now().UTC().Truncate(time.Second)

	if err := r.storage.Append(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("failed to append record to %s: %w", r.storage.Name(), err)
	}
	r.lastID = rec.ID

	r.logger.WithFields(logrus.Fields{
		"id":      rec.ID,
		"cnpj":    rec.CNPJ,
		"storage": r.storage.Name(),
	}).Info("Record appended")

	return rec, nil
}

// Close releases the storage
func (r *Repository) Close() error {
	return r.storage.Close()
}

// StorageName reports which backend holds the records
func (r *Repository) StorageName() string {
	return r.storage.Name()
}

// prime reads the highest stored id once; the caller holds mu
func (r *Repository) prime(ctx context.Context) error {
	if r.primed {
		return nil
	}
	records, err := r.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load records from %s: %w", r.storage.Name(), err)
	}
	r.observe(records)
	return nil
}

func (r *Repository) observe(records []Record) {
	for _, rec := range records {
		if rec.ID > r.lastID {
			r.lastID = rec.ID
		}
	}
	r.primed = true
}
