package queue

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/catatsuy/listdict/internal/listdict"
	"github.com/catatsuy/listdict/internal/model"
	"github.com/catatsuy/listdict/internal/urlutil"
	"github.com/google/uuid"
)

// MaxKeyLength matches the memcached key limit.
const MaxKeyLength = 250

var (
	ErrInvalidKey = errors.New("invalid key")
	ErrInvalidURL = errors.New("invalid url")
)

// Queue is a concurrency-safe keyed queue of items. Each call holds the
// lock for its whole duration.
type Queue struct {
	mu sync.Mutex

	items *listdict.Dictionary[*model.Item]
	bytes int64

	keepFragment bool
	nextCAS      uint64

	logger *slog.Logger
}

type Option func(*Queue)

// WithKeepFragment keeps URL fragments in keys built by AddURL.
func WithKeepFragment(keep bool) Option {
	return func(q *Queue) { q.keepFragment = keep }
}

func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

func New(opts ...Option) *Queue {
	q := &Queue{
		items:   listdict.New[*model.Item](),
		nextCAS: 1,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// ValidateKey rejects keys that cannot travel over the text protocol:
// empty keys, keys longer than MaxKeyLength, and keys containing spaces
// or control bytes.
func ValidateKey(key string) error {
	if key == "" || len(key) > MaxKeyLength {
		return ErrInvalidKey
	}
	for i := 0; i < len(key); i++ {
		if c := key[i]; c <= ' ' || c == 0x7f {
			return ErrInvalidKey
		}
	}
	return nil
}

// Add stores value under key. It returns false without changing anything
// if key is already queued.
func (q *Queue) Add(key string, flags uint32, value []byte, toFront bool) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	return q.addLocked(key, flags, value, toFront), nil
}

// Push stores value under a newly generated key and returns that key.
func (q *Queue) Push(flags uint32, value []byte, toFront bool) (string, error) {
	key := uuid.NewString()

	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.addLocked(key, flags, value, toFront) {
		return "", fmt.Errorf("generated key %s already queued", key)
	}
	return key, nil
}

// AddURL queues raw under its normalized form. The stored value is the
// trimmed URL as given.
func (q *Queue) AddURL(raw string, toFront bool) (string, bool, error) {
	key, ok := urlutil.NormalizeURL(raw, q.keepFragment)
	if !ok {
		return "", false, ErrInvalidURL
	}
	if err := ValidateKey(key); err != nil {
		return "", false, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	return key, q.addLocked(key, 0, []byte(strings.TrimSpace(raw)), toFront), nil
}

// AddLinks queues every http(s) link found in the HTML read from r and
// returns how many were new.
func (q *Queue) AddLinks(r io.Reader, base string, toFront bool) (int, error) {
	links, err := urlutil.ExtractLinks(r, base)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, link := range links {
		_, ok, err := q.AddURL(link, toFront)
		if err != nil {
			q.logger.Debug("skip link", "link", link, "err", err)
			continue
		}
		if ok {
			added++
		}
	}
	q.logger.Debug("links queued", "base", base, "found", len(links), "added", added)
	return added, nil
}

// Get returns the item stored under key. An invalid key is reported as
// ErrInvalidKey rather than as a miss.
func (q *Queue) Get(key string) (*model.Item, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	return item.Clone(), true, nil
}

// Peek returns the first item without removing it.
func (q *Queue) Peek() (*model.Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.items.PeekFirst()
	if !ok {
		return nil, false
	}
	return item.Clone(), true
}

// Shift removes and returns the first item.
func (q *Queue) Shift() (*model.Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.items.RemoveFirst()
	if !ok {
		return nil, false
	}
	q.bytes -= itemSize(item)
	return item, true
}

// Rotate moves the first item to the back of the queue and returns it.
func (q *Queue) Rotate() (*model.Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.items.MoveFirstToEnd()
	if !ok {
		return nil, false
	}
	return item.Clone(), true
}

// Take removes and returns the item stored under key.
func (q *Queue) Take(key string) (*model.Item, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.items.Remove(key)
	if !ok {
		return nil, false, nil
	}
	q.bytes -= itemSize(item)
	return item, true, nil
}

func (q *Queue) Delete(key string) (bool, error) {
	_, ok, err := q.Take(key)
	return ok, err
}

func (q *Queue) Flush() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items.Clear()
	q.bytes = 0
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.items.Len()
}

// Bytes returns the total size of queued keys and values.
func (q *Queue) Bytes() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.bytes
}

// Keys returns the queued keys from first to last.
func (q *Queue) Keys() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	keys := make([]string, 0, q.items.Len())
	for key := range q.items.All() {
		keys = append(keys, key)
	}
	return keys
}

func (q *Queue) addLocked(key string, flags uint32, value []byte, toFront bool) bool {
	if q.items.Contains(key) {
		return false
	}

	v := make([]byte, len(value))
	copy(v, value)
	item := &model.Item{
		Key:   key,
		Value: v,
		Flags: flags,
		CAS:   q.nextCASLocked(),
	}
	q.items.Add(key, item, toFront)
	q.bytes += itemSize(item)
	return true
}

func (q *Queue) nextCASLocked() uint64 {
	v := q.nextCAS
	q.nextCAS++
	if q.nextCAS == 0 {
		q.nextCAS = 1
	}
	return v
}

func itemSize(item *model.Item) int64 {
	return int64(len(item.Key) + len(item.Value))
}
