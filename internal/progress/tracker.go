// internal/progress/tracker.go
//
// Tracker keeps the set of solved secrets under one well-known key, encoded
// as a JSON array of strings. It is the game.Progress used by every host.
//
// Absent or unparsable data reads as an empty set; only backend I/O errors
// are returned.

package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/onebit/internal/game"
)

// StorageKey is the well-known key holding the solved secrets.
const StorageKey = "onebit-solved"

var _ game.Progress = (*Tracker)(nil)

// Tracker reads and writes the solved set through a KV.
type Tracker struct {
	kv  KV
	key string
}

// NewTracker returns a Tracker over kv using StorageKey.
func NewTracker(kv KV) *Tracker {
	return &Tracker{kv: kv, key: StorageKey}
}

// NewPlayerTracker returns a Tracker whose key is namespaced by player, for
// hosts that serve more than one player from the same store.
func NewPlayerTracker(kv KV, player string) *Tracker {
	return &Tracker{kv: kv, key: PlayerKey(player)}
}

// PlayerKey is the storage key of one player's solved set.
func PlayerKey(player string) string {
	if player == "" {
		return StorageKey
	}
	return StorageKey + ":" + player
}

// keyLocks serializes read-modify-write cycles per storage key, across every
// Tracker in the process.
var keyLocks sync.Map // key -> *sync.Mutex

func lockKey(key string) func() {
	mu, _ := keyLocks.LoadOrStore(key, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// Load returns a fresh set of the solved secrets.
func (t *Tracker) Load(ctx context.Context) (mapset.Set[string], error) {
	solved := mapset.New[string]()
	raw, err := t.kv.Get(ctx, t.key)
	if errors.Is(err, ErrNotFound) {
		return solved, nil
	}
	if err != nil {
		return solved, fmt.Errorf("load progress: %w", err)
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Debug().Err(err).Str("key", t.key).Msg("ignoring unreadable progress")
		return solved, nil
	}
	for _, secret := range list {
		if secret != "" {
			solved.Put(secret)
		}
	}
	return solved, nil
}

// Add records secret in the stored set and returns the result. Concurrent
// sessions of the same player each add their own solves; none overwrites
// another's.
func (t *Tracker) Add(ctx context.Context, secret string) (mapset.Set[string], error) {
	unlock := lockKey(t.key)
	defer unlock()

	solved, err := t.Load(ctx)
	if err != nil {
		return solved, err
	}
	solved.Put(secret)
	if err := t.save(ctx, solved); err != nil {
		return solved, err
	}
	return solved, nil
}

// save replaces the stored set with solved. Secrets are written sorted so the
// stored value is stable.
func (t *Tracker) save(ctx context.Context, solved mapset.Set[string]) error {
	list := make([]string, 0, solved.Size())
	solved.Each(func(secret string) { list = append(list, secret) })
	sort.Strings(list)

	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := t.kv.Set(ctx, t.key, string(b)); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Clear forgets every solved secret.
func (t *Tracker) Clear(ctx context.Context) error {
	unlock := lockKey(t.key)
	defer unlock()
	if err := t.kv.Delete(ctx, t.key); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}
