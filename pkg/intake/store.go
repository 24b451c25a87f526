package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/buntdb"

	"github.com/goliatone/go-leadform/pkg/lead"
)

const (
	leadTable  = "lead"
	seqKey     = "lead_seq"
	indexBySeq = "leads_seq"

	// MemoryPath opens a store that lives only for the process lifetime.
	MemoryPath = ":memory:"
)

// ErrLeadNotFound is returned by Store.Get for unknown ids.
var ErrLeadNotFound = errors.New("intake: lead not found")

// StoredLead is a lead together with its insertion sequence.
type StoredLead struct {
	lead.Lead
	Seq int `json:"seq"`
}

// Store persists leads in a buntdb file. Leads are keyed by id and indexed by
// insertion order.
type Store struct {
	path string
	db   *buntdb.DB
}

// Open opens or creates the store at path. An empty path opens an in-memory
// store.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = MemoryPath
	}
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("intake: open store %q: %w", path, err)
	}
	err = db.CreateIndex(indexBySeq, leadTable+":*", buntdb.IndexJSON("seq"))
	if err != nil && !errors.Is(err, buntdb.ErrIndexExists) {
		_ = db.Close()
		return nil, fmt.Errorf("intake: create index: %w", err)
	}
	if path != MemoryPath {
		_ = db.Shrink()
	}
	return &Store{path: path, db: db}, nil
}

// Path reports the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Submit saves the lead. It satisfies lead.Intake.
func (s *Store) Submit(ctx context.Context, l lead.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.Save(l)
	return err
}

// Save stores l and returns the stored record. Saving an id twice replaces
// the earlier record but keeps its sequence.
func (s *Store) Save(l lead.Lead) (StoredLead, error) {
	if strings.TrimSpace(l.ID) == "" {
		return StoredLead{}, errors.New("intake: lead id is required")
	}
	stored := StoredLead{Lead: l}
	err := s.db.Update(func(tx *buntdb.Tx) error {
		key := genKey(l.ID)
		if raw, err := tx.Get(key); err == nil {
			var existing StoredLead
			if err := json.Unmarshal([]byte(raw), &existing); err == nil {
				stored.Seq = existing.Seq
			}
		}
		if stored.Seq == 0 {
			next, err := nextSeq(tx)
			if err != nil {
				return err
			}
			stored.Seq = next
		}
		payload, err := json.Marshal(stored)
		if err != nil {
			return err
		}
		_, _, err = tx.Set(key, string(payload), nil)
		return err
	})
	if err != nil {
		return StoredLead{}, fmt.Errorf("intake: save lead %s: %w", l.ID, err)
	}
	return stored, nil
}

// Get loads one lead by id.
func (s *Store) Get(id string) (StoredLead, error) {
	var stored StoredLead
	err := s.db.View(func(tx *buntdb.Tx) error {
		raw, err := tx.Get(genKey(id))
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(raw), &stored)
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return StoredLead{}, fmt.Errorf("%w: %s", ErrLeadNotFound, id)
	}
	if err != nil {
		return StoredLead{}, fmt.Errorf("intake: get lead %s: %w", id, err)
	}
	return stored, nil
}

// List returns up to limit leads, newest first. A limit of zero or less
// returns every lead.
func (s *Store) List(limit int) ([]StoredLead, error) {
	leads := []StoredLead{}
	err := s.db.View(func(tx *buntdb.Tx) error {
		return tx.Descend(indexBySeq, func(_, val string) bool {
			var stored StoredLead
			if err := json.Unmarshal([]byte(val), &stored); err == nil {
				leads = append(leads, stored)
			}
			return limit <= 0 || len(leads) < limit
		})
	})
	if err != nil {
		return nil, fmt.Errorf("intake: list leads: %w", err)
	}
	return leads, nil
}

// Count reports how many leads are stored.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(leadTable+":*", func(_, _ string) bool {
			count++
			return true
		})
	})
	if err != nil {
		return 0, fmt.Errorf("intake: count leads: %w", err)
	}
	return count, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func genKey(id string) string {
	return leadTable + ":" + id
}

func nextSeq(tx *buntdb.Tx) (int, error) {
	seq := 1
	if raw, err := tx.Get(seqKey); err == nil {
		current, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, fmt.Errorf("corrupt sequence %q: %w", raw, convErr)
		}
		seq = current + 1
	}
	if _, _, err := tx.Set(seqKey, strconv.Itoa(seq), nil); err != nil {
		return 0, err
	}
	return seq, nil
}
