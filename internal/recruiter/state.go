package recruiter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/ekit/slice"

	"github.com/jonathan/hiring-desk/internal/matching"
)

// State is a recruiter's dashboard state: the active job, ad-hoc overrides to
// it, the sort order and interview/reject decisions.
type State struct {
	SelectedJobID string               `json:"selected_job_id"`
	Overrides     matching.JobOverride `json:"overrides"`
	SortBy        matching.SortKey     `json:"sort_by"`
	Interview     []string             `json:"interview"`
	Rejected      []string             `json:"rejected"`
}

// DefaultState is the state of a recruiter who has not changed anything.
func DefaultState() *State {
	return &State{
		SelectedJobID: matching.AllPositionsID,
		SortBy:        matching.SortScoreDesc,
		Interview:     []string{},
		Rejected:      []string{},
	}
}

// InvalidSortError reports an unknown sort key
type InvalidSortError struct {
	Key string
}

func (e *InvalidSortError) Error() string {
	return fmt.Sprintf("invalid sort key: %q", e.Key)
}

// normalize fills in defaults for fields missing from older stored states.
func (s *State) normalize() {
	if s.SelectedJobID == "" {
		s.SelectedJobID = matching.AllPositionsID
	}
	if !s.SortBy.Valid() {
		s.SortBy = matching.SortScoreDesc
	}
	if s.Interview == nil {
		s.Interview = []string{}
	}
	if s.Rejected == nil {
		s.Rejected = []string{}
	}
}

// SelectJob makes id the active job and drops overrides made for the old one.
func (s *State) SelectJob(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = matching.AllPositionsID
	}
	s.SelectedJobID = id
	s.Overrides = matching.JobOverride{}
}

// ApplyOverride merges o into the current overrides.
func (s *State) ApplyOverride(o matching.JobOverride) {
	s.Overrides = s.Overrides.Merge(o)
}

// SetSort changes the sort order.
func (s *State) SetSort(key matching.SortKey) error {
	if !key.Valid() {
		return &InvalidSortError{Key: string(key)}
	}
	s.SortBy = key
	return nil
}

// MoveToInterview shortlists a candidate, withdrawing any rejection.
func (s *State) MoveToInterview(id string) {
	s.Rejected = without(s.Rejected, id)
	if !slice.Contains(s.Interview, id) {
		s.Interview = append(s.Interview, id)
	}
}

// Reject rejects a candidate, withdrawing any shortlisting.
func (s *State) Reject(id string) {
	s.Interview = without(s.Interview, id)
	if !slice.Contains(s.Rejected, id) {
		s.Rejected = append(s.Rejected, id)
	}
}

// ClearDecision removes id from both lists.
func (s *State) ClearDecision(id string) {
	s.Interview = without(s.Interview, id)
	s.Rejected = without(s.Rejected, id)
}

// Decision returns "interview", "rejected" or "" for a candidate.
func (s *State) Decision(id string) string {
	switch {
	case slice.Contains(s.Interview, id):
		return "interview"
	case slice.Contains(s.Rejected, id):
		return "rejected"
	default:
		return ""
	}
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// StateStore persists recruiter state by recruiter id. Concurrent writers are
// not coordinated; the last Save wins.
type StateStore interface {
	// Load returns DefaultState when nothing is stored.
	Load(ctx context.Context, recruiterID string) (*State, error)
	Save(ctx context.Context, recruiterID string, s *State) error
}

// CacheStore keeps recruiter state in an ecache backend
type CacheStore struct {
	cache ecache.Cache
}

// NewCacheStore namespaces c under "recruiter-state:". Entries do not expire.
func NewCacheStore(c ecache.Cache) *CacheStore {
	return &CacheStore{
		cache: &ecache.NamespaceCache{
			Namespace: "recruiter-state:",
			C:         c,
		},
	}
}

func (c *CacheStore) Load(ctx context.Context, recruiterID string) (*State, error) {
	val := c.cache.Get(ctx, recruiterID)
	if val.KeyNotFound() {
		return DefaultState(), nil
	}
	if val.Err != nil {
		return nil, fmt.Errorf("failed to load recruiter state: %w", val.Err)
	}
	raw, err := val.String()
	if err != nil {
		return nil, fmt.Errorf("failed to read recruiter state: %w", err)
	}
	return decodeState([]byte(raw))
}

func (c *CacheStore) Save(ctx context.Context, recruiterID string, s *State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode recruiter state: %w", err)
	}
	if err := c.cache.Set(ctx, recruiterID, string(raw), 0); err != nil {
		return fmt.Errorf("failed to save recruiter state: %w", err)
	}
	return nil
}

// MemoryStore keeps recruiter state in process
type MemoryStore struct {
	mu     sync.Mutex
	states map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, recruiterID string) (*State, error) {
	m.mu.Lock()
	raw, ok := m.states[recruiterID]
	m.mu.Unlock()
	if !ok {
		return DefaultState(), nil
	}
	return decodeState(raw)
}

func (m *MemoryStore) Save(_ context.Context, recruiterID string, s *State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode recruiter state: %w", err)
	}
	m.mu.Lock()
	m.states[recruiterID] = raw
	m.mu.Unlock()
	return nil
}

func decodeState(raw []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode recruiter state: %w", err)
	}
	s.normalize()
	return &s, nil
}
