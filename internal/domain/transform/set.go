package transform

import (
	"encoding/json"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Delimiter joins tokens inside a descriptor.
const Delimiter = ","

// Set is an insertion-ordered mapping from operation key to encoded token.
// Values are immutable: every transition returns a new Set and leaves the
// receiver untouched, so a Set can be shared between goroutines freely.
type Set struct {
	tokens *orderedmap.OrderedMap[string, string]
}

// Entry is one key/token pair of a Set.
type Entry struct {
	Key   string `json:"key"`
	Token string `json:"token"`
}

// NewSet returns an empty Set.
func NewSet() Set {
	return Set{tokens: orderedmap.New[string, string]()}
}

// Len returns the number of present tokens.
func (s Set) Len() int {
	if s.tokens == nil {
		return 0
	}
	return s.tokens.Len()
}

// IsEmpty reports whether the set holds no token.
func (s Set) IsEmpty() bool {
	return s.Len() == 0
}

// Get returns the token stored for key.
func (s Set) Get(key string) (string, bool) {
	if s.tokens == nil {
		return "", false
	}
	return s.tokens.Get(key)
}

// Keys returns the keys in insertion order.
func (s Set) Keys() []string {
	keys := make([]string, 0, s.Len())
	for _, e := range s.Entries() {
		keys = append(keys, e.Key)
	}
	return keys
}

// Entries returns the pairs in insertion order.
func (s Set) Entries() []Entry {
	if s.tokens == nil {
		return nil
	}
	entries := make([]Entry, 0, s.tokens.Len())
	for pair := s.tokens.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, Entry{Key: pair.Key, Token: pair.Value})
	}
	return entries
}

// Upsert returns a Set where key maps to token. An existing key keeps its
// position; a new key is appended. An empty token means "absent" and removes
// the key entirely.
func (s Set) Upsert(key, token string) Set {
	if token == "" {
		return s.Remove(key)
	}
	if current, ok := s.Get(key); ok && current == token {
		return s
	}
	next := s.clone()
	next.tokens.Set(key, token)
	return next
}

// Remove returns a Set without key.
func (s Set) Remove(key string) Set {
	if _, ok := s.Get(key); !ok {
		return s
	}
	next := s.clone()
	next.tokens.Delete(key)
	return next
}

// Equal reports whether both sets hold the same keys and tokens in the same order.
func (s Set) Equal(other Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	a, b := s.Entries(), other.Entries()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Serialize joins the tokens in insertion order. The empty set serializes to "".
func (s Set) Serialize() string {
	if s.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, s.Len())
	for pair := s.tokens.Oldest(); pair != nil; pair = pair.Next() {
		parts = append(parts, pair.Value)
	}
	return strings.Join(parts, Delimiter)
}

// String implements fmt.Stringer.
func (s Set) String() string {
	return s.Serialize()
}

// MarshalJSON encodes the set as an ordered list of entries.
func (s Set) MarshalJSON() ([]byte, error) {
	entries := s.Entries()
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}

// UnmarshalJSON decodes an ordered list of entries.
func (s *Set) UnmarshalJSON(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	next := NewSet()
	for _, e := range entries {
		next = next.Upsert(e.Key, e.Token)
	}
	*s = next
	return nil
}

func (s Set) clone() Set {
	next := NewSet()
	if s.tokens == nil {
		return next
	}
	for pair := s.tokens.Oldest(); pair != nil; pair = pair.Next() {
		next.tokens.Set(pair.Key, pair.Value)
	}
	return next
}
