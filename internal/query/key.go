package query

import (
	"strconv"
	"strings"
)

// Scope distinguishes collection reads from single-entity reads.
type Scope string

const (
	// ScopeList identifies a collection read, optionally qualified by a
	// canonical filter string.
	ScopeList Scope = "list"
	// ScopeDetail identifies a single-entity read qualified by its id.
	ScopeDetail Scope = "detail"
)

// Key identifies one cached query. Keys with the same canonical encoding
// refer to the same cache slot; invalidation matches on entity and scope,
// so every list key of an entity falls together regardless of qualifier.
type Key struct {
	Entity    string
	Scope     Scope
	Qualifier string
}

// ListKey returns the unqualified list key for an entity.
func ListKey(entity string) Key {
	return Key{Entity: entity, Scope: ScopeList}
}

// FilteredListKey returns a list key qualified by a canonical filter
// encoding. Callers must produce the qualifier deterministically.
func FilteredListKey(entity, filter string) Key {
	return Key{Entity: entity, Scope: ScopeList, Qualifier: filter}
}

// DetailKey returns the detail key for an entity id.
func DetailKey(entity string, id int64) Key {
	return Key{Entity: entity, Scope: ScopeDetail, Qualifier: strconv.FormatInt(id, 10)}
}

// String returns the canonical encoding used as the map key. The unit
// separator keeps qualifiers containing slashes unambiguous.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Entity)
	b.WriteByte(0x1f)
	b.WriteString(string(k.Scope))
	if k.Qualifier != "" {
		b.WriteByte(0x1f)
		b.WriteString(k.Qualifier)
	}
	return b.String()
}
