package resolver

import (
	"github.com/google/uuid"
)

// Kind names the entity a reference points to.
type Kind string

const (
	KindCategory Kind = "category"
	KindAccount  Kind = "account"
)

type cacheKey struct {
	kind   Kind
	userID int64
	name   string
}

// ImportBatch is the resolution state of a single import call. It is not safe
// for concurrent use and must not outlive the call that created it.
type ImportBatch struct {
	ID uuid.UUID

	ids     map[cacheKey]int64
	created map[Kind]int
}

// NewImportBatch starts an empty batch with a fresh id.
func NewImportBatch() *ImportBatch {
	return &ImportBatch{
		ID:      uuid.New(),
		ids:     map[cacheKey]int64{},
		created: map[Kind]int{},
	}
}

func (b *ImportBatch) lookup(kind Kind, userID int64, name string) (int64, bool) {
	id, ok := b.ids[cacheKey{kind: kind, userID: userID, name: name}]
	return id, ok
}

func (b *ImportBatch) remember(kind Kind, userID int64, name string, id int64) {
	b.ids[cacheKey{kind: kind, userID: userID, name: name}] = id
}

// Created reports how many entities of kind the batch has created so far.
func (b *ImportBatch) Created(kind Kind) int {
	return b.created[kind]
}

// Cached reports how many distinct names of kind the batch has resolved.
func (b *ImportBatch) Cached(kind Kind) int {
	n := 0
	for k := range b.ids {
		if k.kind == kind {
			n++
		}
	}
	return n
}
