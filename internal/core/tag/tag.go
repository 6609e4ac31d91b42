// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tag implements the poetry tag catalogue: paginated listing with a
field mask, counters, lookup, hard delete and a token-protected upsert.

Architecture:

  - tag.go: entity, projection and input types.
  - store.go / store_postgres.go: persistence contract and its pgx implementation.
  - service.go: validation, write authorization and change events.
  - http.go: chi routes under /api/v1/tags.
*/
package tag

import (
	"encoding/json"
	"math"

	"golang.org/x/text/language"

	"github.com/taibuivan/shici/pkg/optional"
	"github.com/taibuivan/shici/pkg/pagination"
)

// CipaiType is the category counted separately by the count operation.
const CipaiType = "词牌名"

// Input limits, in Unicode characters.
const (
	MaxNameLength      = 200
	MaxIntroduceLength = 10000
)

// MaxID is the largest id the SERIAL key column can hold.
const MaxID = math.MaxInt32

// storable reports whether id can name a stored tag.
func storable(id int) bool {
	return id >= 1 && id <= MaxID
}

// JSON field names shared by the payloads and validation details.
const (
	FieldID                 = "id"
	FieldToken              = "token"
	FieldName               = "name"
	FieldNameLocalized      = "name_localized"
	FieldType               = "type"
	FieldTypeLocalized      = "type_localized"
	FieldIntroduce          = "introduce"
	FieldIntroduceLocalized = "introduce_localized"
	FieldCount              = "count"
)

// # Entity

// Tag is a category attached to poems, with a Traditional-script variant of
// each display field.
type Tag struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	NameLocalized      *string `json:"name_localized"`
	Type               *string `json:"type"`
	TypeLocalized      *string `json:"type_localized"`
	Introduce          *string `json:"introduce"`
	IntroduceLocalized *string `json:"introduce_localized"`
}

// # Projection

// Selection is the field mask of a list query. ID is always returned.
type Selection struct {
	Name      bool
	Type      bool
	Introduce bool
	Count     bool
}

// SelectableFields lists the names accepted by [Selection.With].
var SelectableFields = []string{FieldName, FieldType, FieldIntroduce, FieldCount}

// DefaultSelection returns the mask used when the caller selects nothing.
func DefaultSelection() Selection {
	return Selection{Name: true, Type: true, Introduce: true}
}

// With returns a copy of the mask with field switched on.
// Unknown names are reported through ok.
func (s Selection) With(field string) (selection Selection, ok bool) {
	switch field {
	case FieldName:
		s.Name = true
	case FieldType:
		s.Type = true
	case FieldIntroduce:
		s.Introduce = true
	case FieldCount:
		s.Count = true
	default:
		return s, false
	}
	return s, true
}

// View is one list row. Unselected fields are omitted from JSON; a selected
// nullable column without a value is encoded as null.
type View struct {
	ID        int                     `json:"id"`
	Name      optional.Field[string]  `json:"name,omitzero"`
	Type      optional.Field[*string] `json:"type,omitzero"`
	Introduce optional.Field[*string] `json:"introduce,omitzero"`
	Count     optional.Field[int]     `json:"count,omitzero"`
}

// # Queries

// TypeFilter restricts a list query by the type column.
// The zero value matches every tag.
type TypeFilter struct {
	set   bool
	value *string
}

// AnyType matches every tag.
func AnyType() TypeFilter { return TypeFilter{} }

// NoType matches tags whose type is NULL.
func NoType() TypeFilter { return TypeFilter{set: true} }

// TypeEquals matches tags whose type equals value exactly.
func TypeEquals(value string) TypeFilter { return TypeFilter{set: true, value: &value} }

// Active reports whether the filter restricts anything.
func (f TypeFilter) Active() bool { return f.set }

// Value returns the required type, or nil when the filter matches NULL.
func (f TypeFilter) Value() *string { return f.value }

// ListQuery is the validated input of the list operation.
type ListQuery struct {
	Select Selection
	Type   TypeFilter
	Page   pagination.Params
	Lang   language.Tag
}

// Counts is the result of the count operation. It encodes as
// [total, cipai] to keep the two-element array shape of the API.
type Counts struct {
	Total int
	Cipai int
}

// MarshalJSON implements [json.Marshaler].
func (c Counts) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.Total, c.Cipai})
}

// # Writes

// CreateInput is the body of the upsert operation. A JSON null is treated
// the same as an omitted key.
type CreateInput struct {
	ID                 optional.Field[int]    `json:"id"`
	Token              string                 `json:"token"`
	Name               string                 `json:"name"`
	NameLocalized      optional.Field[string] `json:"name_localized"`
	Type               optional.Field[string] `json:"type"`
	TypeLocalized      optional.Field[string] `json:"type_localized"`
	Introduce          optional.Field[string] `json:"introduce"`
	IntroduceLocalized optional.Field[string] `json:"introduce_localized"`
}

// Attributes are the writable columns of a tag. It carries neither the id nor
// the write token. A nil pointer leaves the column untouched on update and
// NULL on insert.
type Attributes struct {
	Name               string
	NameLocalized      *string
	Type               *string
	TypeLocalized      *string
	Introduce          *string
	IntroduceLocalized *string
}

// attributes copies the payload into the store-facing struct.
func (input CreateInput) attributes() Attributes {
	return Attributes{
		Name:               input.Name,
		NameLocalized:      input.NameLocalized.Ptr(),
		Type:               input.Type.Ptr(),
		TypeLocalized:      input.TypeLocalized.Ptr(),
		Introduce:          input.Introduce.Ptr(),
		IntroduceLocalized: input.IntroduceLocalized.Ptr(),
	}
}

// # Events

// Event actions published after a successful write.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event is the payload of a tag change notification.
type Event struct {
	Action string `json:"action"`
	ID     int    `json:"id"`
	Tag    *Tag   `json:"tag"`
}
