package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Translation is one localized value of a translation unit in one locale.
// Only the key fields of its source type are populated.
type Translation struct {
	bun.BaseModel `bun:"table:translations,alias:t"`

	ID         string     `bun:"id,pk" json:"id,omitempty"`
	SourceType SourceType `bun:"source_type,notnull" json:"source_type"`
	UnitKey    string     `bun:"unit_key,notnull" json:"unit_key,omitempty"`

	// ui
	TranslationKey string `bun:"translation_key,nullzero" json:"translation_key,omitempty"`
	Category       string `bun:"category,nullzero" json:"category,omitempty"`

	// schema and content; an empty schema column is the table display label
	TableName  string `bun:"table_name,nullzero" json:"table_name,omitempty"`
	ColumnName string `bun:"column_name,nullzero" json:"column_name,omitempty"`
	RecordID   string `bun:"record_id,nullzero" json:"record_id,omitempty"`

	// enum
	EnumName  string `bun:"enum_name,nullzero" json:"enum_name,omitempty"`
	EnumValue string `bun:"enum_value,nullzero" json:"enum_value,omitempty"`

	// master_data
	MasterDataTarget  MasterDataTarget `bun:"master_data_target,nullzero" json:"master_data_target,omitempty"`
	MasterDataTypeID  string           `bun:"master_data_type_id,nullzero" json:"master_data_type_id,omitempty"`
	MasterDataValueID string           `bun:"master_data_value_id,nullzero" json:"master_data_value_id,omitempty"`

	LocaleCode  string    `bun:"locale_code,notnull" json:"locale_code"`
	Text        string    `bun:"text,type:text,notnull" json:"text"`
	Status      Status    `bun:"status,notnull,default:'draft'" json:"status"`
	Description string    `bun:"description,type:text,nullzero" json:"description,omitempty"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

var _ bun.BeforeAppendModelHook = (*Translation)(nil)

// BeforeAppendModel keeps the derived unit key and timestamps in sync on writes.
func (t *Translation) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if u, err := UnitOf(t); err == nil {
		t.UnitKey = u.Key()
	}
	switch query.(type) {
	case *bun.InsertQuery:
		now := time.Now()
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		t.UpdatedAt = now
	case *bun.UpdateQuery:
		t.UpdatedAt = time.Now()
	}
	return nil
}

// IsSaved reports whether the record already exists in the store.
func (t *Translation) IsSaved() bool {
	return t.ID != ""
}

// Label returns the most specific key field of the record, for display.
func (t *Translation) Label() string {
	switch t.SourceType {
	case SourceUI:
		return t.TranslationKey
	case SourceSchema:
		if t.ColumnName == "" {
			return t.TableName
		}
		return t.TableName + "." + t.ColumnName
	case SourceEnum:
		return t.EnumName + "." + t.EnumValue
	case SourceContent:
		return t.TableName + "." + t.ColumnName + "#" + t.RecordID
	case SourceMasterData:
		if t.MasterDataTarget == TargetValue {
			return t.MasterDataValueID
		}
		return t.MasterDataTypeID
	}
	return ""
}

// Category groups UI strings in the editor filters.
type Category struct {
	bun.BaseModel `bun:"table:translation_categories,alias:tc"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Name        string `bun:"name,unique,notnull" json:"name"`
	Description string `bun:"description,nullzero" json:"description,omitempty"`
}

// Locale is an entry of the locale registry.
type Locale struct {
	bun.BaseModel `bun:"table:locales,alias:l"`

	Code      string      `bun:"code,pk" json:"code"`
	Name      string      `bun:"name,notnull" json:"name"`
	Position  int         `bun:"position,notnull,default:0" json:"position"`
	IsActive  bool        `bun:"is_active,notnull" json:"is_active"`
	Fallbacks StringArray `bun:"fallbacks,type:json" json:"fallbacks,omitempty"`
}
