package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInconsistentRecord is returned for records whose key fields match no source type shape.
var ErrInconsistentRecord = errors.New("record key fields do not match its source type")

// TableLabelKey is the secondary key of a schema unit that labels the table itself.
const TableLabelKey = ""

// TypeLabelKey is the secondary key of a master data unit that labels the type itself.
const TypeLabelKey = ""

const keySep = "|"

// Unit identifies one thing that needs a translation per locale. It is
// implemented by UIUnit, SchemaUnit, EnumUnit, ContentUnit and MasterDataUnit.
type Unit interface {
	SourceType() SourceType
	// Key is the canonical identity of the unit.
	Key() string
	// Primary is the top-level grouping key.
	Primary() string
	// Secondary is the nested grouping key; units without one return "".
	Secondary() string
	// Apply stamps the unit's key fields on t.
	Apply(t *Translation)
	// Validate checks that every required key field is present.
	Validate() error

	sealed()
}

// UnitVisitor has one method per unit variant. Adding a variant adds a
// method, so every visitor must handle it before the code compiles.
type UnitVisitor interface {
	VisitUI(UIUnit) error
	VisitSchema(SchemaUnit) error
	VisitEnum(EnumUnit) error
	VisitContent(ContentUnit) error
	VisitMasterData(MasterDataUnit) error
}

// Visit dispatches u to the matching visitor method.
func Visit(u Unit, v UnitVisitor) error {
	switch u := u.(type) {
	case UIUnit:
		return v.VisitUI(u)
	case SchemaUnit:
		return v.VisitSchema(u)
	case EnumUnit:
		return v.VisitEnum(u)
	case ContentUnit:
		return v.VisitContent(u)
	case MasterDataUnit:
		return v.VisitMasterData(u)
	}
	return fmt.Errorf("unsupported unit type %T", u)
}

// MissingFieldError reports a required key field left empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return e.Field + " is required"
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &MissingFieldError{Field: field}
	}
	return nil
}

func joinKey(parts ...string) string {
	return strings.Join(parts, keySep)
}

// UIUnit is a user interface string addressed by a dot-namespaced key.
type UIUnit struct {
	TranslationKey string
	Category       string
}

func (UIUnit) sealed() {}
func (UIUnit) SourceType() SourceType { return SourceUI }
func (u UIUnit) Key() string { return joinKey(string(SourceUI), u.TranslationKey) }
func (u UIUnit) Primary() string { return u.TranslationKey }
func (UIUnit) Secondary() string { return "" }
func (u UIUnit) Validate() error { return required("translation_key", u.TranslationKey) }
func (u UIUnit) Apply(t *Translation) {
	t.SourceType = SourceUI
	t.TranslationKey = u.TranslationKey
	t.Category = u.Category
	t.UnitKey = u.Key()
}

// SchemaUnit labels a table or one of its columns.
type SchemaUnit struct {
	TableName  string
	ColumnName string
	// TableLabel marks a unit with no column, the display label of the table.
	TableLabel bool
}

func (SchemaUnit) sealed() {}
func (SchemaUnit) SourceType() SourceType { return SourceSchema }
func (u SchemaUnit) Key() string { return joinKey(string(SourceSchema), u.TableName, u.column()) }
func (u SchemaUnit) Primary() string { return u.TableName }
func (u SchemaUnit) Secondary() string { return u.column() }

// column is empty for table labels, whatever ColumnName holds.
func (u SchemaUnit) column() string {
	if u.TableLabel {
		return ""
	}
	return u.ColumnName
}
func (u SchemaUnit) Validate() error {
	if err := required("table_name", u.TableName); err != nil {
		return err
	}
	if u.TableLabel {
		return nil
	}
	return required("column_name", u.ColumnName)
}
func (u SchemaUnit) Apply(t *Translation) {
	t.SourceType = SourceSchema
	t.TableName = u.TableName
	t.ColumnName = u.column()
	t.UnitKey = u.Key()
}

// EnumUnit labels one value of an enumerated type.
type EnumUnit struct {
	EnumName  string
	EnumValue string
}

func (EnumUnit) sealed() {}
func (EnumUnit) SourceType() SourceType { return SourceEnum }
func (u EnumUnit) Key() string { return joinKey(string(SourceEnum), u.EnumName, u.EnumValue) }
func (u EnumUnit) Primary() string { return u.EnumName }
func (u EnumUnit) Secondary() string { return u.EnumValue }
func (u EnumUnit) Validate() error {
	if err := required("enum_name", u.EnumName); err != nil {
		return err
	}
	return required("enum_value", u.EnumValue)
}
func (u EnumUnit) Apply(t *Translation) {
	t.SourceType = SourceEnum
	t.EnumName = u.EnumName
	t.EnumValue = u.EnumValue
	t.UnitKey = u.Key()
}

// ContentUnit is one field of one stored record.
type ContentUnit struct {
	TableName  string
	ColumnName string
	RecordID   string
}

func (ContentUnit) sealed() {}
func (ContentUnit) SourceType() SourceType { return SourceContent }
func (u ContentUnit) Key() string {
	return joinKey(string(SourceContent), u.TableName, u.RecordID, u.ColumnName)
}
func (u ContentUnit) Primary() string { return u.TableName + "::" + u.RecordID }
func (u ContentUnit) Secondary() string { return u.ColumnName }
func (u ContentUnit) Validate() error {
	if err := required("table_name", u.TableName); err != nil {
		return err
	}
	if err := required("column_name", u.ColumnName); err != nil {
		return err
	}
	return required("record_id", u.RecordID)
}
func (u ContentUnit) Apply(t *Translation) {
	t.SourceType = SourceContent
	t.TableName = u.TableName
	t.ColumnName = u.ColumnName
	t.RecordID = u.RecordID
	t.UnitKey = u.Key()
}

// MasterDataUnit labels a master data type, or one value of it.
// Values may carry their parent type id so they group under it.
type MasterDataUnit struct {
	Target  MasterDataTarget
	TypeID  string
	ValueID string
}

func (MasterDataUnit) sealed() {}
func (MasterDataUnit) SourceType() SourceType { return SourceMasterData }
func (u MasterDataUnit) Key() string {
	if u.Target == TargetValue {
		return joinKey(string(SourceMasterData), string(TargetValue), u.TypeID, u.ValueID)
	}
	return joinKey(string(SourceMasterData), string(TargetType), u.TypeID)
}
func (u MasterDataUnit) Primary() string { return u.TypeID }
func (u MasterDataUnit) Secondary() string {
	if u.Target == TargetValue {
		return u.ValueID
	}
	return TypeLabelKey
}
func (u MasterDataUnit) Validate() error {
	switch u.Target {
	case TargetType:
		return required("master_data_type_id", u.TypeID)
	case TargetValue:
		return required("master_data_value_id", u.ValueID)
	}
	return &MissingFieldError{Field: "master_data_target"}
}
func (u MasterDataUnit) Apply(t *Translation) {
	t.SourceType = SourceMasterData
	t.MasterDataTarget = u.Target
	t.MasterDataTypeID = u.TypeID
	t.MasterDataValueID = ""
	if u.Target == TargetValue {
		t.MasterDataValueID = u.ValueID
	}
	t.UnitKey = u.Key()
}

// UnitOf derives the translation unit of t from its key fields alone.
func UnitOf(t *Translation) (Unit, error) {
	var u Unit
	switch t.SourceType {
	case SourceUI:
		u = UIUnit{TranslationKey: t.TranslationKey, Category: t.Category}
	case SourceSchema:
		u = SchemaUnit{TableName: t.TableName, ColumnName: t.ColumnName, TableLabel: t.ColumnName == ""}
	case SourceEnum:
		u = EnumUnit{EnumName: t.EnumName, EnumValue: t.EnumValue}
	case SourceContent:
		u = ContentUnit{TableName: t.TableName, ColumnName: t.ColumnName, RecordID: t.RecordID}
	case SourceMasterData:
		mu := MasterDataUnit{Target: t.MasterDataTarget, TypeID: t.MasterDataTypeID, ValueID: t.MasterDataValueID}
		if mu.Target == TargetType && t.MasterDataValueID != "" {
			return nil, fmt.Errorf("%w: master data type record also sets a value id", ErrInconsistentRecord)
		}
		u = mu
	default:
		return nil, fmt.Errorf("%w: unknown source type %q", ErrInconsistentRecord, t.SourceType)
	}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s %v", ErrInconsistentRecord, t.SourceType, err)
	}
	return u, nil
}

// SameUnit reports whether t belongs to u.
func SameUnit(u Unit, t *Translation) bool {
	other, err := UnitOf(t)
	if err != nil {
		return false
	}
	return other.Key() == u.Key()
}
