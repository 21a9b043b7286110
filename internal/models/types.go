package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// SourceType identifies where a translatable text originates.
type SourceType string

const (
	SourceUI         SourceType = "ui"
	SourceSchema     SourceType = "schema"
	SourceEnum       SourceType = "enum"
	SourceContent    SourceType = "content"
	SourceMasterData SourceType = "master_data"
)

// SourceTypes lists every source type in presentation order.
func SourceTypes() []SourceType {
	return []SourceType{SourceUI, SourceSchema, SourceEnum, SourceContent, SourceMasterData}
}

// ParseSourceType converts user input into a SourceType.
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(s) {
	case SourceUI, SourceSchema, SourceEnum, SourceContent, SourceMasterData:
		return SourceType(s), nil
	case "masterData", "master-data":
		return SourceMasterData, nil
	}
	return "", fmt.Errorf("unknown source type %q", s)
}

// Status is the editorial state of a translation.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusPublished   Status = "published"
	StatusNeedsReview Status = "needs_review"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusNeedsReview:
		return true
	}
	return false
}

// MasterDataTarget tells whether a master data translation labels a type or one of its values.
type MasterDataTarget string

const (
	TargetType  MasterDataTarget = "type"
	TargetValue MasterDataTarget = "value"
)

// StringArray stores a slice of strings as JSON.
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan StringArray")
	}

	return json.Unmarshal(bytes, s)
}
