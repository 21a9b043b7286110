package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrevicentegoncalves/pulwave-sub000/internal/models"
)

// unitFlags identify one translation unit on the command line.
type unitFlags struct {
	source     string
	key        string
	category   string
	table      string
	column     string
	tableLabel bool
	record     string
	enum       string
	value      string
	target     string
	typeID     string
	valueID    string
}

func (f *unitFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.source, "source", "", "Source type: ui, schema, enum, content, master_data")
	fl.StringVar(&f.key, "key", "", "Translation key (ui)")
	fl.StringVar(&f.category, "category", "", "Category (ui)")
	fl.StringVar(&f.table, "table", "", "Table name (schema, content)")
	fl.StringVar(&f.column, "column", "", "Column name (schema, content)")
	fl.BoolVar(&f.tableLabel, "table-label", false, "Edit the table display label (schema)")
	fl.StringVar(&f.record, "record", "", "Record id (content)")
	fl.StringVar(&f.enum, "enum", "", "Enum name (enum)")
	fl.StringVar(&f.value, "value", "", "Enum value (enum)")
	fl.StringVar(&f.target, "target", string(models.TargetValue), "Master data target: type or value")
	fl.StringVar(&f.typeID, "type-id", "", "Master data type id")
	fl.StringVar(&f.valueID, "value-id", "", "Master data value id")
	_ = cmd.MarkFlagRequired("source")
}

// unit builds the unit named by the flags. Missing key fields are left
// for validation to report.
func (f *unitFlags) unit() (models.Unit, error) {
	st, err := models.ParseSourceType(f.source)
	if err != nil {
		return nil, err
	}
	switch st {
	case models.SourceUI:
		return models.UIUnit{TranslationKey: f.key, Category: f.category}, nil
	case models.SourceSchema:
		return models.SchemaUnit{TableName: f.table, ColumnName: f.column, TableLabel: f.tableLabel}, nil
	case models.SourceEnum:
		return models.EnumUnit{EnumName: f.enum, EnumValue: f.value}, nil
	case models.SourceContent:
		return models.ContentUnit{TableName: f.table, ColumnName: f.column, RecordID: f.record}, nil
	case models.SourceMasterData:
		target := models.MasterDataTarget(f.target)
		if target != models.TargetType && target != models.TargetValue {
			return nil, fmt.Errorf("invalid master data target %q", f.target)
		}
		return models.MasterDataUnit{Target: target, TypeID: f.typeID, ValueID: f.valueID}, nil
	}
	return nil, fmt.Errorf("unsupported source type %q", f.source)
}

// parseSet splits "locale=text" assignments. Text may contain '='.
func parseSet(values []string) ([][2]string, error) {
	out := make([][2]string, 0, len(values))
	for _, v := range values {
		code, text, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(code) == "" {
			return nil, fmt.Errorf("invalid --set %q, want locale=text", v)
		}
		out = append(out, [2]string{strings.TrimSpace(code), text})
	}
	return out, nil
}
