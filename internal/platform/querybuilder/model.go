package querybuilder

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// InsertModel builds a single-row INSERT from the db tags of model.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	return InsertModels(table, []any{model}, suffix)
}

// InsertModels builds one multi-row INSERT. Every model must expose the same
// db columns in the same order, which holds for values of one struct type.
func InsertModels(table string, models []any, suffix string) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, fmt.Errorf("insert models are required")
	}

	var columns []string
	rows := make([][]any, 0, len(models))
	for idx, model := range models {
		cols, vals, err := fieldsOf(model)
		if err != nil {
			return "", nil, fmt.Errorf("model %d: %w", idx, err)
		}
		if columns == nil {
			columns = cols
		} else if !slices.Equal(columns, cols) {
			return "", nil, fmt.Errorf("model %d columns %v differ from %v", idx, cols, columns)
		}
		rows = append(rows, vals)
	}
	return insert(table, columns, rows, suffix)
}

// Columns lists the db-tagged columns of model, for SELECT lists.
func Columns(model any) ([]string, error) {
	cols, _, err := fieldsOf(model)
	return cols, err
}

// fieldsOf reads the exported db-tagged fields of a struct in declaration
// order. A "-" tag skips the field and tag options after a comma are ignored.
func fieldsOf(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct")
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		col := strings.TrimSpace(strings.Split(field.Tag.Get("db"), ",")[0])
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}
