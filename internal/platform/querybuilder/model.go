package querybuilder

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds a single-row insert from the struct's `db` tags.
func InsertModel(table string, model any, suffix string, suffixArgs ...any) (string, []any, error) {
	return InsertModels(table, []any{model}, suffix, suffixArgs...)
}

// InsertModels builds a multi-row insert; every model must share the first model's columns.
func InsertModels(table string, models []any, suffix string, suffixArgs ...any) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, ErrMissingValues
	}

	b := InsertInto(table)
	var columns []string
	for i, model := range models {
		cols, vals, err := taggedFields(model)
		if err != nil {
			return "", nil, fmt.Errorf("querybuilder: model %d: %w", i, err)
		}
		if i == 0 {
			columns = cols
			b.Columns(cols...)
		} else if strings.Join(cols, ",") != strings.Join(columns, ",") {
			return "", nil, fmt.Errorf("querybuilder: model %d columns differ from model 0", i)
		}
		b.Values(vals...)
	}
	return b.Suffix(suffix, suffixArgs...).ToSQL()
}

// Columns lists a model's db columns, optionally qualified with a table alias.
func Columns(model any, alias string) []string {
	cols, _, err := taggedFields(model)
	if err != nil {
		return nil
	}
	if alias == "" {
		return cols
	}
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}

func taggedFields(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, errors.New("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, errors.New("model must be a struct")
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		cols = append(cols, name)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, errors.New("model has no db columns")
	}
	return cols, vals, nil
}
