package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

type insertOptions struct {
	conflictTarget []string
	returning      []string
}

type InsertOption func(*insertOptions)

// OnConflictDoNothing skips rows that collide on the given unique columns.
func OnConflictDoNothing(columns ...string) InsertOption {
	return func(o *insertOptions) {
		o.conflictTarget = append(o.conflictTarget, columns...)
	}
}

func Returning(columns ...string) InsertOption {
	return func(o *insertOptions) {
		o.returning = append(o.returning, columns...)
	}
}

// InsertModel builds a single-row insert from the exported db-tagged fields of model.
func InsertModel(table string, model any, opts ...InsertOption) (string, []any, error) {
	if strings.TrimSpace(table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	var options insertOptions
	for _, opt := range opts {
		opt(&options)
	}

	cols, vals, err := dbColumns(model)
	if err != nil {
		return "", nil, fmt.Errorf("insert into %s: %w", table, err)
	}

	b := &binder{}
	placeholders := make([]string, len(vals))
	for i, v := range vals {
		placeholders[i] = b.bind(v)
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if len(options.conflictTarget) > 0 {
		fmt.Fprintf(&buf, " ON CONFLICT (%s) DO NOTHING", strings.Join(options.conflictTarget, ", "))
	}
	renderReturning(&buf, options.returning)
	return buf.String(), b.args, nil
}

func dbColumns(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be a struct, got %s", value.Kind())
	}

	typ := value.Type()
	var (
		cols []string
		vals []any
	)
	for i := range typ.NumField() {
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
		return nil, nil, fmt.Errorf("model %s has no db columns", typ.Name())
	}
	return cols, vals, nil
}
