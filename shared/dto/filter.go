package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorLike      = "like"
	FilterOperatorPrefix    = "prefix"
	FilterOperatorIn        = "in"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "!=",
	FilterOperatorLessEq:    "<=",
	FilterOperatorGreaterEq: ">=",
}

// Filter is one named-parameter condition. ArgName defaults to Field and must be unique
// within a FilterGroup when the same column is filtered twice.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string
	Table    string
}

func (f *Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f *Filter) argName() string {
	if f.ArgName == "" {
		return f.Field
	}

	return f.ArgName
}

// GetWhereClause renders the condition. Unknown operators render nothing.
func (f *Filter) GetWhereClause() (string, map[string]any) {
	column, name := f.column(), f.argName()

	if op, ok := comparisons[f.Operator]; ok {
		return fmt.Sprintf("%s %s :%s", column, op, name), map[string]any{name: f.Value}
	}

	switch f.Operator {
	case FilterOperatorLike:
		return fmt.Sprintf("LOWER(%s) LIKE LOWER(:%s)", column, name), map[string]any{name: fmt.Sprintf("%%%v%%", f.Value)}
	case FilterOperatorPrefix:
		return fmt.Sprintf("%s LIKE :%s", column, name), map[string]any{name: fmt.Sprintf("%v%%", f.Value)}
	case FilterOperatorIn:
		return f.in(column, name)
	default:
		return "", map[string]any{}
	}
}

// in binds every element of a slice value as its own parameter. A scalar is treated as a
// one-element list and an empty list matches nothing.
func (f *Filter) in(column, name string) (string, map[string]any) {
	args := map[string]any{}

	val := reflect.ValueOf(f.Value)
	if !val.IsValid() || (val.Kind() != reflect.Slice && val.Kind() != reflect.Array) {
		args[name] = f.Value

		return fmt.Sprintf("%s IN (:%s)", column, name), args
	}

	if val.Len() == 0 {
		return "FALSE", args
	}

	placeholders := make([]string, val.Len())

	for i := range val.Len() {
		key := fmt.Sprintf("%s_%d", name, i)
		args[key] = val.Index(i).Interface()
		placeholders[i] = ":" + key
	}

	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")), args
}

// FilterGroup joins Filters (Filter or nested FilterGroup values) with Operator, AND by default.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f *FilterGroup) Add(filter any) *FilterGroup {
	f.Filters = append(f.Filters, filter)

	return f
}

func (f *FilterGroup) IsEmpty() bool {
	return len(f.Filters) == 0
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	clauses := make([]string, 0, len(f.Filters))

	for _, item := range f.Filters {
		var where string
		var arg map[string]any

		switch typed := item.(type) {
		case Filter:
			where, arg = typed.GetWhereClause()
		case FilterGroup:
			where, arg = typed.GetWhereClause()
		default:
			continue
		}

		if where == "" {
			continue
		}

		clauses = append(clauses, where)
		maps.Copy(args, arg)
	}

	if len(clauses) == 0 {
		return "", args
	}

	operator := f.Operator
	if operator == "" {
		operator = FilterGroupOperatorAnd
	}

	return "(" + strings.Join(clauses, " "+operator+" ") + ")", args
}
