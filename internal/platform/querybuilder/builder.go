package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// binder collects positional arguments and hands out matching $n placeholders.
type binder struct {
	args []any
}

func (b *binder) bind(value any) string {
	b.args = append(b.args, value)
	return "$" + strconv.Itoa(len(b.args))
}

// expand replaces each ? in expr with the next bound placeholder.
func (b *binder) expand(expr string, values []any) (string, error) {
	if len(values) == 0 {
		return expr, nil
	}
	var out strings.Builder
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] != '?' {
			out.WriteByte(expr[i])
			continue
		}
		if next >= len(values) {
			return "", fmt.Errorf("expression %q has more placeholders than arguments", expr)
		}
		out.WriteString(b.bind(values[next]))
		next++
	}
	if next != len(values) {
		return "", fmt.Errorf("expression %q has %d unused arguments", expr, len(values)-next)
	}
	return out.String(), nil
}

type Condition interface {
	render(b *binder) (string, error)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) render(b *binder) (string, error) {
	return c.column + " = " + b.bind(c.value), nil
}

type inCondition struct {
	column string
	values []any
}

// In matches nothing when values is empty.
func In(column string, values []any) Condition {
	return inCondition{column: column, values: values}
}

func (c inCondition) render(b *binder) (string, error) {
	if len(c.values) == 0 {
		return "1=0", nil
	}
	placeholders := make([]string, len(c.values))
	for i, v := range c.values {
		placeholders[i] = b.bind(v)
	}
	return c.column + " IN (" + strings.Join(placeholders, ", ") + ")", nil
}

type exprCondition struct {
	expr string
	args []any
}

// Expr is a raw predicate using ? for each argument.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) render(b *binder) (string, error) {
	return b.expand(c.expr, c.args)
}

func renderWhere(buf *strings.Builder, b *binder, conditions []Condition) error {
	for i, c := range conditions {
		if i == 0 {
			buf.WriteString(" WHERE ")
		} else {
			buf.WriteString(" AND ")
		}
		part, err := c.render(b)
		if err != nil {
			return err
		}
		buf.WriteString(part)
	}
	return nil
}

func renderReturning(buf *strings.Builder, columns []string) {
	if len(columns) == 0 {
		return
	}
	buf.WriteString(" RETURNING ")
	buf.WriteString(strings.Join(columns, ", "))
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy   []string
	limit     int
	forUpdate bool
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (s *SelectBuilder) From(table string) *SelectBuilder {
	s.table = table
	return s
}

func (s *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	s.where = append(s.where, conditions...)
	return s
}

func (s *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	s.orderBy = append(s.orderBy, parts...)
	return s
}

func (s *SelectBuilder) Limit(limit int) *SelectBuilder {
	s.limit = limit
	return s
}

// ForUpdate locks the selected rows until the surrounding transaction ends.
func (s *SelectBuilder) ForUpdate() *SelectBuilder {
	s.forUpdate = true
	return s
}

func (s *SelectBuilder) ToSQL() (string, []any, error) {
	if len(s.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(s.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var buf strings.Builder
	b := &binder{}
	fmt.Fprintf(&buf, "SELECT %s FROM %s", strings.Join(s.columns, ", "), s.table)
	if err := renderWhere(&buf, b, s.where); err != nil {
		return "", nil, err
	}
	if len(s.orderBy) > 0 {
		buf.WriteString(" ORDER BY ")
		buf.WriteString(strings.Join(s.orderBy, ", "))
	}
	if s.limit > 0 {
		buf.WriteString(" LIMIT ")
		buf.WriteString(strconv.Itoa(s.limit))
	}
	if s.forUpdate {
		buf.WriteString(" FOR UPDATE")
	}
	return buf.String(), b.args, nil
}

type assignment struct {
	column string
	expr   string
	args   []any
}

type UpdateBuilder struct {
	table     string
	sets      []assignment
	where     []Condition
	returning []string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (u *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	return u.SetExpr(column, "?", value)
}

// SetExpr assigns a raw expression using ? for each argument.
func (u *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	u.sets = append(u.sets, assignment{column: column, expr: expr, args: args})
	return u
}

func (u *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	u.where = append(u.where, conditions...)
	return u
}

func (u *UpdateBuilder) Returning(columns ...string) *UpdateBuilder {
	u.returning = append(u.returning, columns...)
	return u
}

// ToSQL refuses to build an update without a condition.
func (u *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(u.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(u.sets) == 0 {
		return "", nil, fmt.Errorf("update of %s sets no columns", u.table)
	}
	if len(u.where) == 0 {
		return "", nil, fmt.Errorf("update of %s requires at least one condition", u.table)
	}

	var buf strings.Builder
	b := &binder{}
	buf.WriteString("UPDATE ")
	buf.WriteString(u.table)
	buf.WriteString(" SET ")
	for i, set := range u.sets {
		if i > 0 {
			buf.WriteString(", ")
		}
		value, err := b.expand(set.expr, set.args)
		if err != nil {
			return "", nil, fmt.Errorf("set %s: %w", set.column, err)
		}
		buf.WriteString(set.column)
		buf.WriteString(" = ")
		buf.WriteString(value)
	}
	if err := renderWhere(&buf, b, u.where); err != nil {
		return "", nil, err
	}
	renderReturning(&buf, u.returning)
	return buf.String(), b.args, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (d *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	d.where = append(d.where, conditions...)
	return d
}

// ToSQL refuses to build an unconditional delete.
func (d *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(d.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(d.where) == 0 {
		return "", nil, fmt.Errorf("delete from %s requires at least one condition", d.table)
	}

	var buf strings.Builder
	b := &binder{}
	buf.WriteString("DELETE FROM ")
	buf.WriteString(d.table)
	if err := renderWhere(&buf, b, d.where); err != nil {
		return "", nil, err
	}
	return buf.String(), b.args, nil
}
