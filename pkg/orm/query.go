// Package orm is the persistence gateway. Every table access in the app goes
// through a Query: equality filters, ordering and left-joined display
// columns, ending in one select/insert/update/delete call.
//
//	var rows []models.OrderRow
//	err := gw.Model(&models.Order{}).
//	    With(orm.Join{Table: "products", ForeignKey: "product_id", Column: "name", As: "product_name"}).
//	    Order("created_at", false).
//	    Select(ctx, &rows)
package orm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// ErrNotFound is returned by Single when no row matches.
var ErrNotFound = errors.New("orm: record not found")

// Gateway hands out queries bound to one database handle.
type Gateway struct {
	db *gorm.DB
}

// New wraps db.
func New(db *gorm.DB) *Gateway {
	return &Gateway{db: db}
}

// DB returns a gateway over the globally connected database.
func DB() *Gateway {
	return New(database.DB)
}

// Ping reports whether the database is reachable.
func (g *Gateway) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Join describes a LEFT JOIN on <Table>.id = <base>.<ForeignKey>, selecting
// <Table>.<Column> under the alias As.
type Join struct {
	Table      string
	ForeignKey string
	Column     string
	As         string
}

type filter struct {
	column string
	value  any
}

type ordering struct {
	column string
	asc    bool
}

// Query is immutable; every builder method returns a copy.
type Query struct {
	db      *gorm.DB
	model   schema.Tabler
	table   string
	filters []filter
	orders  []ordering
	joins   []Join
}

// Model starts a query on m's table. m must be a pointer to a model struct.
func (g *Gateway) Model(m schema.Tabler) *Query {
	return &Query{db: g.db, model: m, table: m.TableName()}
}

func (q *Query) clone() *Query {
	c := *q
	c.filters = append([]filter(nil), q.filters...)
	c.orders = append([]ordering(nil), q.orders...)
	c.joins = append([]Join(nil), q.joins...)
	return &c
}

// Eq adds a "column = value" predicate.
func (q *Query) Eq(column string, value any) *Query {
	c := q.clone()
	c.filters = append(c.filters, filter{column: column, value: value})
	return c
}

// Order appends an ORDER BY term.
func (q *Query) Order(column string, asc bool) *Query {
	c := q.clone()
	c.orders = append(c.orders, ordering{column: column, asc: asc})
	return c
}

// With adds a left-joined display column.
func (q *Query) With(j Join) *Query {
	c := q.clone()
	c.joins = append(c.joins, j)
	return c
}

func (q *Query) qualify(column string) string {
	if strings.Contains(column, ".") {
		return column
	}
	return q.table + "." + column
}

func (q *Query) where(tx *gorm.DB) *gorm.DB {
	for _, f := range q.filters {
		tx = tx.Where(q.qualify(f.column)+" = ?", f.value)
	}
	return tx
}

func (q *Query) read(ctx context.Context) *gorm.DB {
	tx := q.db.WithContext(ctx).Table(q.table)

	if len(q.joins) > 0 {
		cols := []string{q.table + ".*"}
		for _, j := range q.joins {
			tx = tx.Joins(fmt.Sprintf("LEFT JOIN %s ON %s.id = %s.%s", j.Table, j.Table, q.table, j.ForeignKey))
			cols = append(cols, fmt.Sprintf("%s.%s AS %s", j.Table, j.Column, j.As))
		}
		tx = tx.Select(strings.Join(cols, ", "))
	}

	tx = q.where(tx)
	for _, o := range q.orders {
		dir := " DESC"
		if o.asc {
			dir = " ASC"
		}
		tx = tx.Order(q.qualify(o.column) + dir)
	}
	return tx
}

// Select scans every matching row into dest (a pointer to a slice).
func (q *Query) Select(ctx context.Context, dest any) error {
	defer metrics.ObserveDBQuery(q.table, "select", time.Now())
	if err := q.read(ctx).Scan(dest).Error; err != nil {
		return fmt.Errorf("orm: select %s: %w", q.table, err)
	}
	return nil
}

// Single loads exactly one matching row into dest, or returns ErrNotFound.
func (q *Query) Single(ctx context.Context, dest any) error {
	defer metrics.ObserveDBQuery(q.table, "single", time.Now())
	err := q.read(ctx).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("orm: single %s: %w", q.table, err)
	}
	return nil
}

// Insert creates row and fills in its server-assigned columns.
func (q *Query) Insert(ctx context.Context, row any) error {
	defer metrics.ObserveDBQuery(q.table, "insert", time.Now())
	if err := q.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("orm: insert %s: %w", q.table, err)
	}
	return nil
}

// Update sets values on every matching row. At least one filter is required.
func (q *Query) Update(ctx context.Context, values map[string]any) error {
	defer metrics.ObserveDBQuery(q.table, "update", time.Now())
	if len(q.filters) == 0 {
		return fmt.Errorf("orm: update %s: %w", q.table, gorm.ErrMissingWhereClause)
	}
	tx := q.where(q.db.WithContext(ctx).Table(q.table))
	if err := tx.Updates(values).Error; err != nil {
		return fmt.Errorf("orm: update %s: %w", q.table, err)
	}
	return nil
}

// Delete removes every matching row. At least one filter is required.
func (q *Query) Delete(ctx context.Context) error {
	defer metrics.ObserveDBQuery(q.table, "delete", time.Now())
	if len(q.filters) == 0 {
		return fmt.Errorf("orm: delete %s: %w", q.table, gorm.ErrMissingWhereClause)
	}
	tx := q.where(q.db.WithContext(ctx))
	if err := tx.Delete(q.model).Error; err != nil {
		return fmt.Errorf("orm: delete %s: %w", q.table, err)
	}
	return nil
}
