package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xwb1989/sqlparser"
)

// normalizeSQLiteToMySQL rewrites the handful of SQLite DDL/DML spellings
// that sqlparser's MySQL-flavored grammar doesn't accept, without touching
// anything else about the statement.
func normalizeSQLiteToMySQL(sql string) string {
	out := withoutRowidPattern.ReplaceAllString(sql, "")
	out = autoincrementPattern.ReplaceAllString(out, "AUTO_INCREMENT")
	out = doubleQuotedIdentPattern.ReplaceAllStringFunc(out, func(m string) string {
		return "`" + m[1:len(m)-1] + "`"
	})
	return out
}

var (
	withoutRowidPattern      = regexp.MustCompile(`(?i)\s*without\s+rowid\s*`)
	autoincrementPattern     = regexp.MustCompile(`(?i)autoincrement`)
	doubleQuotedIdentPattern = regexp.MustCompile(`"[^"]*"`)
	createIndexPattern       = regexp.MustCompile(`(?i)^\s*create\s+(?:unique\s+)?index\s+\S+\s+on\s+\S+\s*\(\s*([^,)]+)`)
)

// extractColumns parses a CREATE TABLE statement's column list (C9), used
// to build a TableMeta's declared Columns in catalog.go.
func extractColumns(sql string) ([]Column, error) {
	stmt, err := sqlparser.Parse(normalizeSQLiteToMySQL(sql))
	if err != nil {
		return nil, fmt.Errorf("parse create table: %w", err)
	}
	ddl, ok := stmt.(*sqlparser.DDL)
	if !ok || ddl.TableSpec == nil {
		return nil, fmt.Errorf("statement is not a CREATE TABLE")
	}

	columns := make([]Column, 0, len(ddl.TableSpec.Columns))
	for i, col := range ddl.TableSpec.Columns {
		name := col.Name.String()
		columns = append(columns, Column{
			Name:         name,
			Index:        i,
			IsRowIDAlias: isIntegerPrimaryKeyColumn(sql, name),
		})
	}
	return columns, nil
}

// isIntegerPrimaryKeyColumn checks the original DDL text directly for
// "<column> <int type> primary key" rather than trusting sqlparser's
// column-constraint parsing, which does not reliably surface inline
// PRIMARY KEY on a MySQL-normalized column definition.
func isIntegerPrimaryKeyColumn(sql, columnName string) bool {
	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(columnName) +
		`\s+(int|integer|tinyint|smallint|mediumint|bigint)\s+primary\s+key`)
	return pattern.MatchString(sql)
}

// extractIndexColumn pulls the single indexed column name out of a CREATE
// INDEX statement. sqlparser's grammar does not cover CREATE INDEX, so this
// is a small hand-rolled scan rather than an AST walk.
func extractIndexColumn(sql string) (string, error) {
	m := createIndexPattern.FindStringSubmatch(sql)
	if m == nil {
		return "", fmt.Errorf("could not locate indexed column in: %s", sql)
	}
	col := strings.TrimSpace(m[1])
	col = strings.Trim(col, "`\"[]")
	return col, nil
}

// parseStatement turns a SQL string into a Request the query core can
// execute (C8/C9). Only the statement shapes in §6 are supported: SELECT
// COUNT(*) FROM table, and SELECT col, ... FROM table [WHERE col = 'lit'].
func parseStatement(sql string) (*Request, error) {
	stmt, err := sqlparser.Parse(normalizeSQLiteToMySQL(sql))
	if err != nil {
		return nil, NewDatabaseError("parse_statement", ErrMalformedQuery, map[string]interface{}{"cause": err.Error()})
	}

	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, NewDatabaseError("parse_statement", ErrMalformedQuery, map[string]interface{}{
			"reason": "only SELECT statements are supported",
		})
	}

	table, err := tableNameFromFrom(sel.From)
	if err != nil {
		return nil, err
	}

	req := &Request{Table: table}

	if isCountStar(sel.SelectExprs) {
		req.Count = true
	} else {
		cols, err := columnNamesFromSelect(sel.SelectExprs)
		if err != nil {
			return nil, err
		}
		req.Columns = cols
	}

	if sel.Where != nil {
		pred, err := predicateFromWhere(sel.Where)
		if err != nil {
			return nil, err
		}
		req.Predicate = pred
	}

	return req, nil
}

func tableNameFromFrom(from sqlparser.TableExprs) (string, error) {
	if len(from) != 1 {
		return "", NewDatabaseError("parse_statement", ErrMalformedQuery, map[string]interface{}{
			"reason": "exactly one table is supported",
		})
	}
	aliased, ok := from[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return "", NewDatabaseError("parse_statement", ErrMalformedQuery, nil)
	}
	tableName, ok := aliased.Expr.(sqlparser.TableName)
	if !ok {
		return "", NewDatabaseError("parse_statement", ErrMalformedQuery, nil)
	}
	return tableName.Name.String(), nil
}

func isCountStar(exprs sqlparser.SelectExprs) bool {
	if len(exprs) != 1 {
		return false
	}
	aliased, ok := exprs[0].(*sqlparser.AliasedExpr)
	if !ok {
		return false
	}
	fn, ok := aliased.Expr.(*sqlparser.FuncExpr)
	if !ok || !strings.EqualFold(fn.Name.String(), "count") {
		return false
	}
	return true
}

func columnNamesFromSelect(exprs sqlparser.SelectExprs) ([]string, error) {
	names := make([]string, 0, len(exprs))
	for _, e := range exprs {
		aliased, ok := e.(*sqlparser.AliasedExpr)
		if !ok {
			return nil, NewDatabaseError("parse_statement", ErrMalformedQuery, map[string]interface{}{
				"reason": "only plain column references are supported",
			})
		}
		col, ok := aliased.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, NewDatabaseError("parse_statement", ErrMalformedQuery, nil)
		}
		names = append(names, col.Name.String())
	}
	return names, nil
}

func predicateFromWhere(where *sqlparser.Where) (*Predicate, error) {
	cmp, ok := where.Expr.(*sqlparser.ComparisonExpr)
	if !ok || cmp.Operator != sqlparser.EqualStr {
		return nil, NewDatabaseError("parse_statement", ErrMalformedQuery, map[string]interface{}{
			"reason": "only a single column = 'literal' predicate is supported",
		})
	}
	col, ok := cmp.Left.(*sqlparser.ColName)
	if !ok {
		return nil, NewDatabaseError("parse_statement", ErrMalformedQuery, nil)
	}
	val, ok := cmp.Right.(*sqlparser.SQLVal)
	if !ok {
		return nil, NewDatabaseError("parse_statement", ErrMalformedQuery, nil)
	}
	return &Predicate{Column: col.Name.String(), Literal: string(val.Val)}, nil
}
