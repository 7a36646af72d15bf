package main

import "bytes"

// Request is the structured form of a supported SELECT statement, produced
// by parseStatement and consumed by QueryEngine.Execute (C8).
type Request struct {
	Table     string
	Count     bool
	Columns   []string // empty when Count is true
	Predicate *Predicate
}

// Predicate is a single "column = 'literal'" equality filter. The query
// core does not support any richer expression (§1 Non-goals).
type Predicate struct {
	Column  string
	Literal string
}

// QueryResult is the outcome of executing a Request: either a row count, or
// a column-projected set of rows.
type QueryResult struct {
	IsCount     bool
	Count       int
	ColumnNames []string
	Rows        []Row
}

// QueryEngine resolves catalogued tables/indexes and dispatches requests to
// the B-tree navigators in btree.go. It holds no state beyond the database
// and catalog it was built from, matching the single-threaded, no-cache
// concurrency model in §5.
type QueryEngine struct {
	db      *Database
	catalog *Catalog
}

// NewQueryEngine builds a query engine over an already-open database and its
// loaded catalog.
func NewQueryEngine(db *Database, catalog *Catalog) *QueryEngine {
	return &QueryEngine{db: db, catalog: catalog}
}

// Execute runs req and returns either its row count or its projected rows.
func (q *QueryEngine) Execute(req *Request) (*QueryResult, error) {
	table, err := q.catalog.Table(req.Table)
	if err != nil {
		return nil, err
	}

	if req.Count {
		if req.Predicate != nil {
			rows, err := q.selectRows(table, nil, req.Predicate)
			if err != nil {
				return nil, err
			}
			return &QueryResult{IsCount: true, Count: len(rows)}, nil
		}
		n, err := q.db.countTableRows(table.RootPage)
		if err != nil {
			return nil, err
		}
		return &QueryResult{IsCount: true, Count: n}, nil
	}

	columns, err := resolveColumns(table, req.Columns)
	if err != nil {
		return nil, err
	}
	rows, err := q.selectRows(table, columns, req.Predicate)
	if err != nil {
		return nil, err
	}
	return &QueryResult{ColumnNames: req.Columns, Rows: rows}, nil
}

func resolveColumns(table *TableMeta, names []string) ([]Column, error) {
	if names == nil {
		return nil, nil
	}
	resolved := make([]Column, len(names))
	for i, name := range names {
		idx, err := table.ColumnIndex(name)
		if err != nil {
			return nil, err
		}
		resolved[i] = table.Columns[idx]
	}
	return resolved, nil
}

// selectRows returns every row of table matching pred (or all rows, if pred
// is nil), projected onto the requested columns. When columns is nil, every
// declared column's value is still decoded so the caller can filter or count
// but no projection has been applied.
func (q *QueryEngine) selectRows(table *TableMeta, columns []Column, pred *Predicate) ([]Row, error) {
	if pred == nil {
		return q.fullScan(table, columns, nil)
	}

	if idx, ok := q.catalog.IndexFor(table.Name, pred.Column); ok {
		return q.indexedScan(table, columns, idx, pred)
	}

	return q.fullScan(table, columns, pred)
}

// indexedScan performs an index-equality lookup (§4.6.3) followed by a
// row-id-set resolution (§4.6.2) against the table tree.
func (q *QueryEngine) indexedScan(table *TableMeta, columns []Column, idx *IndexMeta, pred *Predicate) ([]Row, error) {
	rowIDs, err := q.db.indexScanEqual(idx.RootPage, []byte(pred.Literal))
	if err != nil {
		return nil, err
	}

	var rows []Row
	err = q.db.scanRowIDSet(table.RootPage, rowIDs, func(rowID uint64, record *Record) error {
		rows = append(rows, project(rowID, record, table, columns))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// fullScan walks every row in the table, applying pred as a row filter when
// present (§4.6.4, the fallback path when no index covers the predicate).
func (q *QueryEngine) fullScan(table *TableMeta, columns []Column, pred *Predicate) ([]Row, error) {
	var predCol *Column
	if pred != nil {
		idx, err := table.ColumnIndex(pred.Column)
		if err != nil {
			return nil, err
		}
		predCol = &table.Columns[idx]
	}

	var rows []Row
	err := q.db.scanTableAll(table.RootPage, func(rowID uint64, record *Record) error {
		if predCol != nil {
			v := buildValue(*predCol, record, rowID)
			if !bytes.Equal([]byte(v.String()), []byte(pred.Literal)) {
				return nil
			}
		}
		rows = append(rows, project(rowID, record, table, columns))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// buildValue returns a declared column's value for one row, substituting
// the row-id for INTEGER PRIMARY KEY columns (whose record slot is NULL).
func buildValue(column Column, record *Record, rowID uint64) Value {
	if column.IsRowIDAlias {
		return NewIntValue(int64(rowID))
	}
	return record.ColumnValue(column.Index)
}

// project builds the output Row for one record. When columns is nil, every
// declared column of table is included in declaration order.
func project(rowID uint64, record *Record, table *TableMeta, columns []Column) Row {
	cols := columns
	if cols == nil {
		cols = table.Columns
	}
	values := make([]Value, len(cols))
	for i, c := range cols {
		values[i] = buildValue(c, record, rowID)
	}
	return Row{RowID: rowID, Values: values}
}
