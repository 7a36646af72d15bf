package main

// Catalog column positions within the sqlite_schema table, per the schema
// layout this implementation targets: kind, associated table name, object
// name, root page, SQL text (C6).
const (
	schemaColKind     = 0
	schemaColTblName  = 1
	schemaColName     = 2
	schemaColRootPage = 3
	schemaColSQL      = 4
)

// TableMeta describes one catalogued table.
type TableMeta struct {
	Name     string
	RootPage int
	Columns  []Column
	SQL      string
}

// IndexMeta describes one catalogued index.
type IndexMeta struct {
	Name      string
	TableName string
	Column    string
	RootPage  int
	SQL       string
}

// Catalog is the decoded sqlite_schema contents (C6), keyed for the lookups
// the query core needs: table by name, and index by (table, column).
type Catalog struct {
	Tables         map[string]*TableMeta
	indexByColumn  map[string]*IndexMeta
	TableOrder     []string
	SchemaRowCount int
}

// LoadCatalog scans the schema table rooted at page 1 and builds the table
// and index lookups. The schema root is walked with the same table-scan
// primitive as any other table, so an interior schema root (many objects) is
// handled the same as a single-leaf one.
func LoadCatalog(db *Database) (*Catalog, error) {
	cat := &Catalog{
		Tables:        make(map[string]*TableMeta),
		indexByColumn: make(map[string]*IndexMeta),
	}

	err := db.scanTableAll(1, func(rowID uint64, record *Record) error {
		cat.SchemaRowCount++
		if len(record.Columns) <= schemaColSQL {
			return NewDatabaseError("load_catalog", ErrBadPageHeader, map[string]interface{}{
				"row": rowID, "reason": "schema record has too few columns",
			})
		}

		kind := record.ColumnValue(schemaColKind).String()
		name := record.ColumnValue(schemaColName).String()
		tblName := record.ColumnValue(schemaColTblName).String()
		sql := record.ColumnValue(schemaColSQL).String()

		rootPageVal := record.ColumnValue(schemaColRootPage)
		rootPage, err := rootPageVal.Int64()
		if err != nil {
			return NewDatabaseError("load_catalog", ErrBadSerialType, map[string]interface{}{
				"row": rowID, "cause": err.Error(),
			})
		}

		switch kind {
		case "table":
			columns, err := extractColumns(sql)
			if err != nil {
				return NewDatabaseError("load_catalog", ErrMalformedQuery, map[string]interface{}{
					"table": tblName, "cause": err.Error(),
				})
			}
			cat.Tables[tblName] = &TableMeta{
				Name:     tblName,
				RootPage: int(rootPage),
				Columns:  columns,
				SQL:      sql,
			}
			cat.TableOrder = append(cat.TableOrder, tblName)
		case "index":
			col, err := extractIndexColumn(sql)
			if err != nil {
				return NewDatabaseError("load_catalog", ErrMalformedQuery, map[string]interface{}{
					"index": name, "cause": err.Error(),
				})
			}
			idx := &IndexMeta{
				Name:      name,
				TableName: tblName,
				Column:    col,
				RootPage:  int(rootPage),
				SQL:       sql,
			}
			cat.indexByColumn[tblName+"."+col] = idx
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cat, nil
}

// Table looks up a table by exact name (§9: never a substring match).
func (c *Catalog) Table(name string) (*TableMeta, error) {
	t, ok := c.Tables[name]
	if !ok {
		return nil, NewDatabaseError("resolve_table", ErrUnknownTable, map[string]interface{}{"table": name})
	}
	return t, nil
}

// IndexFor returns the index covering table.column, if one was catalogued.
func (c *Catalog) IndexFor(table, column string) (*IndexMeta, bool) {
	idx, ok := c.indexByColumn[table+"."+column]
	return idx, ok
}

// ColumnIndex resolves a column name to its declared position, exact match
// only (§9 decision: substring matching is explicitly rejected).
func (t *TableMeta) ColumnIndex(name string) (int, error) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Index, nil
		}
	}
	return 0, NewDatabaseError("resolve_column", ErrUnknownColumn, map[string]interface{}{
		"table": t.Name, "column": name,
	})
}
