package main

import (
	"bytes"
	"sort"
)

// decodePageHeaderOnly returns the header of a page held in data. It runs
// the full decodePage, so every cell is decoded as well; only the header is
// returned.
func decodePageHeaderOnly(data []byte, isPage1 bool) (*PageHeader, error) {
	page, err := decodePage(data, isPage1, len(data))
	if err != nil {
		return nil, err
	}
	return &page.Header, nil
}

// ReadPageHeader reads a page and returns its header. It goes through
// ReadPage, so the page's cells (and, on leaf pages, their records) are
// decoded too; only the header is handed back.
func (db *Database) ReadPageHeader(pageNum int) (*PageHeader, error) {
	page, err := db.ReadPage(pageNum)
	if err != nil {
		return nil, err
	}
	return &page.Header, nil
}

// countTableRows returns the number of leaf-table cells reachable from
// rootPage, matching §6's "SELECT COUNT(*)" contract: for a root that is
// itself a leaf, this is the leaf's cell count directly.
func (db *Database) countTableRows(rootPage int) (int, error) {
	page, err := db.ReadPage(rootPage)
	if err != nil {
		return 0, err
	}
	if page.Header.Type == PageTypeLeafTable {
		return int(page.Header.CellCount), nil
	}
	total := 0
	for _, cell := range page.Cells {
		n, err := db.countTableRows(int(cell.InteriorTable.LeftChild))
		if err != nil {
			return 0, err
		}
		total += n
	}
	n, err := db.countTableRows(int(page.Header.RightmostChild))
	if err != nil {
		return 0, err
	}
	return total + n, nil
}

// scanTableAll performs a full depth-first table scan in row-id order
// (§4.6.1), invoking emit for every leaf-table cell.
func (db *Database) scanTableAll(rootPage int, emit func(rowID uint64, record *Record) error) error {
	page, err := db.ReadPage(rootPage)
	if err != nil {
		return err
	}
	if page.Header.Type == PageTypeLeafTable {
		for _, cell := range page.Cells {
			if err := emit(cell.LeafTable.RowID, cell.LeafTable.Record); err != nil {
				return err
			}
		}
		return nil
	}
	for _, cell := range page.Cells {
		if err := db.scanTableAll(int(cell.InteriorTable.LeftChild), emit); err != nil {
			return err
		}
	}
	return db.scanTableAll(int(page.Header.RightmostChild), emit)
}

// findRowID descends the table tree for a single row-id per §4.6.2.
func (db *Database) findRowID(rootPage int, rowID uint64) (*Record, bool, error) {
	page, err := db.ReadPage(rootPage)
	if err != nil {
		return nil, false, err
	}

	if page.Header.Type == PageTypeLeafTable {
		cells := page.Cells
		idx := sort.Search(len(cells), func(i int) bool { return cells[i].LeafTable.RowID >= rowID })
		if idx < len(cells) && cells[idx].LeafTable.RowID == rowID {
			return cells[idx].LeafTable.Record, true, nil
		}
		return nil, false, nil
	}

	cells := page.Cells
	idx := sort.Search(len(cells), func(i int) bool { return rowID <= cells[i].InteriorTable.RowID })
	var child uint32
	if idx < len(cells) {
		child = cells[idx].InteriorTable.LeftChild
	} else {
		child = page.Header.RightmostChild
	}
	return db.findRowID(int(child), rowID)
}

// scanRowIDSet resolves each row-id in ids independently per §4.6.2,
// preserving the at-most-one-record-per-row-id guarantee; row-ids absent
// from the tree yield no emit call.
func (db *Database) scanRowIDSet(rootPage int, ids []uint64, emit func(rowID uint64, record *Record) error) error {
	for _, id := range ids {
		record, found, err := db.findRowID(rootPage, id)
		if err != nil {
			return err
		}
		if found {
			if err := emit(id, record); err != nil {
				return err
			}
		}
	}
	return nil
}

// indexScanEqual collects every row-id whose indexed key equals value,
// per §4.6.3: binary search each page for the key boundary, then expand
// across a contiguous run of equal keys (duplicates are permitted).
func (db *Database) indexScanEqual(rootPage int, value []byte) ([]uint64, error) {
	var out []uint64

	var descend func(pageNum int) error
	descend = func(pageNum int) error {
		page, err := db.ReadPage(pageNum)
		if err != nil {
			return err
		}

		if page.Header.Type == PageTypeLeafIndex {
			cells := page.Cells
			idx := sort.Search(len(cells), func(i int) bool {
				return bytes.Compare(cells[i].LeafIndex.Record.keyBytes(), value) >= 0
			})
			for i := idx; i < len(cells) && bytes.Equal(cells[i].LeafIndex.Record.keyBytes(), value); i++ {
				rid, err := cells[i].LeafIndex.Record.indexRowID()
				if err != nil {
					return err
				}
				out = append(out, rid)
			}
			return nil
		}

		cells := page.Cells
		idx := sort.Search(len(cells), func(i int) bool {
			return bytes.Compare(cells[i].InteriorIndex.Record.keyBytes(), value) >= 0
		})

		i := idx
		for ; i < len(cells) && bytes.Equal(cells[i].InteriorIndex.Record.keyBytes(), value); i++ {
			rid, err := cells[i].InteriorIndex.Record.indexRowID()
			if err != nil {
				return err
			}
			out = append(out, rid)
			if err := descend(int(cells[i].InteriorIndex.LeftChild)); err != nil {
				return err
			}
		}

		// Equal keys may continue in the child just after the last matching
		// cell, so that child is searched too.
		var child uint32
		if i < len(cells) {
			child = cells[i].InteriorIndex.LeftChild
		} else {
			child = page.Header.RightmostChild
		}
		return descend(int(child))
	}

	if err := descend(rootPage); err != nil {
		return nil, err
	}
	return out, nil
}
