package main

import "encoding/binary"

// This file hand-assembles a seven-page database whose table and index
// trees are both two levels deep, so findRowID/scanRowIDSet/countTableRows/
// scanTableAll/indexScanEqual all exercise their interior-page branches
// (btree.go), not just the single-leaf shape buildApplesFixture covers.
//
// Schema (page 1):
//   CREATE TABLE items(id integer primary key, name text)         rootpage 2
//   CREATE INDEX idx_items_name ON items(name)                    rootpage 4
//
// items tree (rootpage 2, interior table):
//   page 2 (interior): one cell {leftChild: 3, rowID: 3}, rightmost child 5
//   page 3 (leaf): rows 1,2,3 -> Alpha, Bravo, Charlie
//   page 5 (leaf): rows 4,5,6 -> Delta, Echo, Foxtrot
//
// idx_items_name tree (rootpage 4, interior index):
//   page 4 (interior): one cell {leftChild: 6, key: "Charlie" -> rowid 3},
//     rightmost child 7
//   page 6 (leaf): Alpha -> 1, Bravo -> 2
//   page 7 (leaf): Delta -> 4, Echo -> 5, Foxtrot -> 6
//
// The interior index cell's own key ("Charlie") is itself a real index
// entry, matching how SQLite promotes a key into the parent rather than
// duplicating it in a leaf.

func buildInteriorIndexPage(pageSize int, entries []struct {
	leftChild uint32
	record    []byte
}, rightmostChild uint32) []byte {
	buf := make([]byte, pageSize)
	buf[0] = byte(PageTypeInteriorIndex)
	binary.BigEndian.PutUint16(buf[3:5], uint16(len(entries)))
	binary.BigEndian.PutUint32(buf[8:12], rightmostChild)

	pointerArrayStart := 12
	contentStart := pageSize
	pointers := make([]uint16, len(entries))
	for i, e := range entries {
		cell := make([]byte, 4)
		binary.BigEndian.PutUint32(cell, e.leftChild)
		cell = append(cell, encodeVarint(uint64(len(e.record)))...)
		cell = append(cell, e.record...)
		contentStart -= len(cell)
		copy(buf[contentStart:], cell)
		pointers[i] = uint16(contentStart)
	}
	binary.BigEndian.PutUint16(buf[5:7], uint16(contentStart))
	for i, p := range pointers {
		binary.BigEndian.PutUint16(buf[pointerArrayStart+i*2:pointerArrayStart+i*2+2], p)
	}
	return buf
}

func buildLayeredFixture() []byte {
	itemsSQL := "CREATE TABLE items(id integer primary key, name text)"
	indexSQL := "CREATE INDEX idx_items_name ON items(name)"

	schemaCells := [][]byte{
		leafTableCellBytes(1, buildRecord([]fixtureCol{
			textCol("table"), textCol("items"), textCol("items"), intCol(2), textCol(itemsSQL),
		})),
		leafTableCellBytes(2, buildRecord([]fixtureCol{
			textCol("index"), textCol("items"), textCol("idx_items_name"), intCol(4), textCol(indexSQL),
		})),
	}
	page1 := buildLeafPage(fixturePageSize, PageTypeLeafTable, schemaCells, true)

	page2 := buildInteriorTablePage(fixturePageSize, []struct {
		leftChild uint32
		rowID     uint64
	}{
		{3, 3},
	}, 5)

	leafARows := []struct {
		rowID uint64
		name  string
	}{
		{1, "Alpha"}, {2, "Bravo"}, {3, "Charlie"},
	}
	leafACells := make([][]byte, len(leafARows))
	for i, r := range leafARows {
		leafACells[i] = leafTableCellBytes(r.rowID, buildRecord([]fixtureCol{nullCol(), textCol(r.name)}))
	}
	page3 := buildLeafPage(fixturePageSize, PageTypeLeafTable, leafACells, false)

	page4 := buildInteriorIndexPage(fixturePageSize, []struct {
		leftChild uint32
		record    []byte
	}{
		{6, buildRecord([]fixtureCol{textCol("Charlie"), intCol(3)})},
	}, 7)

	leafBRows := []struct {
		rowID uint64
		name  string
	}{
		{4, "Delta"}, {5, "Echo"}, {6, "Foxtrot"},
	}
	leafBCells := make([][]byte, len(leafBRows))
	for i, r := range leafBRows {
		leafBCells[i] = leafTableCellBytes(r.rowID, buildRecord([]fixtureCol{nullCol(), textCol(r.name)}))
	}
	page5 := buildLeafPage(fixturePageSize, PageTypeLeafTable, leafBCells, false)

	idxALeaf := [][]byte{
		leafIndexCellBytes(buildRecord([]fixtureCol{textCol("Alpha"), intCol(1)})),
		leafIndexCellBytes(buildRecord([]fixtureCol{textCol("Bravo"), intCol(2)})),
	}
	page6 := buildLeafPage(fixturePageSize, PageTypeLeafIndex, idxALeaf, false)

	idxBLeaf := [][]byte{
		leafIndexCellBytes(buildRecord([]fixtureCol{textCol("Delta"), intCol(4)})),
		leafIndexCellBytes(buildRecord([]fixtureCol{textCol("Echo"), intCol(5)})),
		leafIndexCellBytes(buildRecord([]fixtureCol{textCol("Foxtrot"), intCol(6)})),
	}
	page7 := buildLeafPage(fixturePageSize, PageTypeLeafIndex, idxBLeaf, false)

	writeFileHeader(page1, fixturePageSize, 7)

	out := make([]byte, 0, fixturePageSize*7)
	for _, p := range [][]byte{page1, page2, page3, page4, page5, page6, page7} {
		out = append(out, p...)
	}
	return out
}
