package main

import "encoding/binary"

// This file hand-assembles a tiny on-disk database matching the
// three-row "apples" scenario used throughout the test suite, without
// depending on any SQLite driver to produce it. Page size is kept small
// (512 bytes) so every table fits in a single leaf page.

const fixturePageSize = 512

type fixtureCol struct {
	serialType uint64
	payload    []byte
}

func nullCol() fixtureCol { return fixtureCol{0, nil} }

func intCol(v int64) fixtureCol {
	switch {
	case v >= -128 && v <= 127:
		return fixtureCol{1, []byte{byte(int8(v))}}
	case v >= -32768 && v <= 32767:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(int16(v)))
		return fixtureCol{2, b}
	default:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(int32(v)))
		return fixtureCol{4, b}
	}
}

func textCol(s string) fixtureCol {
	return fixtureCol{uint64(13 + 2*len(s)), []byte(s)}
}

// encodeVarint writes v using the format's 7-bit-per-byte big-endian
// scheme. Callers in this file only ever encode small values (row-ids,
// page numbers, header/payload lengths), so the 9-byte/8-bit-final-byte
// case never triggers.
func encodeVarint(v uint64) []byte {
	if v == 0 {
		return []byte{0}
	}
	var groups []byte
	for v > 0 {
		groups = append([]byte{byte(v & 0x7F)}, groups...)
		v >>= 7
	}
	for i := 0; i < len(groups)-1; i++ {
		groups[i] |= 0x80
	}
	return groups
}

// buildRecord assembles a record's bytes (header + payloads) from a list
// of columns. Panics if the resulting header doesn't fit the single-byte
// header_size varint this fixture assumes, which is always true for the
// small records used here.
func buildRecord(cols []fixtureCol) []byte {
	var headerBody []byte
	for _, c := range cols {
		headerBody = append(headerBody, encodeVarint(c.serialType)...)
	}
	headerSize := 1 + len(headerBody)
	if headerSize >= 128 {
		panic("fixture record header too large for assumed 1-byte varint")
	}
	out := append(encodeVarint(uint64(headerSize)), headerBody...)
	for _, c := range cols {
		out = append(out, c.payload...)
	}
	return out
}

func leafTableCellBytes(rowID uint64, record []byte) []byte {
	out := encodeVarint(uint64(len(record)))
	out = append(out, encodeVarint(rowID)...)
	return append(out, record...)
}

func leafIndexCellBytes(record []byte) []byte {
	out := encodeVarint(uint64(len(record)))
	return append(out, record...)
}

// buildLeafPage lays out cells back-to-front from the end of a
// pageSize-byte buffer and writes the matching pointer array and header.
func buildLeafPage(pageSize int, pageType PageType, cells [][]byte, isPage1 bool) []byte {
	buf := make([]byte, pageSize)
	headerStart := 0
	if isPage1 {
		headerStart = 100
	}

	pointers := make([]uint16, len(cells))
	contentStart := pageSize
	for i, cell := range cells {
		contentStart -= len(cell)
		copy(buf[contentStart:], cell)
		pointers[i] = uint16(contentStart)
	}

	buf[headerStart] = byte(pageType)
	binary.BigEndian.PutUint16(buf[headerStart+1:headerStart+3], 0)
	binary.BigEndian.PutUint16(buf[headerStart+3:headerStart+5], uint16(len(cells)))
	binary.BigEndian.PutUint16(buf[headerStart+5:headerStart+7], uint16(contentStart))
	buf[headerStart+7] = 0

	pointerArrayStart := headerStart + 8
	for i, p := range pointers {
		binary.BigEndian.PutUint16(buf[pointerArrayStart+i*2:pointerArrayStart+i*2+2], p)
	}

	return buf
}

func writeFileHeader(page1 []byte, pageSize, pageCount int) {
	binary.BigEndian.PutUint16(page1[16:18], uint16(pageSize))
	binary.BigEndian.PutUint32(page1[28:32], uint32(pageCount))
}

// buildApplesFixture returns the full file bytes for:
//   CREATE TABLE apples(id integer primary key, name text, color text)  -- rootpage 2
//   CREATE INDEX idx_apples_name ON apples(name)                        -- rootpage 3
// with three rows: (1,'Granny Smith','Light Green'), (2,'Fuji','Red'),
// (3,'Honeycrisp','Blush Red').
func buildApplesFixture() []byte {
	applesSQL := "CREATE TABLE apples(id integer primary key, name text, color text)"
	indexSQL := "CREATE INDEX idx_apples_name ON apples(name)"

	schemaCells := [][]byte{
		leafTableCellBytes(1, buildRecord([]fixtureCol{
			textCol("table"), textCol("apples"), textCol("apples"), intCol(2), textCol(applesSQL),
		})),
		leafTableCellBytes(2, buildRecord([]fixtureCol{
			textCol("index"), textCol("apples"), textCol("idx_apples_name"), intCol(3), textCol(indexSQL),
		})),
	}
	page1 := buildLeafPage(fixturePageSize, PageTypeLeafTable, schemaCells, true)
	writeFileHeader(page1, fixturePageSize, 3)

	appleRows := [][3]string{
		{"Granny Smith", "Light Green", ""},
		{"Fuji", "Red", ""},
		{"Honeycrisp", "Blush Red", ""},
	}
	tableCells := make([][]byte, len(appleRows))
	for i, row := range appleRows {
		tableCells[i] = leafTableCellBytes(uint64(i+1), buildRecord([]fixtureCol{
			nullCol(), textCol(row[0]), textCol(row[1]),
		}))
	}
	page2 := buildLeafPage(fixturePageSize, PageTypeLeafTable, tableCells, false)

	// Index entries keyed by name, ascending byte order: Fuji < Granny Smith < Honeycrisp.
	indexEntries := []struct {
		name  string
		rowID int64
	}{
		{"Fuji", 2},
		{"Granny Smith", 1},
		{"Honeycrisp", 3},
	}
	indexCells := make([][]byte, len(indexEntries))
	for i, e := range indexEntries {
		indexCells[i] = leafIndexCellBytes(buildRecord([]fixtureCol{
			textCol(e.name), intCol(e.rowID),
		}))
	}
	page3 := buildLeafPage(fixturePageSize, PageTypeLeafIndex, indexCells, false)

	out := make([]byte, 0, fixturePageSize*3)
	out = append(out, page1...)
	out = append(out, page2...)
	out = append(out, page3...)
	return out
}

func openFixtureDatabase(data []byte) *Database {
	db := &Database{source: &sliceSource{data: data}, config: DefaultDatabaseConfig()}
	if err := db.parseHeader(); err != nil {
		panic(err)
	}
	return db
}
