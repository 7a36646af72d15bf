package main

import "encoding/binary"

// PageType enumerates the four B-tree page kinds (§3).
type PageType uint8

const (
	PageTypeInteriorIndex PageType = 2
	PageTypeInteriorTable PageType = 5
	PageTypeLeafIndex     PageType = 10
	PageTypeLeafTable     PageType = 13
)

func (t PageType) isInterior() bool {
	return t == PageTypeInteriorIndex || t == PageTypeInteriorTable
}

func (t PageType) isValid() bool {
	switch t {
	case PageTypeInteriorIndex, PageTypeInteriorTable, PageTypeLeafIndex, PageTypeLeafTable:
		return true
	default:
		return false
	}
}

// PageHeader is the fixed portion of a B-tree page (§3).
type PageHeader struct {
	Type             PageType
	FirstFreeblock   uint16
	CellCount        uint16
	CellContentStart uint16
	FragmentedBytes  uint8
	RightmostChild   uint32 // only meaningful for interior pages
}

// Cell is a tagged variant over the four cell shapes defined in §3. Exactly
// one of the four pointer fields is non-nil, matching Kind.
type Cell struct {
	Kind          PageType
	LeafTable     *LeafTableCell
	InteriorTable *InteriorTableCell
	LeafIndex     *LeafIndexCell
	InteriorIndex *InteriorIndexCell
}

// LeafTableCell: payload_size | row_id | record.
type LeafTableCell struct {
	RowID  uint64
	Record *Record
}

// InteriorTableCell: left_child | row_id (row_id is the max row-id reachable
// via LeftChild).
type InteriorTableCell struct {
	LeftChild uint32
	RowID     uint64
}

// LeafIndexCell: payload_size | record. Record columns are the indexed
// key(s) followed by the matching table row-id.
type LeafIndexCell struct {
	Record *Record
}

// InteriorIndexCell: left_child | payload_size | record. Key is the max key
// reachable via LeftChild.
type InteriorIndexCell struct {
	LeftChild uint32
	Record    *Record
}

// Page is a decoded B-tree page: its header plus its cells in pointer-array
// order.
type Page struct {
	Header PageHeader
	Cells  []Cell
}

// decodePage decodes a page from its raw bytes. data must be exactly one
// page's worth of bytes, read starting at the page's first byte (so for
// page 1, data[0] is file offset 0, and isPage1 must be true).
//
// usableSpace bounds payload sizes for the overflow check (§4.4, §9): cells
// whose declared payload is larger than this raise ErrUnsupportedOverflow
// rather than being silently truncated.
func decodePage(data []byte, isPage1 bool, usableSpace int) (*Page, error) {
	headerStart := 0
	if isPage1 {
		headerStart = 100
	}
	if headerStart+8 > len(data) {
		return nil, NewDatabaseError("decode_page_header", ErrBadPageHeader, map[string]interface{}{
			"have": len(data),
		})
	}

	pageType := PageType(data[headerStart])
	if !pageType.isValid() {
		return nil, NewDatabaseError("decode_page_header", ErrBadPageType, map[string]interface{}{
			"page_type": data[headerStart],
		})
	}

	header := PageHeader{
		Type:             pageType,
		FirstFreeblock:   binary.BigEndian.Uint16(data[headerStart+1 : headerStart+3]),
		CellCount:        binary.BigEndian.Uint16(data[headerStart+3 : headerStart+5]),
		CellContentStart: binary.BigEndian.Uint16(data[headerStart+5 : headerStart+7]),
		FragmentedBytes:  data[headerStart+7],
	}

	pointerArrayStart := headerStart + 8
	if pageType.isInterior() {
		if headerStart+12 > len(data) {
			return nil, NewDatabaseError("decode_page_header", ErrBadPageHeader, nil)
		}
		header.RightmostChild = binary.BigEndian.Uint32(data[headerStart+8 : headerStart+12])
		pointerArrayStart = headerStart + 12
	}

	cells := make([]Cell, header.CellCount)
	for i := 0; i < int(header.CellCount); i++ {
		ptrOff := pointerArrayStart + i*2
		if ptrOff+2 > len(data) {
			return nil, NewDatabaseError("read_cell_pointer", ErrBadPageHeader, map[string]interface{}{
				"cell_index": i,
			})
		}
		cellOffset := int(binary.BigEndian.Uint16(data[ptrOff : ptrOff+2]))
		cell, err := decodeCell(data, cellOffset, pageType, usableSpace)
		if err != nil {
			return nil, err
		}
		cells[i] = *cell
	}

	return &Page{Header: header, Cells: cells}, nil
}

func decodeCell(data []byte, offset int, pageType PageType, usableSpace int) (*Cell, error) {
	switch pageType {
	case PageTypeLeafTable:
		payloadSize, pos, err := readVarint(data, offset)
		if err != nil {
			return nil, err
		}
		rowID, pos2, err := readVarint(data, pos)
		if err != nil {
			return nil, err
		}
		if err := checkOverflow(pos2, payloadSize, len(data), usableSpace); err != nil {
			return nil, err
		}
		record, _, err := decodeRecord(data, pos2)
		if err != nil {
			return nil, err
		}
		return &Cell{Kind: pageType, LeafTable: &LeafTableCell{RowID: rowID, Record: record}}, nil

	case PageTypeInteriorTable:
		if offset+4 > len(data) {
			return nil, NewDatabaseError("decode_interior_table_cell", ErrIoError, nil)
		}
		leftChild := binary.BigEndian.Uint32(data[offset : offset+4])
		rowID, _, err := readVarint(data, offset+4)
		if err != nil {
			return nil, err
		}
		return &Cell{Kind: pageType, InteriorTable: &InteriorTableCell{LeftChild: leftChild, RowID: rowID}}, nil

	case PageTypeLeafIndex:
		payloadSize, pos, err := readVarint(data, offset)
		if err != nil {
			return nil, err
		}
		if err := checkOverflow(pos, payloadSize, len(data), usableSpace); err != nil {
			return nil, err
		}
		record, _, err := decodeRecord(data, pos)
		if err != nil {
			return nil, err
		}
		return &Cell{Kind: pageType, LeafIndex: &LeafIndexCell{Record: record}}, nil

	case PageTypeInteriorIndex:
		if offset+4 > len(data) {
			return nil, NewDatabaseError("decode_interior_index_cell", ErrIoError, nil)
		}
		leftChild := binary.BigEndian.Uint32(data[offset : offset+4])
		payloadSize, pos, err := readVarint(data, offset+4)
		if err != nil {
			return nil, err
		}
		if err := checkOverflow(pos, payloadSize, len(data), usableSpace); err != nil {
			return nil, err
		}
		record, _, err := decodeRecord(data, pos)
		if err != nil {
			return nil, err
		}
		return &Cell{Kind: pageType, InteriorIndex: &InteriorIndexCell{LeftChild: leftChild, Record: record}}, nil

	default:
		return nil, NewDatabaseError("decode_cell", ErrBadPageType, map[string]interface{}{"page_type": pageType})
	}
}

// checkOverflow flags records whose declared payload would need an overflow
// page instead of silently truncating them (§4.4, §9).
func checkOverflow(payloadStart int, payloadSize uint64, dataLen, usableSpace int) error {
	if payloadStart+int(payloadSize) > dataLen {
		if int(payloadSize) > usableSpace {
			return NewDatabaseError("check_overflow", ErrUnsupportedOverflow, map[string]interface{}{
				"payload_size": payloadSize,
				"usable_space": usableSpace,
			})
		}
		return NewDatabaseError("check_overflow", ErrIoError, map[string]interface{}{
			"payload_start": payloadStart,
			"payload_size":  payloadSize,
			"data_len":      dataLen,
		})
	}
	return nil
}

// keyBytes extracts the comparison key (first record column's raw bytes)
// from an index cell's record, per invariant (e): a leaf-index record always
// has >= 2 columns: key(s) then row-id.
func (c *Record) keyBytes() []byte {
	return c.Columns[0]
}

// indexRowID extracts the trailing row-id column from an index record.
func (c *Record) indexRowID() (uint64, error) {
	v := c.ColumnValue(len(c.Columns) - 1)
	i, err := v.Int64()
	if err != nil {
		return 0, err
	}
	return uint64(i), nil
}
