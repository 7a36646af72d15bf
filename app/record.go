package main

// Record is a decoded SQLite record: a header of serial types and the
// matching column payload slices, referenced by 0-based declaration index.
// Values are not interpreted further here; Value wraps each slice together
// with its serial type on demand (C4).
type Record struct {
	HeaderSize  uint64
	SerialTypes []uint64
	Columns     [][]byte
}

// ColumnValue returns column i as a typed Value.
func (r *Record) ColumnValue(i int) Value {
	return NewValue(r.SerialTypes[i], r.Columns[i])
}

// decodeRecord reads a record starting at offset within data. It reads
// header_size, then successive serial-type varints until the consumed
// header length equals header_size, then reads each column's payload in
// order.
func decodeRecord(data []byte, offset int) (*Record, int, error) {
	headerStart := offset
	headerSize, pos, err := readVarint(data, offset)
	if err != nil {
		return nil, 0, err
	}
	headerEnd := headerStart + int(headerSize)

	var serialTypes []uint64
	for pos < headerEnd {
		if pos > headerEnd {
			return nil, 0, NewDatabaseError("decode_record_header", ErrRecordHeaderOverrun, map[string]interface{}{
				"header_end": headerEnd,
				"pos":        pos,
			})
		}
		st, next, err := readVarint(data, pos)
		if err != nil {
			return nil, 0, err
		}
		if next > headerEnd {
			return nil, 0, NewDatabaseError("decode_record_header", ErrRecordHeaderOverrun, map[string]interface{}{
				"header_end": headerEnd,
				"consumed":   next,
			})
		}
		serialTypes = append(serialTypes, st)
		pos = next
	}

	columns := make([][]byte, len(serialTypes))
	for i, st := range serialTypes {
		width, err := serialTypeSize(st)
		if err != nil {
			return nil, 0, err
		}
		if width == 0 {
			columns[i] = nil
			continue
		}
		if pos+width > len(data) {
			return nil, 0, NewDatabaseError("decode_record_body", ErrIoError, map[string]interface{}{
				"needed": pos + width,
				"have":   len(data),
			})
		}
		columns[i] = data[pos : pos+width]
		pos += width
	}

	return &Record{HeaderSize: headerSize, SerialTypes: serialTypes, Columns: columns}, pos, nil
}
