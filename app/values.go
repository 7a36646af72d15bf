package main

import (
	"encoding/binary"
	"fmt"
	"math"
)

// serialTypeSize maps a serial type code to its on-disk column width (C3).
// A conformant file never uses codes 10 or 11; for them it returns width -1
// together with ErrBadSerialType, so callers check the error rather than
// use the width.
func serialTypeSize(serialType uint64) (int, error) {
	switch {
	case serialType == 0, serialType == 8, serialType == 9:
		return 0, nil
	case serialType == 1:
		return 1, nil
	case serialType == 2:
		return 2, nil
	case serialType == 3:
		return 3, nil
	case serialType == 4:
		return 4, nil
	case serialType == 5:
		return 6, nil
	case serialType == 6, serialType == 7:
		return 8, nil
	case serialType >= 12 && serialType%2 == 0:
		return int((serialType - 12) / 2), nil
	case serialType >= 13 && serialType%2 == 1:
		return int((serialType - 13) / 2), nil
	default:
		return -1, NewDatabaseError("serial_type_size", ErrBadSerialType, map[string]interface{}{
			"serial_type": serialType,
		})
	}
}

// ValueType is the logical type of a decoded column value.
type ValueType uint8

const (
	ValueTypeNull ValueType = iota
	ValueTypeInt
	ValueTypeFloat
	ValueTypeText
	ValueTypeBlob
)

// Value is a decoded column value together with enough information to
// render or compare it.
type Value struct {
	serialType uint64
	data       []byte
}

// NewValue builds a Value from its serial type and raw payload bytes.
func NewValue(serialType uint64, data []byte) Value {
	return Value{serialType: serialType, data: data}
}

// NewIntValue builds a Value directly from an already-decoded integer,
// for row-id-alias columns whose value does not live in the record body.
func NewIntValue(i int64) Value {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(i))
	return Value{serialType: 6, data: buf}
}

// Type classifies the value by its serial type.
func (v Value) Type() ValueType {
	switch {
	case v.serialType == 0:
		return ValueTypeNull
	case v.serialType == 7:
		return ValueTypeFloat
	case v.serialType >= 1 && v.serialType <= 6, v.serialType == 8, v.serialType == 9:
		return ValueTypeInt
	case v.serialType >= 12 && v.serialType%2 == 0:
		return ValueTypeBlob
	case v.serialType >= 13 && v.serialType%2 == 1:
		return ValueTypeText
	default:
		return ValueTypeNull
	}
}

// Raw returns the undecoded payload bytes (empty for NULL/0/1 constants).
func (v Value) Raw() []byte {
	return v.data
}

// Int64 decodes an integer-typed value, sign-extending as needed.
func (v Value) Int64() (int64, error) {
	switch v.serialType {
	case 0:
		return 0, fmt.Errorf("null value has no integer representation")
	case 8:
		return 0, nil
	case 9:
		return 1, nil
	case 1:
		return int64(int8(v.data[0])), nil
	case 2:
		return int64(int16(binary.BigEndian.Uint16(v.data))), nil
	case 3:
		u := uint32(v.data[0])<<16 | uint32(v.data[1])<<8 | uint32(v.data[2])
		val := int32(u << 8) >> 8 // sign-extend 24 bits
		return int64(val), nil
	case 4:
		return int64(int32(binary.BigEndian.Uint32(v.data))), nil
	case 5:
		u := uint64(v.data[0])<<40 | uint64(v.data[1])<<32 | uint64(v.data[2])<<24 |
			uint64(v.data[3])<<16 | uint64(v.data[4])<<8 | uint64(v.data[5])
		val := int64(u<<16) >> 16 // sign-extend 48 bits
		return val, nil
	case 6:
		return int64(binary.BigEndian.Uint64(v.data)), nil
	default:
		return 0, fmt.Errorf("serial type %d is not an integer", v.serialType)
	}
}

// Float64 decodes a float-typed value.
func (v Value) Float64() (float64, error) {
	if v.serialType != 7 {
		return 0, fmt.Errorf("serial type %d is not a float", v.serialType)
	}
	return math.Float64frombits(binary.BigEndian.Uint64(v.data)), nil
}

// String renders the value the way the console formatter wants it: text and
// blob columns as their raw bytes, integers/floats in decimal, NULL as "".
func (v Value) String() string {
	switch v.Type() {
	case ValueTypeNull:
		return ""
	case ValueTypeText, ValueTypeBlob:
		return string(v.data)
	case ValueTypeFloat:
		f, _ := v.Float64()
		return fmt.Sprintf("%g", f)
	default:
		i, _ := v.Int64()
		return fmt.Sprintf("%d", i)
	}
}

// Column describes one declared column of a table.
type Column struct {
	Name         string
	Index        int
	IsRowIDAlias bool // true for "INTEGER PRIMARY KEY" columns
}

// Row is one output row: the record's row-id and its projected column values.
type Row struct {
	RowID  uint64
	Values []Value
}
