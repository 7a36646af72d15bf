package main

import (
	"encoding/binary"
	"io"
	"os"
)

// ByteSource is the minimal random-access read surface the decoders need
// (C1). A plain *os.File satisfies it; tests substitute an in-memory
// implementation over a byte slice.
type ByteSource interface {
	io.ReaderAt
	io.Closer
}

// sliceSource is a ByteSource backed by an in-memory buffer, used by tests
// to avoid writing fixture files to disk.
type sliceSource struct {
	data []byte
}

func (s *sliceSource) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (s *sliceSource) Close() error { return nil }

// Database is the physical layer: an open byte source plus its parsed file
// header, capable of handing back whole decoded pages on demand. There is
// no cross-request cache (§5); PageCacheSize, if set, enables a small
// optional page memo that is invisible to callers.
type Database struct {
	source      ByteSource
	pageSize    int
	pageCount   uint32
	config      *DatabaseConfig
	resourceMgr *ResourceManager
	pageCache   map[int][]byte
}

// OpenDatabase opens path and parses its 100-byte file header.
func OpenDatabase(path string, opts ...DatabaseOption) (*Database, error) {
	cfg := DefaultDatabaseConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, NewDatabaseError("open_database", ErrIoError, map[string]interface{}{"path": path, "cause": err.Error()})
	}

	resourceMgr := NewResourceManager()
	resourceMgr.Add(file)

	db := &Database{source: file, config: cfg, resourceMgr: resourceMgr}
	if cfg.PageCacheSize > 0 {
		db.pageCache = make(map[int][]byte, cfg.PageCacheSize)
	}

	if err := db.parseHeader(); err != nil {
		resourceMgr.Close()
		return nil, err
	}
	return db, nil
}

func (db *Database) parseHeader() error {
	header := make([]byte, 100)
	if _, err := db.source.ReadAt(header, 0); err != nil {
		return NewDatabaseError("parse_header", ErrIoError, map[string]interface{}{"cause": err.Error()})
	}

	rawPageSize := binary.BigEndian.Uint16(header[16:18])
	switch {
	case rawPageSize == 1:
		return NewDatabaseError("parse_header", ErrBadPageHeader, map[string]interface{}{
			"reason": "64KiB page size (encoded value 1) is out of scope",
		})
	case rawPageSize < 512 || (rawPageSize&(rawPageSize-1)) != 0:
		return NewDatabaseError("parse_header", ErrBadPageHeader, map[string]interface{}{
			"page_size": rawPageSize,
		})
	}
	db.pageSize = int(rawPageSize)
	db.pageCount = binary.BigEndian.Uint32(header[28:32])
	return nil
}

// PageSize returns the database's page size in bytes.
func (db *Database) PageSize() int { return db.pageSize }

// HeaderPageCount returns the in-header "database size in pages" field
// verbatim, per the .dbinfo scenario in §8. Nothing else in the system
// relies on this value (§9: it may be stale).
func (db *Database) HeaderPageCount() uint32 { return db.pageCount }

// ReadPage returns the decoded page for the given 1-indexed page number.
func (db *Database) ReadPage(pageNum int) (*Page, error) {
	if db.pageCache != nil {
		if cached, ok := db.pageCache[pageNum]; ok {
			return decodePage(cached, pageNum == 1, db.usableSpace(pageNum))
		}
	}

	offset := int64(pageNum-1) * int64(db.pageSize)
	buf := make([]byte, db.pageSize)
	n, err := db.source.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, NewDatabaseError("read_page", ErrIoError, map[string]interface{}{"page": pageNum, "cause": err.Error()})
	}
	if n != db.pageSize {
		return nil, NewDatabaseError("read_page", ErrIoError, map[string]interface{}{
			"page": pageNum, "want": db.pageSize, "got": n,
		})
	}

	if db.pageCache != nil && len(db.pageCache) < db.config.PageCacheSize {
		db.pageCache[pageNum] = buf
	}

	return decodePage(buf, pageNum == 1, db.usableSpace(pageNum))
}

func (db *Database) usableSpace(pageNum int) int {
	if pageNum == 1 {
		return db.pageSize - 100
	}
	return db.pageSize
}

// Close releases the underlying byte source.
func (db *Database) Close() error {
	return db.resourceMgr.Close()
}
