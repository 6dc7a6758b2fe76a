package bufio2

import (
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// CursorID identifies an open cursor on a Manager. Cursors are
// lightweight: only a file position, no shared state with other
// cursors on the same file (spec §4.1).
type CursorID uint32

type cursor struct {
	pos uint64
}

type page struct {
	data  []byte
	dirty bool
}

// Manager is a paged read/write layer over a single file. All reads
// and writes go through an aligned page cache; dirty pages are
// written back on Flush. Safe for concurrent use by multiple cursors.
type Manager struct {
	mu       sync.RWMutex
	file     *os.File
	pageSize int
	pages    map[uint64]*page // page index -> page
	size     uint64           // logical file size, grows on WriteToEndOfFile

	cursors   sync.Map // CursorID -> *cursor
	nextCursor atomic.Uint32
}

// Open opens (creating if absent) the file at path for paged access
// with the given page size.
func Open(path string, pageSize int) (*Manager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, ioErr("open", 0, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ioErr("stat", 0, err)
	}
	return &Manager{
		file:     f,
		pageSize: pageSize,
		pages:    make(map[uint64]*page),
		size:     uint64(info.Size()),
	}, nil
}

// OpenCursor returns a new cursor positioned at offset 0.
func (m *Manager) OpenCursor() CursorID {
	id := CursorID(m.nextCursor.Add(1))
	m.cursors.Store(id, &cursor{})
	return id
}

// CloseCursor discards the cursor. It is a no-op on the underlying
// file or page cache.
func (m *Manager) CloseCursor(id CursorID) {
	m.cursors.Delete(id)
}

func (m *Manager) getCursor(id CursorID) (*cursor, *BufIoError) {
	v, ok := m.cursors.Load(id)
	if !ok {
		return nil, invalidDataErr("cursor-lookup", id, os.ErrInvalid)
	}
	return v.(*cursor), nil
}

// SeekWithCursor repositions id to offset.
func (m *Manager) SeekWithCursor(id CursorID, offset uint64) error {
	c, err := m.getCursor(id)
	if err != nil {
		return err
	}
	c.pos = offset
	return nil
}

// CursorPosition returns id's current file position.
func (m *Manager) CursorPosition(id CursorID) (uint64, error) {
	c, err := m.getCursor(id)
	if err != nil {
		return 0, err
	}
	return c.pos, nil
}

// FileSize returns the logical file size, including bytes written but
// not yet flushed to disk.
func (m *Manager) FileSize() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}

func (m *Manager) pageIndex(offset uint64) uint64 {
	return offset / uint64(m.pageSize)
}

// loadPage returns page idx, reading it from disk on first access and
// caching it in m.pages. Caller must hold m.mu for writing, since a
// miss inserts into m.pages.
func (m *Manager) loadPage(idx uint64) (*page, *BufIoError) {
	if p, ok := m.pages[idx]; ok {
		return p, nil
	}
	buf := make([]byte, m.pageSize)
	_, err := m.file.ReadAt(buf, int64(idx)*int64(m.pageSize))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, ioErr("read-page", 0, err)
	}
	p := &page{data: buf}
	m.pages[idx] = p
	return p, nil
}

// readAt reads n bytes starting at offset, spanning pages as needed.
func (m *Manager) readAt(offset uint64, n int) ([]byte, *BufIoError) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]byte, n)
	read := 0
	for read < n {
		cur := offset + uint64(read)
		idx := m.pageIndex(cur)
		p, err := m.loadPage(idx)
		if err != nil {
			return nil, err
		}
		inPage := int(cur % uint64(m.pageSize))
		avail := m.pageSize - inPage
		toCopy := n - read
		if toCopy > avail {
			toCopy = avail
		}
		copy(out[read:read+toCopy], p.data[inPage:inPage+toCopy])
		read += toCopy
	}
	return out, nil
}

// writeAt writes data starting at offset, spanning pages as needed and
// marking each touched page dirty. Extends the logical file size when
// the write runs past the current end.
func (m *Manager) writeAt(offset uint64, data []byte) *BufIoError {
	m.mu.Lock()
	defer m.mu.Unlock()

	written := 0
	for written < len(data) {
		cur := offset + uint64(written)
		idx := m.pageIndex(cur)
		p, err := m.loadPage(idx)
		if err != nil {
			return err
		}
		inPage := int(cur % uint64(m.pageSize))
		avail := m.pageSize - inPage
		toCopy := len(data) - written
		if toCopy > avail {
			toCopy = avail
		}
		copy(p.data[inPage:inPage+toCopy], data[written:written+toCopy])
		p.dirty = true
		written += toCopy
	}
	if end := offset + uint64(len(data)); end > m.size {
		m.size = end
	}
	return nil
}

// ReadWithCursor reads n bytes starting at id's current position and
// advances it.
func (m *Manager) ReadWithCursor(id CursorID, n int) ([]byte, error) {
	c, cerr := m.getCursor(id)
	if cerr != nil {
		return nil, cerr
	}
	data, err := m.readAt(c.pos, n)
	if err != nil {
		err.Cursor = id
		return nil, err
	}
	c.pos += uint64(n)
	return data, nil
}

// UpdateWithCursor overwrites len(data) bytes starting at id's current
// position and advances it. The target region must already exist
// within the file (use WriteToEndOfFile to extend).
func (m *Manager) UpdateWithCursor(id CursorID, data []byte) error {
	c, cerr := m.getCursor(id)
	if cerr != nil {
		return cerr
	}
	if err := m.writeAt(c.pos, data); err != nil {
		err.Cursor = id
		return err
	}
	c.pos += uint64(len(data))
	return nil
}

// WriteToEndOfFile appends data at the current logical end of file and
// returns the offset it was written at. The region is reserved under
// the write lock, so concurrent appends never receive the same offset.
func (m *Manager) WriteToEndOfFile(data []byte) (uint64, error) {
	m.mu.Lock()
	offset := m.size
	m.size += uint64(len(data))
	m.mu.Unlock()
	if err := m.writeAt(offset, data); err != nil {
		return 0, err
	}
	return offset, nil
}

// Flush writes all dirty pages to disk and clears their dirty bit.
func (m *Manager) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for idx, p := range m.pages {
		if !p.dirty {
			continue
		}
		if _, err := m.file.WriteAt(p.data, int64(idx)*int64(m.pageSize)); err != nil {
			return ioErr("flush", 0, err)
		}
		p.dirty = false
	}
	return ioErrOrNil(m.file.Sync())
}

func ioErrOrNil(err error) error {
	if err == nil {
		return nil
	}
	return ioErr("sync", 0, err)
}

// Close flushes and closes the underlying file.
func (m *Manager) Close() error {
	if err := m.Flush(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return ioErrOrNil(m.file.Close())
}
