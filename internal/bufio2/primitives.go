package bufio2

import "encoding/binary"

// Fixed-width primitive helpers over ReadWithCursor/UpdateWithCursor,
// all little-endian (spec §4.1: "read_*_with_cursor and
// update_*_with_cursor for fixed-width primitives").

func (m *Manager) ReadU32WithCursor(id CursorID) (uint32, error) {
	b, err := m.ReadWithCursor(id, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (m *Manager) UpdateU32WithCursor(id CursorID, v uint32) error {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return m.UpdateWithCursor(id, b)
}

func (m *Manager) ReadU64WithCursor(id CursorID) (uint64, error) {
	b, err := m.ReadWithCursor(id, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (m *Manager) UpdateU64WithCursor(id CursorID, v uint64) error {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return m.UpdateWithCursor(id, b)
}

func (m *Manager) ReadU8WithCursor(id CursorID) (uint8, error) {
	b, err := m.ReadWithCursor(id, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (m *Manager) UpdateU8WithCursor(id CursorID, v uint8) error {
	return m.UpdateWithCursor(id, []byte{v})
}
