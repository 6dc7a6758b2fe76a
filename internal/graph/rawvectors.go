package graph

import (
	"encoding/binary"
	"math"

	"github.com/Aman-CERP/vectorcore/internal/bufio2"
	"github.com/Aman-CERP/vectorcore/internal/types"
)

// RawVectorStore appends full-precision vectors to a per-version
// vec_raw file through the buffer manager and reads them back for
// re-ranking (spec §4.10 "applies re-ranking using raw (unquantized)
// vectors read from the vec_raw file through the buffer manager").
type RawVectorStore struct {
	mgr       *bufio2.Manager
	readCur   bufio2.CursorID
	dimension int
}

// OpenRawVectorStore opens mgr's backing file for a fixed dimension.
func OpenRawVectorStore(mgr *bufio2.Manager, dimension int) *RawVectorStore {
	return &RawVectorStore{mgr: mgr, readCur: mgr.OpenCursor(), dimension: dimension}
}

// Append writes vec at the end of the file and returns its offset.
func (s *RawVectorStore) Append(vec []float32) (types.FileOffset, error) {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	offset, err := s.mgr.WriteToEndOfFile(buf)
	if err != nil {
		return 0, err
	}
	return types.FileOffset(offset), nil
}

// Read returns the full-precision vector stored at offset.
func (s *RawVectorStore) Read(offset types.FileOffset) ([]float32, error) {
	if err := s.mgr.SeekWithCursor(s.readCur, uint64(offset)); err != nil {
		return nil, err
	}
	buf, err := s.mgr.ReadWithCursor(s.readCur, s.dimension*4)
	if err != nil {
		return nil, err
	}
	vec := make([]float32, s.dimension)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec, nil
}

// Flush persists buffered writes.
func (s *RawVectorStore) Flush() error { return s.mgr.Flush() }

// Close flushes and closes the backing manager.
func (s *RawVectorStore) Close() error { return s.mgr.Close() }
