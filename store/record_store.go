package store

import (
	"bytes"
	"encoding/gob"
	"sync"

	"github.com/gcbaptista/go-similarity-join/model"
)

// RecordStore holds the ordered record collection of one dataset. A record's
// ID is its position of first appearance and never changes once assigned;
// records are append-only.
type RecordStore struct {
	Mu      sync.RWMutex
	Records []model.Record
}

// Append adds records in order, assigning each the next positional ID.
// It returns the number of records now in the store.
func (rs *RecordStore) Append(texts []string) int {
	rs.Mu.Lock()
	defer rs.Mu.Unlock()

	for _, text := range texts {
		rs.Records = append(rs.Records, model.Record{ID: uint32(len(rs.Records)), Text: text})
	}
	return len(rs.Records)
}

// Len returns the number of records in the store.
func (rs *RecordStore) Len() int {
	rs.Mu.RLock()
	defer rs.Mu.RUnlock()
	return len(rs.Records)
}

// Texts returns a snapshot of the record strings in ID order. The join core
// consumes this slice; it is a copy, so later appends do not affect a running
// join.
func (rs *RecordStore) Texts() []string {
	rs.Mu.RLock()
	defer rs.Mu.RUnlock()

	texts := make([]string, len(rs.Records))
	for i, record := range rs.Records {
		texts[i] = record.Text
	}
	return texts
}

// Page returns up to limit records starting at offset, plus the total count.
func (rs *RecordStore) Page(offset, limit int) ([]model.Record, int) {
	rs.Mu.RLock()
	defer rs.Mu.RUnlock()

	total := len(rs.Records)
	if offset < 0 || offset >= total {
		return []model.Record{}, total
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	page := make([]model.Record, end-offset)
	copy(page, rs.Records[offset:end])
	return page, total
}

// gobRecordStoreData is a helper struct for Gob encoding/decoding RecordStore
// data. It excludes the mutex.
type gobRecordStoreData struct {
	Records []model.Record
}

// GobEncode implements the gob.GobEncoder interface for RecordStore.
func (rs *RecordStore) GobEncode() ([]byte, error) {
	rs.Mu.RLock()
	defer rs.Mu.RUnlock()

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(gobRecordStoreData{Records: rs.Records}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for RecordStore.
func (rs *RecordStore) GobDecode(data []byte) error {
	decoded := gobRecordStoreData{}
	decoder := gob.NewDecoder(bytes.NewBuffer(data))
	if err := decoder.Decode(&decoded); err != nil {
		return err
	}

	rs.Mu.Lock()
	defer rs.Mu.Unlock()
	rs.Records = decoded.Records
	return nil
}
