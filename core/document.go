package core

import "slices"

// AddRecord appends a default record and returns it.
func (d *ChunkDocument) AddRecord() *ChunkRecord {
	record := NewChunkRecord()
	d.Records = append(d.Records, record)
	return record
}

// LookupRecord returns the record with the given ID and whether it exists.
func (d *ChunkDocument) LookupRecord(id string) (*ChunkRecord, bool) {
	i := slices.IndexFunc(d.Records, func(r *ChunkRecord) bool { return r.ID == id })
	if i == -1 {
		return nil, false
	}
	return d.Records[i], true
}

// FindRecord returns the record with the given ID. On a miss it returns a
// fresh default record that is not part of the document; callers detect the
// miss by comparing IDs.
func (d *ChunkDocument) FindRecord(id string) *ChunkRecord {
	if record, ok := d.LookupRecord(id); ok {
		return record
	}
	return NewChunkRecord()
}

// DeleteRecord removes the first record with the given ID and reports
// whether one was removed.
func (d *ChunkDocument) DeleteRecord(id string) bool {
	i := slices.IndexFunc(d.Records, func(r *ChunkRecord) bool { return r.ID == id })
	if i == -1 {
		return false
	}
	d.Records = slices.Delete(d.Records, i, i+1)
	return true
}

// AddAddition appends a default addition to the record with the given ID
// and returns it. When the record does not exist the addition is attached to
// the FindRecord sentinel and therefore discarded.
func (d *ChunkDocument) AddAddition(id string) *Addition {
	record := d.FindRecord(id)
	addition := NewAddition()
	record.Additions = append(record.Additions, addition)
	return addition
}

// LookupAddition returns the addition and whether both it and its record exist.
func (d *ChunkDocument) LookupAddition(id, additionID string) (*Addition, bool) {
	record, ok := d.LookupRecord(id)
	if !ok {
		return nil, false
	}
	i := slices.IndexFunc(record.Additions, func(a *Addition) bool { return a.ID == additionID })
	if i == -1 {
		return nil, false
	}
	return record.Additions[i], true
}

// FindAddition is the two-level counterpart of FindRecord: a miss at either
// level yields a fresh default addition that belongs to nothing.
func (d *ChunkDocument) FindAddition(id, additionID string) *Addition {
	if addition, ok := d.LookupAddition(id, additionID); ok {
		return addition
	}
	return NewAddition()
}

// DeleteAddition removes the first matching addition from the record with the
// given ID and reports whether one was removed.
func (d *ChunkDocument) DeleteAddition(id, additionID string) bool {
	record := d.FindRecord(id)
	i := slices.IndexFunc(record.Additions, func(a *Addition) bool { return a.ID == additionID })
	if i == -1 {
		return false
	}
	record.Additions = slices.Delete(record.Additions, i, i+1)
	return true
}
