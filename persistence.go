package mutationboard

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// CellRecordType distinguishes a persisted cell as belonging to a mutation
// footprint or a crop (spec.md §6's compact wire format).
type CellRecordType byte

const (
	CellRecordMutation CellRecordType = 'm'
	CellRecordCrop     CellRecordType = 'c'
)

// CellRecord is one (row, col, type, id) triple of the persisted-state wire
// format: for a mutation cell, id is the InstanceID; for a crop cell, id is
// the crop's primary server InstanceID.
type CellRecord struct {
	Row, Col int
	Type     CellRecordType
	ID       string
}

// EncodeState serializes state's footprint and crop cells into the compact
// base64 triple format and returns the encoded string.
func EncodeState(state *State) string {
	var records []CellRecord
	state.Placements.All(func(p *Placement) {
		for _, c := range footprintCells(p.Anchor, p.Footprint) {
			records = append(records, CellRecord{Row: c.Y, Col: c.X, Type: CellRecordMutation, ID: string(p.InstanceID)})
		}
	})
	state.Crops.All(func(rec *CropRecord) {
		primary := ""
		for id := range rec.Serving {
			if primary == "" || id < InstanceID(primary) {
				primary = string(id)
			}
		}
		records = append(records, CellRecord{Row: rec.Cell.Y, Col: rec.Cell.X, Type: CellRecordCrop, ID: primary})
	})
	return encodeRecords(records)
}

func encodeRecords(records []CellRecord) string {
	var buf []byte
	for _, r := range records {
		buf = append(buf, byte(r.Row), byte(r.Col), byte(r.Type))
		idLen := make([]byte, 2)
		binary.BigEndian.PutUint16(idLen, uint16(len(r.ID)))
		buf = append(buf, idLen...)
		buf = append(buf, []byte(r.ID)...)
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// DecodeState parses the compact base64 triple format back into the flat
// CellRecord list it was built from. Reconstructing a full *State requires
// the catalog (to re-derive each instance's mutation kind and footprint),
// so callers that need a live State should re-run the solver with this
// decoded layout as a placement hint rather than expecting a literal
// round-trip here.
func DecodeState(encoded string) ([]CellRecord, error) {
	buf, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("mutationboard: decode state: %w", err)
	}
	var records []CellRecord
	i := 0
	for i < len(buf) {
		if i+5 > len(buf) {
			return nil, fmt.Errorf("mutationboard: decode state: truncated record header")
		}
		row, col, typ := int(buf[i]), int(buf[i+1]), CellRecordType(buf[i+2])
		idLen := int(binary.BigEndian.Uint16(buf[i+3 : i+5]))
		i += 5
		if i+idLen > len(buf) {
			return nil, fmt.Errorf("mutationboard: decode state: truncated id")
		}
		id := string(buf[i : i+idLen])
		i += idLen
		records = append(records, CellRecord{Row: row, Col: col, Type: typ, ID: id})
	}
	return records, nil
}
