package mutationboard

// CropMap is a sparse map of crop cell -> CropRecord (spec.md §4, "CropMap").
// Sharing (a crop record whose Serving set has >=2 members) is the primary
// efficiency lever the scorer and fitness calculator reward.
type CropMap struct {
	byCell map[Cell]*CropRecord
}

// NewCropMap returns an empty CropMap.
func NewCropMap() *CropMap {
	return &CropMap{byCell: make(map[Cell]*CropRecord)}
}

// Clone deep-copies every crop record and its serving set.
func (cm *CropMap) Clone() *CropMap {
	out := NewCropMap()
	for cell, rec := range cm.byCell {
		serving := make(map[InstanceID]bool, len(rec.Serving))
		for id := range rec.Serving {
			serving[id] = true
		}
		out.byCell[cell] = &CropRecord{Cell: rec.Cell, Crop: rec.Crop, Serving: serving}
	}
	return out
}

// At returns the crop record at c, or nil if c carries no crop.
func (cm *CropMap) At(c Cell) *CropRecord { return cm.byCell[c] }

// Has reports whether c carries a crop.
func (cm *CropMap) Has(c Cell) bool { return cm.byCell[c] != nil }

// Place creates a new crop record at c serving only instance, or, if a crop
// already exists there (serving a different requirement), adds instance to
// its serving set — the sharing path.
func (cm *CropMap) Place(c Cell, crop CropName, instance InstanceID) {
	if rec, ok := cm.byCell[c]; ok {
		rec.Serving[instance] = true
		return
	}
	cm.byCell[c] = &CropRecord{Cell: c, Crop: crop, Serving: map[InstanceID]bool{instance: true}}
}

// Unserve drops instance from the serving set of the crop at c. If the
// serving set becomes empty the crop record is deleted and true is
// returned so the caller (Placer) knows to release the board cell too.
func (cm *CropMap) Unserve(c Cell, instance InstanceID) (deleted bool) {
	rec, ok := cm.byCell[c]
	if !ok {
		return false
	}
	delete(rec.Serving, instance)
	if len(rec.Serving) == 0 {
		delete(cm.byCell, c)
		return true
	}
	return false
}

// SharedCount returns the number of crop cells with two or more servers.
func (cm *CropMap) SharedCount() int {
	n := 0
	for _, rec := range cm.byCell {
		if rec.Shared() {
			n++
		}
	}
	return n
}

// Len returns the total number of crop cells.
func (cm *CropMap) Len() int { return len(cm.byCell) }

// All calls fn for every crop record; iteration order is unspecified.
func (cm *CropMap) All(fn func(*CropRecord)) {
	for _, rec := range cm.byCell {
		fn(rec)
	}
}
