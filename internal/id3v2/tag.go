package id3v2

// Tag holds the frames of one ID3v2 tag grouped by frame ID. Frames with
// the same ID keep their insertion order, and IDs are emitted in the order
// they first appeared, so a loaded tag rewrites with its original layout.
type Tag struct {
	frames map[FrameID][]Frame
	order  []FrameID
}

// NewTag returns an empty tag.
func NewTag() *Tag {
	return &Tag{frames: make(map[FrameID][]Frame)}
}

// Add appends a frame after any existing frames with the same ID.
func (t *Tag) Add(f Frame) {
	if f == nil {
		return
	}
	id := f.ID()
	if _, ok := t.frames[id]; !ok {
		t.order = append(t.order, id)
	}
	t.frames[id] = append(t.frames[id], f)
}

// DeleteAll removes every frame with the given ID.
func (t *Tag) DeleteAll(id FrameID) {
	if _, ok := t.frames[id]; !ok {
		return
	}
	delete(t.frames, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// All returns the frames stored under id in insertion order.
func (t *Tag) All(id FrameID) []Frame {
	frames := t.frames[id]
	if len(frames) == 0 {
		return nil
	}
	out := make([]Frame, len(frames))
	copy(out, frames)
	return out
}

// Text returns the text of the first TextFrame stored under id.
func (t *Tag) Text(id FrameID) (string, bool) {
	for _, f := range t.frames[id] {
		if tf, ok := f.(TextFrame); ok {
			return tf.Text, true
		}
	}
	return "", false
}

// IDs returns the distinct frame IDs in first-insertion order.
func (t *Tag) IDs() []FrameID {
	out := make([]FrameID, len(t.order))
	copy(out, t.order)
	return out
}

// Len reports the total number of frames in the tag.
func (t *Tag) Len() int {
	n := 0
	for _, frames := range t.frames {
		n += len(frames)
	}
	return n
}
