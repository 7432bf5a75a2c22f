package editor

// Step replaces the range [From, To) of a document with Slice.
type Step struct {
	From  int
	To    int
	Slice []Node
}

// Apply applies the step to doc.
func (s Step) Apply(doc *Doc) (*Doc, error) {
	return doc.replace(s.From, s.To, s.Slice)
}

// Map returns the position map describing the step.
func (s Step) Map() StepMap {
	return StepMap{Pos: s.From, OldSize: s.To - s.From, NewSize: nodesSize(s.Slice)}
}

// StepMap describes how one replace step moved positions.
type StepMap struct {
	Pos     int
	OldSize int
	NewSize int
}

// Map maps pos through the step.
//
// Positions before the replaced range are unchanged and positions after it
// shift by the size delta. For positions touching the range, assoc decides
// the side: assoc < 0 sticks to the start, otherwise the position moves to the
// end of the inserted content. The edges of a deleted range always map to
// the start and end of the replacement respectively.
func (m StepMap) Map(pos, assoc int) int {
	start := m.Pos
	end := m.Pos + m.OldSize
	if pos < start {
		return pos
	}
	if pos > end {
		return pos + m.NewSize - m.OldSize
	}

	side := assoc
	if m.OldSize > 0 {
		switch pos {
		case start:
			side = -1
		case end:
			side = 1
		}
	}
	if side < 0 {
		return start
	}
	return start + m.NewSize
}

// Mapping is an ordered sequence of step maps.
type Mapping struct {
	maps []StepMap
}

// Append adds a step map to the end of the mapping.
func (m *Mapping) Append(sm StepMap) {
	m.maps = append(m.maps, sm)
}

// Maps returns the step maps in application order.
func (m *Mapping) Maps() []StepMap {
	return append([]StepMap(nil), m.maps...)
}

// Map maps a position forward through every step. assoc follows StepMap.Map.
func (m *Mapping) Map(pos, assoc int) int {
	for _, sm := range m.maps {
		pos = sm.Map(pos, assoc)
	}
	return pos
}
