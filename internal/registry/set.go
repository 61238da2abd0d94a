package registry

import "github.com/specialistvlad/pluginui/internal/uiid"

// componentSet is an insertion-ordered set of component ids.
type componentSet struct {
	ids   []uiid.ComponentID
	index map[uiid.ComponentID]struct{}
}

func newComponentSet() *componentSet {
	return &componentSet{index: make(map[uiid.ComponentID]struct{})}
}

func (s *componentSet) add(c uiid.ComponentID) {
	if _, ok := s.index[c]; ok {
		return
	}
	s.index[c] = struct{}{}
	s.ids = append(s.ids, c)
}

func (s *componentSet) remove(c uiid.ComponentID) {
	if _, ok := s.index[c]; !ok {
		return
	}
	delete(s.index, c)
	for i, id := range s.ids {
		if id == c {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
}

func (s *componentSet) has(c uiid.ComponentID) bool {
	_, ok := s.index[c]
	return ok
}

func (s *componentSet) len() int {
	return len(s.ids)
}

// slice returns a copy safe to hand out.
func (s *componentSet) slice() []uiid.ComponentID {
	out := make([]uiid.ComponentID, len(s.ids))
	copy(out, s.ids)
	return out
}
