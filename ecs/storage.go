package ecs

// entityStore tracks entity generations and free ids.
type entityStore struct {
	nextID int
	gen    []int
	alive  []bool
	free   []int
}

func (s *entityStore) create() Entity {
	if s == nil {
		return Entity{}
	}
	var id int
	if len(s.free) > 0 {
		id = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		s.nextID++
		id = s.nextID
		s.gen = append(s.gen, 0)
		s.alive = append(s.alive, false)
	}
	s.alive[id-1] = true
	return Entity{ID: id, Gen: s.gen[id-1]}
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	idx := e.ID - 1
	s.gen[idx]++
	s.alive[idx] = false
	s.free = append(s.free, e.ID)
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	if s == nil || e.ID <= 0 || e.ID > len(s.gen) {
		return false
	}
	idx := e.ID - 1
	return s.alive[idx] && s.gen[idx] == e.Gen
}

// lookup returns the live handle for a raw id.
func (s *entityStore) lookup(id int) (Entity, bool) {
	if s == nil || id <= 0 || id > len(s.gen) || !s.alive[id-1] {
		return Entity{}, false
	}
	return Entity{ID: id, Gen: s.gen[id-1]}, true
}

func (s *entityStore) all() []Entity {
	if s == nil {
		return nil
	}
	out := make([]Entity, 0, len(s.gen)-len(s.free))
	for i, ok := range s.alive {
		if ok {
			out = append(out, Entity{ID: i + 1, Gen: s.gen[i]})
		}
	}
	return out
}
