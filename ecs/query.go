package ecs

// IntersectEntities returns the ids present in both sets in ascending order,
// so iteration over two kinds does not depend on removal history.
func IntersectEntities(a, b *SparseSet) []int {
	if a.Len() == 0 || b.Len() == 0 {
		return nil
	}
	if a.Len() > b.Len() {
		a, b = b, a
	}
	out := make([]int, 0, a.Len())
	for _, id := range a.Entities() {
		if b.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
