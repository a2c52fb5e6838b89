package ecs

import "strconv"

// Entity is a generational handle. ID is 1-based; the zero Entity is never
// alive.
type Entity struct {
	ID  int
	Gen int
}

func (e Entity) id() int {
	return e.ID
}

func (e Entity) String() string {
	return strconv.Itoa(e.ID) + "v" + strconv.Itoa(e.Gen)
}

func (e Entity) Valid() bool {
	return e.ID > 0
}
