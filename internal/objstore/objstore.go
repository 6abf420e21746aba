// Package objstore maps protocol object IDs to objects for a single
// connection.
package objstore

import "github.com/patrick9487/Smart-dashboard/wire"

type Store struct {
	objects map[uint32]wire.Object
	nextID  uint32
}

// New returns a Store that allocates IDs starting at start. Servers
// allocate from 0xFF000000 and clients from 1, per the protocol.
func New(start uint32) *Store {
	return &Store{
		objects: make(map[uint32]wire.Object),
		nextID:  start,
	}
}

// Add stores obj, allocating an ID for it if it doesn't have one yet.
func (s *Store) Add(obj wire.Object) {
	id := obj.ID()
	if id == 0 {
		id = s.nextID
		obj.SetID(id)
		s.nextID++
	}

	s.objects[id] = obj
}

func (s *Store) Get(id uint32) wire.Object {
	return s.objects[id]
}

// Has reports whether id is in use.
func (s *Store) Has(id uint32) bool {
	_, ok := s.objects[id]
	return ok
}

// Delete removes the object with the given ID and calls its Delete
// method.
func (s *Store) Delete(id uint32) {
	obj := s.objects[id]
	delete(s.objects, id)
	if obj != nil {
		obj.Delete()
	}
}

// Clear deletes every object, in no particular order.
func (s *Store) Clear() {
	for id := range s.objects {
		s.Delete(id)
	}
}
