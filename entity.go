package depot

import "fmt"

// Entity identifies an object in a Storage. The index is reused after the
// entity is destroyed; the generation tells the old and new owner apart.
type Entity struct {
	index uint32
	gen   int32
}

func (e Entity) Index() uint32 {
	return e.index
}

func (e Entity) Gen() int32 {
	return e.gen
}

func (e Entity) String() string {
	return fmt.Sprintf("%d:%d", e.index, e.gen)
}

// nextGen returns the generation handed out when a freed index is reused.
func nextGen(dead int32) int32 {
	gen := -dead + 1
	if gen <= 0 {
		return 1
	}
	return gen
}
