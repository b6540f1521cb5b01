package depot

import (
	"reflect"
	"sync"

	"github.com/TheBitDrifter/table"
)

// elementTypes holds one table.ElementType per Go type for the process, so
// handles and pools of the same type share an element id.
var elementTypes sync.Map

func elementTypeFor[T any]() table.ElementType {
	t := reflect.TypeFor[T]()
	if elem, ok := elementTypes.Load(t); ok {
		return elem.(table.ElementType)
	}
	elem, _ := elementTypes.LoadOrStore(t, table.FactoryNewElementType[T]())
	return elem.(table.ElementType)
}

// Component is a typed handle to the pool of T. It resolves the pool against
// whichever storage it is used with.
type Component[T any] struct {
	table.ElementType
}

// FactoryNewComponent returns the handle for component type T.
func FactoryNewComponent[T any]() Component[T] {
	return Component[T]{ElementType: elementTypeFor[T]()}
}

// Pool returns the pool of T in sto, creating it on first use.
func (c Component[T]) Pool(sto Storage) *Pool[T] {
	return PoolFor[T](sto)
}

func (c Component[T]) Ref() PoolRef {
	return Ref[T]()
}

// GetFromEntity retrieves the component value of e.
func (c Component[T]) GetFromEntity(sto Storage, e Entity) *T {
	return c.Pool(sto).Get(e)
}

// GetFromCursor retrieves the component value of the entity the cursor is on.
func (c Component[T]) GetFromCursor(cursor *Cursor) *T {
	return c.Pool(cursor.it.sto).Get(cursor.current)
}

// GetFromCursorSafe reports whether the cursor's entity holds T and returns
// it when it does.
func (c Component[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	if !c.CheckCursor(cursor) {
		return false, nil
	}
	return true, c.GetFromCursor(cursor)
}

func (c Component[T]) CheckCursor(cursor *Cursor) bool {
	return cursor.open && c.Pool(cursor.it.sto).Has(cursor.current)
}
