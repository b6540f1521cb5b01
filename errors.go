package depot

import (
	"fmt"
	"reflect"
)

type ComponentExistsError struct {
	Type   reflect.Type
	Entity Entity
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component already exists on entity %v: %v", e.Entity, e.Type)
}

type ComponentNotFoundError struct {
	Type   reflect.Type
	Entity Entity
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component does not exist on entity %v: %v", e.Entity, e.Type)
}

type StaleEntityError struct {
	Entity Entity
}

func (e StaleEntityError) Error() string {
	return fmt.Sprintf("entity %v is not alive", e.Entity)
}

// ReadOnlyPoolError is raised when a pool is mutated while more than one
// enumeration holds it open.
type ReadOnlyPoolError struct {
	Type     reflect.Type
	Blockers int
}

func (e ReadOnlyPoolError) Error() string {
	return fmt.Sprintf("pool %v is read-only: %d open enumerations", e.Type, e.Blockers)
}

type UnbalancedBlockersError struct {
	Type reflect.Type
}

func (e UnbalancedBlockersError) Error() string {
	return fmt.Sprintf("pool %v released more enumerations than it opened", e.Type)
}

type AlreadyInitializedError struct {
	What string
}

func (e AlreadyInitializedError) Error() string {
	return fmt.Sprintf("%s is already initialized", e.What)
}

type NotInitializedError struct {
	What string
}

func (e NotInitializedError) Error() string {
	return fmt.Sprintf("%s is not initialized", e.What)
}

type InvalidIteratorError struct {
	Reason string
}

func (e InvalidIteratorError) Error() string {
	return fmt.Sprintf("invalid iterator: %s", e.Reason)
}

type PoolLimitError struct {
	Type     reflect.Type
	ID       uint32
	MaxPools int
}

func (e PoolLimitError) Error() string {
	return fmt.Sprintf("pool id %d for %v exceeds the configured limit of %d pools", e.ID, e.Type, e.MaxPools)
}

type TypeMismatchError struct {
	Want reflect.Type
	Got  reflect.Type
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("value of type %v cannot be stored in pool of %v", e.Got, e.Want)
}

type NilStreamError struct {
	Op string
}

func (e NilStreamError) Error() string {
	return fmt.Sprintf("%s stream is nil", e.Op)
}
