//go:build depot_unchecked

package depot

const validate = false
