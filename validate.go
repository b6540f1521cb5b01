//go:build !depot_unchecked

package depot

// validate enables precondition checks. Build with the depot_unchecked tag
// to compile them out.
const validate = true
