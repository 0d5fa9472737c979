// Package sliceutil holds small generic slice helpers shared across the
// core's hot paths, mirroring the internal helper packages dragonfly keeps
// alongside its world package.
package sliceutil

// DeleteVal removes the first occurrence of val from s, preserving the
// relative order of the remaining elements. If val is not present, s is
// returned unchanged.
func DeleteVal[S ~[]E, E comparable](s S, val E) S {
	for i, v := range s {
		if v == val {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// Index returns the index of the first occurrence of val in s, or -1 if
// val is not present.
func Index[S ~[]E, E comparable](s S, val E) int {
	for i, v := range s {
		if v == val {
			return i
		}
	}
	return -1
}
