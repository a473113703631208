//go:build !gocv

package segment

// New returns the backend compiled into this binary: Classical unless built
// with the gocv tag.
func New(opts Options) Backend {
	return NewClassical(opts)
}
