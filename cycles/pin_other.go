//go:build !linux

package cycles

func LockToCPU(cpu int) (func(), error) {
	return nil, ErrUnsupportedPlatform
}

func AllowedCPUs() ([]int, error) {
	return nil, ErrUnsupportedPlatform
}
