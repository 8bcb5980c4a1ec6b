package host

import "unsafe"

// addrOfSlice returns the address of a byte slice's backing array.
func addrOfSlice(b []byte) uint64 {
	if len(b) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&b[0])))
}
