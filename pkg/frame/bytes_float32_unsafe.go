package frame

import (
	"unsafe"
)

// Bytes returns the memory of the frame as bytes, without copying.
func (f *Frame) Bytes() []byte {
	return SamplesAsBytes(f[:])
}

// SamplesAsBytes reinterprets the samples as bytes, without copying.
func SamplesAsBytes(s []float32) []byte {
	ptr := unsafe.SliceData(s)
	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), len(s)*SampleSize)
}

// BytesAsSamples reinterprets the bytes as samples, without copying.
// A trailing incomplete sample is ignored.
func BytesAsSamples(b []byte) []float32 {
	ptr := unsafe.SliceData(b)
	return unsafe.Slice((*float32)(unsafe.Pointer(ptr)), len(b)/SampleSize)
}

// FramesAsBytes reinterprets a contiguous run of frames as bytes, without copying.
func FramesAsBytes(frames []Frame) []byte {
	ptr := unsafe.SliceData(frames)
	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), len(frames)*Bytes)
}
