//go:build rp2040

package main

import "tinygo.org/x/tinyfs"

// fileStore adapts an open FAT file to the monitor's storage contract.
// Append lands in the filesystem's write buffer; Flush is the expensive
// push to the physical card and is only called on the amortized cadence.
type fileStore struct {
	f tinyfs.File
}

func (s *fileStore) Append(p []byte) error {
	_, err := s.f.Write(p)
	return err
}

func (s *fileStore) Flush() error {
	if f, ok := s.f.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}
