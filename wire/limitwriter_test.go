// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
)

// limitWriter buffers at most limit bytes.  A write that would go past the
// limit is rejected whole with io.ErrShortWrite so encoders can be driven
// into their error paths at any field boundary.
type limitWriter struct {
	buf   bytes.Buffer
	limit int
}

func newLimitWriter(limit int) *limitWriter {
	return &limitWriter{limit: limit}
}

func (w *limitWriter) Write(p []byte) (int, error) {
	if w.buf.Len()+len(p) > w.limit {
		return 0, io.ErrShortWrite
	}
	return w.buf.Write(p)
}
