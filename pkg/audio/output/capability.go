// ABOUTME: Native format tables used by each backend at open time
// ABOUTME: Formats missing from a table fail instead of being converted
package output

import (
	"fmt"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
)

// nativeFormat is a backend's identifier for a sample format and the
// native sample size in bytes.
type nativeFormat struct {
	Code int
	Size int
}

type formatTable map[audio.SampleFormat]nativeFormat

// lookup fails with code when f is missing from the table.
func (t formatTable) lookup(backend string, f audio.SampleFormat, code int) (nativeFormat, error) {
	nf, ok := t[f]
	if !ok {
		return nativeFormat{}, &Error{
			Backend: backend,
			Op:      "open",
			Code:    code,
			Err:     fmt.Errorf("%w: %s", ErrUnsupportedFormat, f),
		}
	}
	return nf, nil
}

// Supports reports whether f is in the table.
func (t formatTable) Supports(f audio.SampleFormat) bool {
	_, ok := t[f]
	return ok
}
