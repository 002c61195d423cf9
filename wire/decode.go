package wire

// Decode runs fn over a Reader wrapping data, converting any out-of-range
// read (a truncated or corrupted buffer) into ErrTruncated instead of a
// panic. Every call site that decodes bytes coming off disk (chain/storage)
// rather than bytes this process just produced goes through Decode so a
// corrupted block file degrades to a storage error, not a crash.
func Decode(data []byte, fn func(*Reader) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			if e, ok := p.(error); ok && e == ErrTooLargeAlloc {
				err = e
				return
			}
			err = ErrTruncated
		}
	}()
	return fn(NewReader(data))
}
