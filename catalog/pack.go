package catalog

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// WriteModelsMsgpack writes models in MessagePack format as an array stream.
func WriteModelsMsgpack(w io.Writer, models []*Model) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.EncodeArrayLen(len(models)); err != nil {
		return err
	}
	for _, m := range models {
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode %s: %w", m.key(), err)
		}
	}
	return nil
}

// ReadModelsMsgpack reads models written by WriteModelsMsgpack. Every model
// is ready to use when fn sees it.
func ReadModelsMsgpack(r io.Reader, fn func(*Model) error) error {
	dec := msgpack.NewDecoder(r)
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		m := &Model{}
		if err := dec.Decode(m); err != nil {
			return err
		}
		if _, err := ParseNamespace(string(m.Namespace)); err != nil {
			return fmt.Errorf("model %d: %w", i, err)
		}
		m.init()
		if err := fn(m); err != nil {
			return err
		}
	}
	return nil
}

// PreloadMsgpack reads a snapshot into the model cache and returns the
// number of models read.
func (c *Catalog) PreloadMsgpack(r io.Reader) (int, error) {
	n := 0
	err := ReadModelsMsgpack(r, func(m *Model) error {
		c.Preload(m)
		n++
		return nil
	})
	return n, err
}
