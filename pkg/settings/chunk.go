package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// NumChunks is the number of slots template text is stored in.
	NumChunks = 11
	// ChunkSize is the largest number of bytes stored in one slot.
	ChunkSize = 30000
)

// ErrTemplateTooLarge is returned by Split for text that does not fit in
// NumChunks slots.
var ErrTemplateTooLarge = errors.New("template too large")

// Chunks holds template text split across NumChunks slots. It encodes as an
// object with the keys chunk0 to chunk10.
type Chunks [NumChunks]string

// Split cuts text into chunks of at most ChunkSize bytes without splitting
// a UTF-8 sequence.
func Split(text string) (Chunks, error) {
	var c Chunks
	for i := 0; text != ""; i++ {
		if i == NumChunks {
			return Chunks{}, fmt.Errorf("%w: more than %d bytes", ErrTemplateTooLarge, NumChunks*ChunkSize)
		}
		n := len(text)
		if n > ChunkSize {
			n = ChunkSize
			for n > 0 && !utf8.RuneStart(text[n]) {
				n--
			}
		}
		c[i], text = text[:n], text[n:]
	}
	return c, nil
}

// Join concatenates the chunks in order.
func (c Chunks) Join() string {
	return strings.Join(c[:], "")
}

func (c Chunks) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, NumChunks)
	for i, s := range c {
		m[fmt.Sprintf("chunk%d", i)] = s
	}
	return json.Marshal(m)
}

func (c *Chunks) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*c = Chunks{}
	for i := range c {
		c[i] = m[fmt.Sprintf("chunk%d", i)]
	}
	return nil
}
