package corpus

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncodings is the decode order applied to every record. The corpus
// was authored on Korean Windows machines, so EUC-KR (CP949) is tried after UTF-8.
var DefaultEncodings = []string{"utf-8", "euc-kr", "utf-16le"}

// Decoder tries an ordered list of text encodings until one yields clean text.
type Decoder struct {
	names []string
	encs  []encoding.Encoding
}

// NewDecoder resolves WHATWG encoding labels. An empty list selects DefaultEncodings.
func NewDecoder(labels []string) (*Decoder, error) {
	if len(labels) == 0 {
		labels = DefaultEncodings
	}
	d := &Decoder{}
	for _, label := range labels {
		enc, err := htmlindex.Get(label)
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", label, err)
		}
		d.names = append(d.names, label)
		d.encs = append(d.encs, enc)
	}
	return d, nil
}

// Decode returns the decoded text and the label of the encoding that produced it.
// A candidate is rejected when its output contains U+FFFD or NUL, which is how
// x/text decoders signal bytes that do not belong to the encoding.
func (d *Decoder) Decode(raw []byte) (string, string, error) {
	for i, enc := range d.encs {
		out, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		s := strings.TrimPrefix(string(out), "\uFEFF")
		if !isClean(s) {
			continue
		}
		return s, d.names[i], nil
	}
	return "", "", ErrUndecodable
}

// Labels returns the configured decode order.
func (d *Decoder) Labels() []string {
	return append([]string(nil), d.names...)
}

func isClean(s string) bool {
	return utf8.ValidString(s) &&
		!strings.ContainsRune(s, utf8.RuneError) &&
		!strings.ContainsRune(s, 0)
}
