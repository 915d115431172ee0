package storageutil

import (
	"io"

	json "github.com/goccy/go-json"
	"github.com/pierrec/lz4/v4"
)

// CompressedWrite encodes d as JSON and writes it lz4-compressed to w.
func CompressedWrite(w io.Writer, d interface{}) error {
	zw := lz4.NewWriter(w)
	_ = zw.Apply(lz4.CompressionLevelOption(lz4.Level9))
	if err := json.NewEncoder(zw).Encode(d); err != nil {
		return err
	}
	return zw.Close()
}

// UnmarshalCompressed reads lz4-compressed JSON from r and decodes it
// into d.
func UnmarshalCompressed(r io.Reader, d interface{}) error {
	return json.NewDecoder(lz4.NewReader(r)).Decode(d)
}
