package container

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hamba/avro/v2/ocf"
)

// Records decodes every record in the container file at path into
// generic map values.
func Records(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec, err := ocf.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("open container %s: %w", path, err)
	}

	var records []map[string]any
	for dec.HasNext() {
		var rec map[string]any
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode record from %s: %w", path, err)
		}
		records = append(records, rec)
	}
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("read container %s: %w", path, err)
	}
	return records, nil
}

// WriteJSON decodes the container file at path and writes one JSON
// object per record to w.
func WriteJSON(path string, w io.Writer) error {
	records, err := Records(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record as JSON: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush JSON output: %w", err)
	}
	return nil
}
