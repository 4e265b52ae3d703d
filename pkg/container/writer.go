// Package container writes and reads Avro object container files.
//
// Two write paths produce frame-compatible output: WriteFile drives
// the regular container encoder with one record per block, and
// AppendWriter simulates appending to an existing file by framing
// each record block by hand. Both pin the same sync marker so the
// resulting bytes can be compared across runs.
package container

import (
	"fmt"
	"os"

	"github.com/hamba/avro/v2"
	"github.com/hamba/avro/v2/ocf"
)

// SyncMarker is the pinned 16-byte sync marker. The container format
// normally randomizes it per file; a fixed marker keeps output
// byte-reproducible and lets the append path emit compatible blocks.
var SyncMarker = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// WriteFile writes records to a container file at path using the
// regular encoder. Block length is forced to 1 so every record lands
// in its own block, mirroring what repeated appends would produce.
func WriteFile[T any](path string, schema avro.Schema, records []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	enc, err := ocf.NewEncoderWithSchema(schema, f,
		ocf.WithSyncBlock(SyncMarker),
		ocf.WithBlockLength(1),
	)
	if err != nil {
		f.Close()
		return fmt.Errorf("create container encoder: %w", err)
	}

	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			f.Close()
			return fmt.Errorf("encode record: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close container encoder: %w", err)
	}
	return f.Close()
}

// AppendWriter simulates appending records to a container file. The
// header (including the sync marker) is written up front by the
// regular encoder with no records; each Append then writes one
// complete block by hand: the record count (always 1), the byte size
// of the serialized record, the record itself, and the sync marker.
type AppendWriter struct {
	f      *os.File
	schema avro.Schema
}

// NewAppendWriter creates the file at path and writes an empty
// container header for schema.
func NewAppendWriter(path string, schema avro.Schema) (*AppendWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	enc, err := ocf.NewEncoderWithSchema(schema, f, ocf.WithSyncBlock(SyncMarker))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create container encoder: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return nil, fmt.Errorf("write container header: %w", err)
	}

	return &AppendWriter{f: f, schema: schema}, nil
}

// Append frames v as a single-record block at the end of the file.
func (w *AppendWriter) Append(v any) error {
	data, err := avro.Marshal(w.schema, v)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	buf := make([]byte, 0, longSize(1)+longSize(int64(len(data)))+len(data)+len(SyncMarker))
	buf = appendLong(buf, 1)
	buf = appendLong(buf, int64(len(data)))
	buf = append(buf, data...)
	buf = append(buf, SyncMarker[:]...)

	if _, err := w.f.Write(buf); err != nil {
		return fmt.Errorf("append block: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (w *AppendWriter) Close() error {
	return w.f.Close()
}
