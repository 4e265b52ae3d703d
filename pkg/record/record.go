package record

import (
	"github.com/hamba/avro/v2"
)

// SchemaJSON is the writer schema for the User record. It is the
// example schema from the Avro getting-started guide and is kept
// verbatim so output stays comparable with other implementations.
const SchemaJSON = `{
	"namespace": "example.avro",
	"type": "record",
	"name": "User",
	"fields": [
		{"name": "name", "type": "string"},
		{"name": "favorite_number", "type": ["int", "null"]},
		{"name": "favorite_color", "type": ["string", "null"]}
	]
}`

// Schema is the parsed form of SchemaJSON.
var Schema = avro.MustParse(SchemaJSON)

// User is a single synthesized record. The union fields are pointers
// so a nil value round-trips as the Avro null branch.
type User struct {
	Name           string  `avro:"name"`
	FavoriteNumber *int    `avro:"favorite_number"`
	FavoriteColor  *string `avro:"favorite_color"`
}
