// Package jsonschema holds the JSON Schema subset used to describe tool
// parameters to models, plus a reflection-based generator for typed tools.
//
// [GenerateJSONSchema] derives a [Schema] from a Go type. Struct fields are
// read through their json and jsonschema tags (description, required, enum,
// default). [Schema.OrderedPropertyNames] keeps the field order, and
// properties are marshalled in that order, so a tool's first parameter stays
// first on the wire. Recursive types become $ref/$defs.
package jsonschema
