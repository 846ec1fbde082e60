// Package id handles the optional record identifiers used by the values
// datasets.
//
// A record identifier is a UUID that may be absent. Absent identifiers are
// spelled as an empty string or the literal "null" on the wire and on the
// command line:
//
//	rid, err := id.ParseOptional(c.Query("id"))   // "" -> nil
//	ids, err := id.ParseOptionalList(args)         // ["null", "<uuid>"]
//
// RowKey picks the store row key for a record, falling back to a fresh UUID
// for records without an identifier.
package id
