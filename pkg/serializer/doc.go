// Package serializer writes command output as JSON, YAML or a table.
//
// Destinations are stdout ("" or "-"), a file path, or a ConfigMap addressed
// as cm://namespace/name. Values implementing Tabular control their own table
// layout; everything else is flattened into FIELD / VALUE rows.
package serializer
