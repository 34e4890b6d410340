package datasource

// Column describes one field of a data source schema. Order matters.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Row is one materialized record of a data source.
type Row = map[string]any

// Dataset bundles a schema with its materialized rows.
type Dataset struct {
	Columns []Column
	Rows    []Row
}
