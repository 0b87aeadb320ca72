package domain

// DatasetFormat identifies a supported dataset file format.
type DatasetFormat string

// Supported dataset formats.
const (
	DatasetFormatJSON  DatasetFormat = "json"
	DatasetFormatJSONL DatasetFormat = "jsonl"
	DatasetFormatCSV   DatasetFormat = "csv"
	DatasetFormatTSV   DatasetFormat = "tsv"
)

// IsValid returns true if the format is recognised.
func (f DatasetFormat) IsValid() bool {
	switch f {
	case DatasetFormatJSON, DatasetFormatJSONL, DatasetFormatCSV, DatasetFormatTSV:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f DatasetFormat) String() string {
	return string(f)
}

// DatasetRow is one record of a loaded dataset, keyed by column name.
type DatasetRow map[string]any

// Dataset is a tabular file loaded for row-level analysis.
type Dataset struct {
	// Path is the source file.
	Path string

	// Format is the detected file format.
	Format DatasetFormat

	// Columns lists the column names in first-seen order.
	Columns []string

	// Rows holds the parsed records.
	Rows []DatasetRow
}

// TotalRows returns the number of rows in the dataset.
func (d *Dataset) TotalRows() int {
	return len(d.Rows)
}
