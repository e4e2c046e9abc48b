package logging

// Field names shared by every component so log output stays greppable.
const (
	FieldFile      = "file_path"
	FieldSheet     = "sheet"
	FieldRole      = "role"
	FieldRow       = "row"
	FieldColumn    = "column"
	FieldValue     = "value"
	FieldUser      = "user_id"
	FieldBatch     = "batch_id"
	FieldKind      = "kind"
	FieldName      = "name"
	FieldCount     = "count"
	FieldOperation = "operation"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldFormat    = "format"
)
