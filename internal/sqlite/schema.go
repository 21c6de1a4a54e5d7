package sqlite

// Schema DDL. Cell values and group orders are stored as JSON text.
const (
	createFields = `CREATE TABLE IF NOT EXISTS fields (
    field_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    value_type TEXT NOT NULL,
    date_granularity TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);`

	createOptions = `CREATE TABLE IF NOT EXISTS options (
    option_id TEXT PRIMARY KEY,
    field_id TEXT NOT NULL,
    name TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    FOREIGN KEY (field_id) REFERENCES fields(field_id) ON DELETE CASCADE
);`

	createRows = `CREATE TABLE IF NOT EXISTS rows (
    row_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createCells = `CREATE TABLE IF NOT EXISTS cells (
    row_id TEXT NOT NULL,
    field_id TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (row_id, field_id),
    FOREIGN KEY (row_id) REFERENCES rows(row_id) ON DELETE CASCADE,
    FOREIGN KEY (field_id) REFERENCES fields(field_id) ON DELETE CASCADE
);`

	createViews = `CREATE TABLE IF NOT EXISTS views (
    view_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    field_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (field_id) REFERENCES fields(field_id) ON DELETE CASCADE
);`

	createGroupSettings = `CREATE TABLE IF NOT EXISTS group_settings (
    view_id TEXT NOT NULL,
    field_id TEXT NOT NULL,
    group_order TEXT NOT NULL,
    PRIMARY KEY (view_id, field_id),
    FOREIGN KEY (view_id) REFERENCES views(view_id) ON DELETE CASCADE
);`
)

// Index DDL for common queries.
const (
	idxOptionsField = `CREATE INDEX IF NOT EXISTS idx_options_field ON options(field_id);`
	idxCellsField   = `CREATE INDEX IF NOT EXISTS idx_cells_field ON cells(field_id);`
	idxViewsField   = `CREATE INDEX IF NOT EXISTS idx_views_field ON views(field_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createFields,
	createOptions,
	createRows,
	createCells,
	createViews,
	createGroupSettings,
}

var indexDDL = []string{
	idxOptionsField,
	idxCellsField,
	idxViewsField,
}
