// Package all registers every built-in export backend with the storage
// registry. Import it for side effects:
//
//	import _ "travel-etl/internal/storage/all"
//
// Kinds made available: "sqlite", "postgres", "mssql".
package all

import (
	_ "travel-etl/internal/storage/mssql"
	_ "travel-etl/internal/storage/postgres"
	_ "travel-etl/internal/storage/sqlite"
)
