package kv

import (
	"fmt"
	"os"
)

// Open selects a Store backend using environment variables.
// Defaults to sqlite when unset.
//
//	CLINICCORE_KV_DRIVER: memory|sqlite|leveldb|postgres (default sqlite)
//	CLINICCORE_SQLITE_PATH: path to sqlite file (default ./cliniccore.db)
//	CLINICCORE_LEVELDB_PATH: path to leveldb directory (default ./cliniccore.ldb)
//	CLINICCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func Open() (Store, error) {
	driver := os.Getenv("CLINICCORE_KV_DRIVER")
	if driver == "" {
		driver = string(DriverSQLite)
	}
	switch Driver(driver) {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return NewSQLite(os.Getenv("CLINICCORE_SQLITE_PATH"))
	case DriverLevelDB:
		return NewLevelDB(os.Getenv("CLINICCORE_LEVELDB_PATH"))
	case DriverPostgres:
		return NewPostgres(os.Getenv("CLINICCORE_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown kv driver %s", driver)
	}
}
