// Package store reads a test pack and writes back its execution log and
// report.
//
// A pack is a set of named tables: the automation table (one runnable case per
// row), the execution log, the report and optionally the test case catalogue
// whose row count is reported as the total number of cases. Backends register
// themselves for file extensions, the way database/sql drivers do, and are
// selected by Open:
//
//	import _ "github.com/abdul-hamid-achik/hitsheet/packages/store/xlsx"
//
//	wb, err := store.Open("TaskManagerAPI_TestPack.xlsx", store.DefaultSheets())
//
// A pack is read once when a run starts and written once when it ends.
package store
