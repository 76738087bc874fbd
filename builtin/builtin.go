// Package builtin embeds the offset table shipped with the module.
//
// The table is the v3.0.75.30 header imported with HIGHLIGHT_SETTINGS
// marked absolute. Regenerate it with:
//
//	offsets convert header/testdata/offsets.h --absolute HIGHLIGHT_SETTINGS -o builtin/apex.json
package builtin

import (
	"embed"
	"sync"

	"github.com/susu753/apexub/table"
)

// Name is the embedded file name.
const Name = "apex.json"

//go:embed apex.json
var files embed.FS

var (
	once sync.Once
	tbl  *table.Table
	err  error
)

// Table returns the embedded table. It is decoded once and shared;
// tables are immutable so the result is safe for concurrent use.
func Table() (*table.Table, error) {
	once.Do(func() {
		tbl, err = table.LoadFS(files, Name)
	})
	return tbl, err
}
