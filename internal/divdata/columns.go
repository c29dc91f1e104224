// Package divdata describes a Diviner extraction request and builds the shell
// pipeline that fulfils it.
package divdata

import "strings"

// Columns is the ordered field list requested from pextract. The parser expects
// exactly these columns, in this order, after the leading pprint column.
var Columns = []string{
	"year", "month", "date", "hour", "minute", "second",
	"jdate", "c", "det", "clat", "clon", "radiance", "tb",
}

// DateColumns are the columns combined into the time index.
var DateColumns = []string{"year", "month", "date", "hour", "minute", "second"}

// ExtractList returns Columns as the comma-separated value of pextract's extract= option.
func ExtractList() string {
	return strings.Join(Columns, ",")
}
