package table

import (
	"fmt"
	"math"
	"time"
)

// IndexByTime sets t.Index from six date/time columns named by dateCols, in
// year, month, day, hour, minute, second order (UTC). Fractional seconds are
// kept to the nanosecond. With dropDates the source columns are removed;
// otherwise they stay next to the index. Row order is unchanged.
func IndexByTime(t *Table, dateCols []string, dropDates bool) error {
	if len(dateCols) != 6 {
		return fmt.Errorf("time index: need 6 date columns, got %d", len(dateCols))
	}
	parts := make([][]float64, len(dateCols))
	for i, name := range dateCols {
		values, ok := t.Column(name)
		if !ok {
			return fmt.Errorf("time index: missing column %q", name)
		}
		parts[i] = values
	}

	index := make([]time.Time, t.Len())
	for row := range index {
		sec, frac := math.Modf(parts[5][row])
		index[row] = time.Date(
			int(parts[0][row]),
			time.Month(int(parts[1][row])),
			int(parts[2][row]),
			int(parts[3][row]),
			int(parts[4][row]),
			int(sec),
			int(math.Round(frac*1e9)),
			time.UTC,
		)
	}
	t.Index = index

	if dropDates {
		t.Drop(dateCols...)
	}
	return nil
}
