package divdata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumns(t *testing.T) {
	require.Len(t, Columns, 13)
	require.Equal(t, "year,month,date,hour,minute,second,jdate,c,det,clat,clon,radiance,tb", ExtractList())

	seen := make(map[string]bool)
	for _, c := range Columns {
		require.False(t, seen[c], "duplicate column %q", c)
		seen[c] = true
	}
}

func TestDateColumnsLeadColumns(t *testing.T) {
	require.Len(t, DateColumns, 6)
	require.Equal(t, Columns[:len(DateColumns)], DateColumns)
}
