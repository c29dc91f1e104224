// Package h5store persists tables to HDF5.
//
// A table is written as one group (the key, "df" for retrievals) holding one
// float64 dataset per column and, when the table is time-indexed, an "index"
// dataset of int64 Unix nanoseconds.
package h5store

import (
	"fmt"

	"gonum.org/v1/hdf5"

	"github.com/hpungsan/divdata/internal/table"
)

// IndexDataset is the dataset name holding the time index.
const IndexDataset = "index"

// Writer writes tables to HDF5 files.
type Writer struct{}

// WriteTable creates (or truncates) path and stores t under group key.
func (Writer) WriteTable(path, key string, t *table.Table) error {
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	g, err := f.CreateGroup(key)
	if err != nil {
		return fmt.Errorf("create group %q: %w", key, err)
	}
	defer g.Close()

	n := uint(t.Len())
	if t.Index != nil {
		nanos := make([]int64, len(t.Index))
		for i, ts := range t.Index {
			nanos[i] = ts.UnixNano()
		}
		if err := writeDataset(g, IndexDataset, hdf5.T_NATIVE_INT64, n, &nanos); err != nil {
			return err
		}
	}

	for _, col := range t.Columns {
		values := col.Values
		if err := writeDataset(g, col.Name, hdf5.T_NATIVE_DOUBLE, n, &values); err != nil {
			return err
		}
	}

	return f.Flush(hdf5.F_SCOPE_GLOBAL)
}

func writeDataset(g *hdf5.Group, name string, dtype *hdf5.Datatype, n uint, data any) error {
	space, err := hdf5.CreateSimpleDataspace([]uint{n}, nil)
	if err != nil {
		return fmt.Errorf("dataspace for %q: %w", name, err)
	}
	defer space.Close()

	dset, err := g.CreateDataset(name, dtype, space)
	if err != nil {
		return fmt.Errorf("create dataset %q: %w", name, err)
	}
	defer dset.Close()

	if n == 0 {
		return nil
	}
	if err := dset.Write(data); err != nil {
		return fmt.Errorf("write dataset %q: %w", name, err)
	}
	return nil
}
