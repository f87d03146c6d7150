// Package dataset reads the tabular training data and partitions it
// into features, target labels and train/test subsets.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/text/encoding/charmap"
)

// Error kinds reported by the loader and the splitters.
var (
	ErrNotFound      = errors.New("file not found")
	ErrParse         = errors.New("cannot parse file")
	ErrMissingColumn = errors.New("missing column")
	ErrNonNumeric    = errors.New("non-numeric value")
	ErrStratify      = errors.New("cannot stratify")
)

// Table is an ordered set of named columns.  Cells are kept as
// strings in row-major order; every row holds len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of the named column or -1.
func (t *Table) Index(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Load reads a comma separated, latin1 encoded file.  The first record
// is the header.  If the file does not exist, the returned error
// wraps ErrNotFound.  All other failures wrap ErrParse.
func Load(path string) (*Table, error) {
	in, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %v", path, ErrParse, err)
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %v", path, ErrParse, err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("load %s: %w: no columns to parse", path, ErrParse)
	}
	m, err := mmap.Map(in, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %v", path, ErrParse, err)
	}
	defer m.Unmap()
	t, err := read(bytes.NewReader(m))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %v", path, ErrParse, err)
	}
	return t, nil
}

func read(in io.Reader) (*Table, error) {
	r := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(in))
	r.Comma = ','
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("no columns to parse")
	}
	if err != nil {
		return nil, err
	}
	t := Table{Columns: dedup(header)}
	for {
		record, err := r.Read()
		if err == io.EOF {
			return &t, nil
		}
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, record)
	}
}

// dedup renames repeated header names to name.1, name.2, ...
func dedup(header []string) []string {
	ret := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		ret[i] = name
		if n, ok := seen[name]; ok {
			for {
				n++
				cand := name + "." + strconv.Itoa(n)
				if _, dup := seen[cand]; !dup {
					ret[i] = cand
					break
				}
			}
			seen[name] = n
		}
		seen[ret[i]] = 0
	}
	return ret
}
