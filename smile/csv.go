package smile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Bookkeeping columns the predefined configs prepend to every CSV row.
// They are not features and are stripped from the parsed table.
var bookkeepingColumns = map[string]bool{
	"name":      true,
	"frameTime": true,
}

// parseOutput reads an openSMILE CSV table (semicolon-delimited, header
// first) and returns the feature column names plus the numeric table as a
// dense matrix.
func parseOutput(r io.Reader) ([]string, *mat.Dense, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read engine output header: %w", err)
	}

	// Columns to keep, by index.
	keep := make([]int, 0, len(header))
	names := make([]string, 0, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		if bookkeepingColumns[col] {
			continue
		}
		keep = append(keep, i)
		names = append(names, col)
	}
	if len(names) == 0 {
		return nil, nil, fmt.Errorf("engine output has no feature columns")
	}

	var data []float64
	rows := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read engine output row %d: %w", rows+1, err)
		}

		for _, i := range keep {
			if i >= len(record) {
				return nil, nil, fmt.Errorf("engine output row %d has %d columns, expected %d", rows+1, len(record), len(header))
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("engine output row %d column %q is not numeric: %w", rows+1, header[i], err)
			}
			data = append(data, v)
		}
		rows++
	}

	if rows == 0 {
		return nil, nil, fmt.Errorf("engine output has no feature rows")
	}

	return names, mat.NewDense(rows, len(names), data), nil
}
