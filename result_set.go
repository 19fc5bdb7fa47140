//Copyright 2025 The mariadb-go Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of this software and associated
// documentation files (the "Software"), to deal in the Software without restriction, including without limitation
// the rights to use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the Software, and to
// permit persons to whom the Software is furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all copies or substantial portions of the
// Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE
// WARRANTIES OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS
// OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR
// OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package mariadb

import (
	"database/sql"
	"strconv"
)

// ResultSet is a fully buffered query result. All rows are pulled from the
// native result at construction time and the native result is released, so
// the session is free for further operations while the caller iterates.
//
// The cursor starts before the first row; call Next to advance. Column
// getters address the current row by index; use ColumnIndex to resolve a
// name. NULL cells read as the zero value of the requested type.
type ResultSet struct {
	columns []string
	rows    [][][]byte
	index   int
}

// newResultSet drains the pending rows into memory. A nil cell marks NULL.
func newResultSet(rows *sql.Rows) (*ResultSet, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var buffered [][][]byte
	raw := make([]sql.RawBytes, len(columns))
	scan := make([]any, len(columns))
	for i := range raw {
		scan[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, err
		}
		row := make([][]byte, len(columns))
		for i, cell := range raw {
			if cell != nil {
				copied := make([]byte, len(cell))
				copy(copied, cell)
				row[i] = copied
			}
		}
		buffered = append(buffered, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ResultSet{columns: columns, rows: buffered, index: -1}, nil
}

// RowCount returns the number of buffered rows.
func (rs *ResultSet) RowCount() uint64 { return uint64(len(rs.rows)) }

// ColumnCount returns the number of columns in the result.
func (rs *ResultSet) ColumnCount() int { return len(rs.columns) }

// ColumnName returns the name of the column at index, or "" out of range.
func (rs *ResultSet) ColumnName(index int) string {
	if index < 0 || index >= len(rs.columns) {
		return ""
	}
	return rs.columns[index]
}

// ColumnIndex returns the index of the named column, or -1 if absent.
func (rs *ResultSet) ColumnIndex(name string) int {
	for i, column := range rs.columns {
		if column == name {
			return i
		}
	}
	return -1
}

// Next advances the cursor to the next row, returning false past the end.
func (rs *ResultSet) Next() bool {
	if rs.index+1 >= len(rs.rows) {
		return false
	}
	rs.index++
	return true
}

func (rs *ResultSet) cell(index int) []byte {
	if rs.index < 0 || rs.index >= len(rs.rows) {
		return nil
	}
	if index < 0 || index >= len(rs.columns) {
		return nil
	}
	return rs.rows[rs.index][index]
}

// IsNull reports whether the cell at index in the current row is NULL.
func (rs *ResultSet) IsNull(index int) bool { return rs.cell(index) == nil }

// GetBytes returns the raw cell value; nil for NULL.
func (rs *ResultSet) GetBytes(index int) []byte { return rs.cell(index) }

func (rs *ResultSet) GetString(index int) string { return string(rs.cell(index)) }

func (rs *ResultSet) GetInt64(index int) int64 {
	value, _ := strconv.ParseInt(string(rs.cell(index)), 10, 64)
	return value
}

func (rs *ResultSet) GetUint64(index int) uint64 {
	value, _ := strconv.ParseUint(string(rs.cell(index)), 10, 64)
	return value
}

func (rs *ResultSet) GetFloat64(index int) float64 {
	value, _ := strconv.ParseFloat(string(rs.cell(index)), 64)
	return value
}

func (rs *ResultSet) GetBool(index int) bool { return rs.GetInt64(index) != 0 }
