package mariadb

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryResult(t *testing.T, rows *sqlmock.Rows) *ResultSet {
	t.Helper()
	c, mock := mockConnection(t)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)
	result := c.Query(context.Background(), "SELECT * FROM t")
	require.NotNil(t, result)
	return result
}

func TestResultSet_Columns(t *testing.T) {
	result := queryResult(t, sqlmock.NewRows([]string{"id", "name", "score"}).
		AddRow(1, "chris", 9.5))

	assert.Equal(t, 3, result.ColumnCount())
	assert.Equal(t, "name", result.ColumnName(1))
	assert.Equal(t, "", result.ColumnName(7))
	assert.Equal(t, 2, result.ColumnIndex("score"))
	assert.Equal(t, -1, result.ColumnIndex("missing"))
}

func TestResultSet_TypedGetters(t *testing.T) {
	result := queryResult(t, sqlmock.NewRows([]string{"i", "u", "f", "b", "s"}).
		AddRow(-7, "18446744073709551615", 2.25, 1, "hello"))

	require.True(t, result.Next())
	assert.EqualValues(t, -7, result.GetInt64(0))
	assert.EqualValues(t, uint64(18446744073709551615), result.GetUint64(1))
	assert.EqualValues(t, 2.25, result.GetFloat64(2))
	assert.True(t, result.GetBool(3))
	assert.Equal(t, "hello", result.GetString(4))
	assert.Equal(t, []byte("hello"), result.GetBytes(4))
}

func TestResultSet_NullCells(t *testing.T) {
	result := queryResult(t, sqlmock.NewRows([]string{"name", "age"}).
		AddRow(nil, 30))

	require.True(t, result.Next())
	assert.True(t, result.IsNull(0))
	assert.False(t, result.IsNull(1))
	assert.Equal(t, "", result.GetString(0))
	assert.EqualValues(t, 0, result.GetInt64(0))
	assert.Nil(t, result.GetBytes(0))
}

func TestResultSet_CursorExhaustion(t *testing.T) {
	result := queryResult(t, sqlmock.NewRows([]string{"n"}).
		AddRow(1).
		AddRow(2))

	// before the first Next the cursor holds no row
	assert.Equal(t, "", result.GetString(0))

	assert.EqualValues(t, 2, result.RowCount())
	require.True(t, result.Next())
	require.True(t, result.Next())
	assert.False(t, result.Next())
	assert.False(t, result.Next())
}

func TestResultSet_Empty(t *testing.T) {
	result := queryResult(t, sqlmock.NewRows([]string{"n"}))

	assert.EqualValues(t, 0, result.RowCount())
	assert.False(t, result.Next())
}
