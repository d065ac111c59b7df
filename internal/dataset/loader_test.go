package dataset

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/contract-analytics/internal/model"
)

func writeFixture(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()

	file := excelize.NewFile()
	file.SetSheetName("Sheet1", sheet)
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, file.SetCellValue(sheet, cell, value))
		}
	}

	path := filepath.Join(t.TempDir(), "contracts.xlsx")
	require.NoError(t, file.SaveAs(path))
	return path
}

var fixtureHeader = []interface{}{"合同名称", "签订时间", "履行期限(起)", "履行期限(止)", "标的金额", "承办部门", "选商方式"}

func TestLoaderReadsAndCoerces(t *testing.T) {
	path := writeFixture(t, "Items", [][]interface{}{
		fixtureHeader,
		{"alpha", "2024-03-15", "2024-04-01", "2027-04-01", "1,200.50", "Engineering", "Open tender"},
		{"beta", "not-a-date", "2023-01-01", "2024-01-01", "abc", "", "Direct award"},
	})

	loader := NewLoader(path, "Items", zerolog.Nop())
	records, err := loader.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)

	alpha := records[0]
	assert.Equal(t, "alpha", alpha.Name)
	require.NotNil(t, alpha.SigningDate)
	assert.Equal(t, "2024-03-15", alpha.SigningDate.Format("2006-01-02"))
	require.NotNil(t, alpha.Amount)
	assert.Equal(t, 1200.50, *alpha.Amount)
	assert.Equal(t, "Engineering", alpha.Department)
	assert.Equal(t, "Open tender", alpha.ProcurementMethod)

	beta := records[1]
	assert.Nil(t, beta.SigningDate, "unparseable date is coerced to null, not rejected")
	assert.Nil(t, beta.Amount, "unparseable amount is coerced to null, not rejected")
	assert.Equal(t, model.DefaultDepartment, beta.Department)
}

func TestLoaderEnglishHeaders(t *testing.T) {
	path := writeFixture(t, "Items", [][]interface{}{
		{"name", "signing_date", "performance_start", "performance_end", "contract_amount", "department", "procurement_method"},
		{"gamma", "2025-01-02", "", "", "42", "Legal", "Framework"},
	})

	loader := NewLoader(path, "Items", zerolog.Nop())
	records, err := loader.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Legal", records[0].Department)
	require.NotNil(t, records[0].Amount)
	assert.Equal(t, 42.0, *records[0].Amount)
	assert.Nil(t, records[0].PerformanceStart)
}

func TestLoaderMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "absent.xlsm"), "Items", zerolog.Nop())

	_, err := loader.Records()
	require.ErrorIs(t, err, ErrSourceMissing)
}

func TestLoaderMissingSheet(t *testing.T) {
	path := writeFixture(t, "Other", [][]interface{}{fixtureHeader})

	loader := NewLoader(path, "Items", zerolog.Nop())
	_, err := loader.Records()
	require.ErrorIs(t, err, ErrSourceMissing)
}

func TestLoaderMemoizesLoad(t *testing.T) {
	path := writeFixture(t, "Items", [][]interface{}{
		fixtureHeader,
		{"alpha", "2024-03-15", "", "", "10", "Engineering", "Open tender"},
	})

	loader := NewLoader(path, "Items", zerolog.Nop())
	first, err := loader.Records()
	require.NoError(t, err)
	second, err := loader.Records()
	require.NoError(t, err)
	assert.Same(t, &first[0], &second[0], "the dataset is loaded once and shared")
}

func TestParseDateLayouts(t *testing.T) {
	for _, raw := range []string{"2024-03-15", "2024/03/15", "2024-03-15 00:00:00", "2024年03月15日"} {
		parsed, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "2024-03-15", parsed.Format("2006-01-02"), raw)
	}

	serial, err := ParseDate("45366")
	require.NoError(t, err)
	assert.Equal(t, 2024, serial.Year())

	_, err = ParseDate("gibberish")
	require.Error(t, err)
}
