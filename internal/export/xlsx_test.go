package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"visaprep/internal/domain"
)

func TestWriteXLSX(t *testing.T) {
	buf, err := WriteXLSX(sampleResult())
	require.NoError(t, err)
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.NotContains(t, f.GetSheetList(), "Sheet1")

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 2)

	assert.Equal(t, "Field Name", rows[0][0])
	assert.Equal(t, "full_name", rows[1][0])
	assert.Equal(t, "JOHN SMITH", rows[1][2])
	assert.Equal(t, "passport_number", rows[2][0])

	// Summary block starts two rows below the field table.
	v, err := f.GetCellValue(sheetName, "A5")
	require.NoError(t, err)
	assert.Equal(t, "Document Type", v)
	v, err = f.GetCellValue(sheetName, "B5")
	require.NoError(t, err)
	assert.Equal(t, "passport", v)
	v, err = f.GetCellValue(sheetName, "B6")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestWriteXLSX_EmptyResult(t *testing.T) {
	buf, err := WriteXLSX(&domain.ExtractionResult{DocumentType: "general"})
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}
