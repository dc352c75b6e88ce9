package meals

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryCSV(t *testing.T) {
	residents := []ResidentRow{
		{ID: 1, Room: "A1", Name: "Jane Doe", Admission: "240001"},
		{ID: 2, Room: "A2", Name: "John Roe", Admission: "240002"},
	}
	matrix := OptOutMatrix{
		1: {4: true, 5: true, 6: false},
	}

	out, err := SummaryCSV(residents, matrix, 30)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Room,Name,Admission No,Days", lines[0])
	assert.Equal(t, "A1,Jane Doe,240001,28", lines[1])
	assert.Equal(t, "A2,John Roe,240002,30", lines[2])
}

func TestDetailedCSV(t *testing.T) {
	residents := []ResidentRow{{ID: 1, Room: "B4", Name: "Jane Doe", Admission: "240001"}}
	matrix := OptOutMatrix{1: {2: true, 3: false}}

	out, err := DetailedCSV(residents, matrix, 4)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Room,Name,Admission No,Days,1,2,3,4", lines[0])
	assert.Equal(t, "B4,Jane Doe,240001,3,1,0,1,1", lines[1])
}

func TestCSV_QuotesNamesWithCommas(t *testing.T) {
	residents := []ResidentRow{{ID: 1, Room: "C1", Name: "Doe, Jane", Admission: "240003"}}

	out, err := SummaryCSV(residents, nil, 31)
	require.NoError(t, err)
	assert.Contains(t, out, `C1,"Doe, Jane",240003,31`)
}

func TestCSV_KeepsInputOrder(t *testing.T) {
	residents := []ResidentRow{
		{ID: 2, Room: "Z9", Name: "Zed", Admission: "240009"},
		{ID: 1, Room: "A1", Name: "Amy", Admission: "240001"},
	}

	out, err := SummaryCSV(residents, OptOutMatrix{}, 28)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Zed"), strings.Index(out, "Amy"))
}

func TestExportFileName(t *testing.T) {
	info, err := ComputeMonthInfo(2024, 3)
	require.NoError(t, err)
	assert.Equal(t, "bh1-2024-march.csv", ExportFileName("bh1", info))
}
