package roster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterly/rosterly/pkg/roster"
	"github.com/rosterly/rosterly/pkg/standardize"
)

var mapping = roster.FieldMapping{
	Name:      "name",
	StartDate: "start",
	EndDate:   "end",
	RoomType:  "room",
	Price:     "price",
}

func std() *standardize.Standardizer {
	return standardize.New(standardize.Equivalences{"大床房": {"King"}}, 2024)
}

func TestBuildRecordsExplode(t *testing.T) {
	table := roster.Table{Name: "sales", Rows: []roster.Row{
		{"name": "张三、李四,王五/赵六，钱七", "start": "2024-01-01", "end": "2024-01-03", "room": "King", "price": "288"},
	}}

	records, dropped := roster.BuildRecords(table, mapping, std(), roster.Left, false)
	require.Len(t, records, 5)
	assert.Zero(t, dropped)

	for _, r := range records {
		assert.Equal(t, "张三、李四,王五/赵六，钱七", r.OriginalName)
		assert.Equal(t, "sales", r.Source)
		assert.Equal(t, roster.Left, r.Side)
		require.NotNil(t, r.StartDate)
		assert.Equal(t, "2024-01-01", *r.StartDate)
		require.NotNil(t, r.RoomType)
		assert.Equal(t, "大床房", *r.RoomType)
		require.NotNil(t, r.Price)
		assert.Equal(t, "288", r.Price.String())
	}

	names := []string{records[0].CanonicalName, records[1].CanonicalName,
		records[2].CanonicalName, records[3].CanonicalName, records[4].CanonicalName}
	assert.Equal(t, []string{"张三", "李四", "王五", "赵六", "钱七"}, names)
}

func TestBuildRecordsDelimiterOnlyNameCell(t *testing.T) {
	table := roster.Table{Name: "sales", Rows: []roster.Row{
		{"name": "、,/ ，", "start": "2024-01-01", "end": "2024-01-03"},
	}}

	records, dropped := roster.BuildRecords(table, mapping, std(), roster.Left, false)
	assert.Empty(t, records)
	assert.Zero(t, dropped)
}

func TestBuildRecordsDropsRowsWithBadDates(t *testing.T) {
	table := roster.Table{Name: "sales", Rows: []roster.Row{
		{"name": "张三", "start": "garbage", "end": "2024-01-03"},
		{"name": "李四", "start": "2024-01-01", "end": ""},
		{"name": "王五", "start": "2024-01-01", "end": "2024-01-03"},
	}}

	records, dropped := roster.BuildRecords(table, mapping, std(), roster.Left, false)
	require.Len(t, records, 1)
	assert.Equal(t, "王五", records[0].CanonicalName)
	assert.Equal(t, 2, dropped)
}

func TestBuildRecordsFoldsNames(t *testing.T) {
	table := roster.Table{Name: "sales", Rows: []roster.Row{
		{"name": "John SMITH", "start": "2024-01-01", "end": "2024-01-03"},
	}}

	folded, _ := roster.BuildRecords(table, mapping, std(), roster.Left, true)
	require.Len(t, folded, 1)
	assert.Equal(t, "johnsmith", folded[0].CanonicalName)
	assert.Equal(t, "John SMITH", folded[0].OriginalName)

	kept, _ := roster.BuildRecords(table, mapping, std(), roster.Left, false)
	require.Len(t, kept, 1)
	assert.Equal(t, "JohnSMITH", kept[0].CanonicalName)
}

func TestBuildRecordsUnmappedOptionalFieldsNil(t *testing.T) {
	bare := roster.FieldMapping{Name: "name", StartDate: "start", EndDate: "end"}
	table := roster.Table{Name: "sales", Rows: []roster.Row{
		{"name": "张三", "start": "2024-01-01", "end": "2024-01-03", "room": "King", "price": "288"},
	}}

	records, _ := roster.BuildRecords(table, bare, std(), roster.Left, false)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].RoomType)
	assert.Nil(t, records[0].Price)
	assert.Nil(t, records[0].RoomNumber)
}

func TestFieldMappingValidate(t *testing.T) {
	assert.NoError(t, mapping.Validate("sales"))

	m := mapping
	m.StartDate = ""
	err := m.Validate("sales")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date")
	assert.Contains(t, err.Error(), "sales")
}

func TestParseField(t *testing.T) {
	f, err := roster.ParseField("room_type")
	require.NoError(t, err)
	assert.Equal(t, roster.FieldRoomType, f)

	_, err = roster.ParseField("color")
	assert.Error(t, err)
}
