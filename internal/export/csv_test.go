package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-events/backend/internal/models"
)

func detail(userid, name string) models.SelectionDetail {
	eventDate, _ := time.Parse("2006-01-02", "2026-10-01")
	return models.SelectionDetail{
		SlotSelection: models.SlotSelection{
			ID:           uuid.New(),
			UserID:       userid,
			Name:         name,
			Department:   "Platform",
			Position:     "Engineer",
			RegisterType: models.RegisterTypeRegular,
		},
		SlotTitle: "Group A",
		StartTime: "09:00",
		EndTime:   "09:30",
		EventDate: eventDate,
	}
}

func TestRowFormatting(t *testing.T) {
	row := Row(detail("e12345", "Kim Min-ji"))
	assert.Equal(t, []string{
		"2026-10-01", "09:00 - 09:30", "Group A", "e12345", "Kim Min-ji",
		"Engineer", "Platform", "regular",
	}, row)
}

func TestRowWithoutEndTime(t *testing.T) {
	d := detail("e12345", "Kim Min-ji")
	d.EndTime = ""
	assert.Equal(t, "09:00", Row(d)[1])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []models.SelectionDetail{
		detail("e12345", "Kim Min-ji"),
		detail("e67890", "Park Ji-sung"),
	})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, "e12345", records[1][3])
	assert.Equal(t, "Park Ji-sung", records[2][4])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}
