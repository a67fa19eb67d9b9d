package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/UnknownOlympus/geotag/internal/models"
	"github.com/UnknownOlympus/geotag/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func ptr(f float64) *float64 { return &f }

var (
	located = models.Photo{
		Path:      "pittsburgh.jpg",
		Latitude:  ptr(40.5),
		Longitude: ptr(-79.75),
		Status:    models.StatusLocated,
	}
	missing = models.Photo{Path: "plain.jpg", Status: models.StatusNoGPS}
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"text", "json", "yaml", "utm", "mgrs"} {
		format, err := report.ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, report.Format(name), format)
	}

	_, err := report.ParseFormat("xml")
	require.ErrorIs(t, err, report.ErrUnknownFormat)
	assert.Contains(t, err.Error(), "xml")
}

func TestRender_Text(t *testing.T) {
	t.Parallel()

	t.Run("single located photo", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer

		require.NoError(t, report.Render(&buf, report.FormatText, []models.Photo{located}))

		assert.Equal(t, "Latitude: 40.5, Longitude: -79.75\n", buf.String())
	})

	t.Run("single photo without gps", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer

		require.NoError(t, report.Render(&buf, report.FormatText, []models.Photo{missing}))

		assert.Equal(t, "Could not extract GPS coordinates.\n", buf.String())
	})

	t.Run("several photos are prefixed", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer

		require.NoError(t, report.Render(&buf, report.FormatText, []models.Photo{located, missing}))

		assert.Equal(t,
			"pittsburgh.jpg: Latitude: 40.5, Longitude: -79.75\nplain.jpg: Could not extract GPS coordinates.\n",
			buf.String())
	})
}

func TestRender_Structured(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer

		require.NoError(t, report.Render(&buf, report.FormatJSON, []models.Photo{located, missing}))

		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded, 2)
		assert.InDelta(t, 40.5, decoded[0]["latitude"], 0)
		assert.Nil(t, decoded[1]["latitude"])
		assert.Equal(t, models.StatusNoGPS, decoded[1]["status"])
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer

		require.NoError(t, report.Render(&buf, report.FormatYAML, []models.Photo{located}))

		var decoded []models.Photo
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded, 1)
		assert.Equal(t, "pittsburgh.jpg", decoded[0].Path)
		require.NotNil(t, decoded[0].Longitude)
		assert.InDelta(t, -79.75, *decoded[0].Longitude, 0)
	})
}

func TestRender_Grid(t *testing.T) {
	t.Parallel()

	t.Run("utm", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer

		require.NoError(t, report.Render(&buf, report.FormatUTM, []models.Photo{located}))

		assert.Contains(t, buf.String(), "UTM zone = 17, hemisphere = N")
	})

	t.Run("utm southern hemisphere", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		sydney := models.Photo{Path: "sydney.jpg", Latitude: ptr(-33.8568), Longitude: ptr(151.2153)}

		require.NoError(t, report.Render(&buf, report.FormatUTM, []models.Photo{sydney}))

		assert.Contains(t, buf.String(), "UTM zone = 56, hemisphere = S")
	})

	t.Run("mgrs", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer

		require.NoError(t, report.Render(&buf, report.FormatMGRS, []models.Photo{located}))

		assert.Contains(t, buf.String(), "MGRS = 17")
	})

	t.Run("grid formats fall back for missing coordinates", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer

		require.NoError(t, report.Render(&buf, report.FormatUTM, []models.Photo{missing}))

		assert.Equal(t, "Could not extract GPS coordinates.\n", buf.String())
	})
}

func TestRender_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := report.Render(&bytes.Buffer{}, report.Format("xml"), []models.Photo{located})

	require.ErrorIs(t, err, report.ErrUnknownFormat)
}
