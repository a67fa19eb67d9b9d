package exif_test

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/geotag/internal/exif"
	"github.com/UnknownOlympus/geotag/internal/gps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rational [2]uint32

// buildTIFF assembles a little-endian TIFF whose only content is a GPS IFD holding the
// latitude/longitude tags and their references.
func buildTIFF(t *testing.T, latRef string, lat [3]rational, lonRef string, lon [3]rational) []byte {
	t.Helper()

	const (
		ifd0Offset = 8
		gpsOffset  = 26
		latOffset  = 80
		lonOffset  = 104
		typeASCII  = 2
		typeLong   = 4
		typeRat    = 5
	)

	var buf bytes.Buffer
	write := func(v any) {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}
	ascii := func(s string) [4]byte {
		var b [4]byte
		copy(b[:], s)
		return b
	}

	buf.WriteString("II")
	write(uint16(42))
	write(uint32(ifd0Offset))

	// IFD0: pointer to the GPS sub-IFD.
	write(uint16(1))
	write(uint16(0x8825))
	write(uint16(typeLong))
	write(uint32(1))
	write(uint32(gpsOffset))
	write(uint32(0))

	// GPS IFD.
	write(uint16(4))
	write(uint16(1))
	write(uint16(typeASCII))
	write(uint32(2))
	write(ascii(latRef))
	write(uint16(2))
	write(uint16(typeRat))
	write(uint32(3))
	write(uint32(latOffset))
	write(uint16(3))
	write(uint16(typeASCII))
	write(uint32(2))
	write(ascii(lonRef))
	write(uint16(4))
	write(uint16(typeRat))
	write(uint32(3))
	write(uint32(lonOffset))
	write(uint32(0))

	require.Equal(t, latOffset, buf.Len())
	for _, r := range lat {
		write(r)
	}
	require.Equal(t, lonOffset, buf.Len())
	for _, r := range lon {
		write(r)
	}

	return buf.Bytes()
}

// wrapJPEG embeds a TIFF block in a minimal JPEG APP1 segment.
func wrapJPEG(tiffData []byte) []byte {
	payload := append([]byte("Exif\x00\x00"), tiffData...)
	segLen := len(payload) + 2

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1, byte(segLen >> 8), byte(segLen)})
	buf.Write(payload)
	buf.Write([]byte{0xFF, 0xD9})

	return buf.Bytes()
}

var (
	pittsburghLat = [3]rational{{40, 1}, {26, 1}, {463, 10}}
	pittsburghLon = [3]rational{{79, 1}, {58, 1}, {56, 1}}
)

func TestReader_Read(t *testing.T) {
	t.Parallel()
	reader := exif.NewReader(slog.Default())

	t.Run("raw tiff with gps", func(t *testing.T) {
		t.Parallel()
		data := buildTIFF(t, "N", pittsburghLat, "W", pittsburghLon)

		tags, err := reader.Read(bytes.NewReader(data))

		require.NoError(t, err)
		assert.Equal(t, "[40, 26, 463/10]", tags[gps.TagLatitude])
		assert.Equal(t, "N", tags[gps.TagLatitudeRef])
		assert.Equal(t, "[79, 58, 56]", tags[gps.TagLongitude])
		assert.Equal(t, "W", tags[gps.TagLongitudeRef])
		assert.Contains(t, tags, "EXIF GPSInfoIFDPointer")
	})

	t.Run("jpeg wrapped", func(t *testing.T) {
		t.Parallel()
		data := wrapJPEG(buildTIFF(t, "S", pittsburghLat, "E", pittsburghLon))

		tags, err := reader.Read(bytes.NewReader(data))

		require.NoError(t, err)
		assert.Equal(t, "S", tags[gps.TagLatitudeRef])
		assert.Equal(t, "[40, 26, 463/10]", tags[gps.TagLatitude])
	})

	t.Run("fractional minutes render as decimals", func(t *testing.T) {
		t.Parallel()
		lat := [3]rational{{40, 1}, {2645, 100}, {0, 1}}
		data := buildTIFF(t, "N", lat, "E", pittsburghLon)

		tags, err := reader.Read(bytes.NewReader(data))

		require.NoError(t, err)
		assert.Equal(t, "[40, 26.45, 0]", tags[gps.TagLatitude])
	})

	t.Run("zero denominator stays a fraction", func(t *testing.T) {
		t.Parallel()
		lat := [3]rational{{40, 1}, {26, 1}, {0, 0}}
		data := buildTIFF(t, "N", lat, "E", pittsburghLon)

		tags, err := reader.Read(bytes.NewReader(data))

		require.NoError(t, err)
		assert.Equal(t, "[40, 26, 0/0]", tags[gps.TagLatitude])
	})

	t.Run("no exif", func(t *testing.T) {
		t.Parallel()

		tags, err := reader.Read(strings.NewReader("definitely not an image"))

		require.ErrorIs(t, err, exif.ErrNoMetadata)
		assert.Empty(t, tags)
	})
}

func TestReader_ReadFile(t *testing.T) {
	reader := exif.NewReader(slog.Default())
	dir := filet.TmpDir(t, "")
	defer filet.CleanUp(t)

	t.Run("reads image from disk", func(t *testing.T) {
		path := filepath.Join(dir, "photo.jpg")
		filet.File(t, path, string(wrapJPEG(buildTIFF(t, "N", pittsburghLat, "W", pittsburghLon))))

		tags, err := reader.ReadFile(path)

		require.NoError(t, err)
		assert.Equal(t, "[79, 58, 56]", tags[gps.TagLongitude])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := reader.ReadFile(filepath.Join(dir, "missing.jpg"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open image")
	})

	t.Run("file without metadata", func(t *testing.T) {
		path := filepath.Join(dir, "plain.jpg")
		filet.File(t, path, "plain text pretending to be a photo")

		_, err := reader.ReadFile(path)

		require.ErrorIs(t, err, exif.ErrNoMetadata)
		assert.Contains(t, err.Error(), path)
	})
}

func TestReader_EndToEnd(t *testing.T) {
	t.Parallel()
	reader := exif.NewReader(slog.Default())
	conv := gps.NewConverter(slog.Default())

	tags, err := reader.Read(bytes.NewReader(buildTIFF(t, "N", pittsburghLat, "W", pittsburghLon)))
	require.NoError(t, err)

	reading := conv.Locate(tags)

	require.True(t, reading.Complete())
	assert.InDelta(t, 40+26.0/60+46.3/3600, *reading.Latitude, 1e-9)
	assert.InDelta(t, -(79 + 58.0/60 + 56.0/3600), *reading.Longitude, 1e-9)
}
