package exif

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/geotag/internal/gps"
	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// ErrNoMetadata is returned when the input carries no decodable EXIF block.
var ErrNoMetadata = errors.New("no EXIF metadata found")

const (
	gpsGroup   = "GPS"
	exifGroup  = "EXIF"
	secondsIdx = 2
)

// dmsFields are rendered with decimal degrees and minutes so the converter can parse them
// as plain numbers; the seconds component keeps its fraction form.
var dmsFields = map[goexif.FieldName]bool{
	goexif.GPSLatitude:      true,
	goexif.GPSLongitude:     true,
	goexif.GPSDestLatitude:  true,
	goexif.GPSDestLongitude: true,
}

// Reader turns image EXIF metadata into a gps.Tags dictionary.
type Reader struct {
	log *slog.Logger // log receives warnings about partially decoded metadata
}

// NewReader creates a new EXIF tag reader.
func NewReader(log *slog.Logger) *Reader {
	return &Reader{log: log}
}

// ReadFile opens the image at path and returns its tag dictionary.
func (r *Reader) ReadFile(path string) (gps.Tags, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	tags, err := r.Read(file)
	if err != nil {
		return tags, fmt.Errorf("failed to read EXIF from %s: %w", path, err)
	}

	return tags, nil
}

// Read decodes EXIF from a JPEG, TIFF or raw EXIF stream. GPS fields are keyed
// "GPS <name>", everything else "EXIF <name>". A stream without EXIF yields an empty
// dictionary and ErrNoMetadata.
func (r *Reader) Read(src io.Reader) (gps.Tags, error) {
	meta, err := goexif.Decode(src)
	if err != nil {
		if meta == nil || goexif.IsCriticalError(err) {
			return gps.Tags{}, fmt.Errorf("%w: %w", ErrNoMetadata, err)
		}
		r.log.Warn("EXIF metadata decoded partially", "error", strings.TrimSpace(err.Error()))
	}

	collector := tagCollector{tags: gps.Tags{}}
	if err = meta.Walk(&collector); err != nil {
		return collector.tags, fmt.Errorf("failed to walk EXIF fields: %w", err)
	}

	return collector.tags, nil
}

type tagCollector struct {
	tags gps.Tags
}

func (c *tagCollector) Walk(name goexif.FieldName, tag *tiff.Tag) error {
	c.tags[tagKey(name)] = renderTag(name, tag)
	return nil
}

func tagKey(name goexif.FieldName) string {
	field := string(name)
	if strings.HasPrefix(field, gpsGroup) && name != goexif.GPSInfoIFDPointer {
		return gpsGroup + " " + field
	}

	return exifGroup + " " + field
}

func renderTag(name goexif.FieldName, tag *tiff.Tag) string {
	count := int(tag.Count)

	switch tag.Format() {
	case tiff.RatVal:
		return renderList(count, func(i int) string {
			num, den, _ := tag.Rat2(i)
			return formatRational(num, den, dmsFields[name] && i < secondsIdx)
		})
	case tiff.IntVal:
		return renderList(count, func(i int) string {
			v, _ := tag.Int64(i)
			return strconv.FormatInt(v, 10)
		})
	case tiff.FloatVal:
		return renderList(count, func(i int) string {
			v, _ := tag.Float(i)
			return strconv.FormatFloat(v, 'f', -1, 64)
		})
	case tiff.StringVal:
		value, _ := tag.StringVal()
		return strings.TrimSpace(strings.Trim(value, "\x00"))
	default:
		return tag.String()
	}
}

// renderList formats count values the way exif dumps usually do: a single value bare,
// several values as "[a, b, c]".
func renderList(count int, value func(i int) string) string {
	if count == 1 {
		return value(0)
	}

	items := make([]string, count)
	for i := range items {
		items[i] = value(i)
	}

	return "[" + strings.Join(items, ", ") + "]"
}

// formatRational renders num/den. Whole numbers print as integers; with asDecimal set,
// other values print as a decimal as long as the denominator is non-zero.
func formatRational(num, den int64, asDecimal bool) string {
	switch {
	case den == 1:
		return strconv.FormatInt(num, 10)
	case asDecimal && den != 0:
		return strconv.FormatFloat(float64(num)/float64(den), 'f', -1, 64)
	default:
		return strconv.FormatInt(num, 10) + "/" + strconv.FormatInt(den, 10)
	}
}
