package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/geotag/internal/exif"
	"github.com/UnknownOlympus/geotag/internal/gps"
	"github.com/UnknownOlympus/geotag/internal/metrics"
	"github.com/UnknownOlympus/geotag/internal/models"
	"github.com/UnknownOlympus/geotag/internal/repository"
)

// TagReader reads the EXIF tag dictionary of an image file.
type TagReader interface {
	ReadFile(path string) (gps.Tags, error)
}

// Locator converts an EXIF tag dictionary into coordinates.
type Locator interface {
	Locate(tags gps.Tags) gps.Reading
}

// GeotagService extracts GPS positions from photos, optionally persisting them,
// with metrics tracking and worker management.
type GeotagService struct {
	log        *slog.Logger         // Logger for logging service activities
	reader     TagReader            // Reader of image metadata
	locator    Locator              // Converter from tags to coordinates
	repo       repository.Interface // Optional sink for located photos, nil to disable
	metrics    *metrics.Metrics     // Metrics for tracking service performance
	numWorkers int                  // Number of concurrent workers for processing
}

type job struct {
	idx  int
	path string
}

// NewGeotagService creates a new instance of GeotagService. repo may be nil, in which
// case results are only returned to the caller.
func NewGeotagService(
	log *slog.Logger,
	reader TagReader,
	locator Locator,
	repo repository.Interface,
	metrics *metrics.Metrics,
	numWorkers int,
) *GeotagService {
	if numWorkers < 1 {
		numWorkers = 1
	}

	return &GeotagService{
		log:        log,
		reader:     reader,
		locator:    locator,
		repo:       repo,
		metrics:    metrics,
		numWorkers: numWorkers,
	}
}

// Process extracts the location of every photo in paths using a pool of workers.
// Results come back in the order of paths. Photos left unprocessed because ctx was
// cancelled are reported with the error status.
func (gs *GeotagService) Process(ctx context.Context, paths []string) []models.Photo {
	results := make([]models.Photo, len(paths))
	if len(paths) == 0 {
		gs.log.InfoContext(ctx, "No photos to process.")
		return results
	}

	gs.log.InfoContext(
		ctx,
		"Found photos to process. Starting worker pool.",
		"jobs",
		len(paths),
		"num_workers",
		gs.numWorkers,
	)

	jobs := make(chan job, len(paths))
	var wgr sync.WaitGroup

	for i := 1; i <= gs.numWorkers; i++ {
		wgr.Add(1)
		go gs.worker(ctx, i, &wgr, jobs, results)
	}

	for idx, path := range paths {
		jobs <- job{idx: idx, path: path}
	}
	close(jobs)

	wgr.Wait()
	gs.log.InfoContext(ctx, "Processing batch finished")

	return results
}

// worker processes photos from the jobs channel and stores each outcome at its job index.
func (gs *GeotagService) worker(
	ctx context.Context,
	idx int,
	wg *sync.WaitGroup,
	jobs <-chan job,
	results []models.Photo,
) {
	defer wg.Done()
	for jb := range jobs {
		if err := ctx.Err(); err != nil {
			results[jb.idx] = models.Photo{Path: jb.path, Status: models.StatusError, Error: err.Error()}
			continue
		}

		gs.metrics.ActiveWorkers.Inc()
		gs.log.DebugContext(ctx, "Processing photo", "worker", idx, "path", jb.path)

		results[jb.idx] = gs.Locate(ctx, jb.path)

		gs.metrics.ActiveWorkers.Dec()
	}
}

// Locate extracts the GPS position of a single photo. A photo without EXIF or GPS tags is
// reported as no_gps; an unreadable file as error.
func (gs *GeotagService) Locate(ctx context.Context, path string) models.Photo {
	photo := models.Photo{Path: path}
	startTime := time.Now()
	defer func() {
		gs.metrics.ExtractSeconds.Observe(time.Since(startTime).Seconds())
		gs.metrics.PhotosProcessed.WithLabelValues(photo.Status).Inc()
	}()

	tags, err := gs.reader.ReadFile(path)
	switch {
	case errors.Is(err, exif.ErrNoMetadata):
		gs.log.DebugContext(ctx, "Photo has no EXIF metadata", "path", path)
		photo.Status = models.StatusNoGPS
		return photo
	case err != nil:
		gs.log.ErrorContext(ctx, "Failed to read photo metadata", "path", path, "error", err)
		photo.Status = models.StatusError
		photo.Error = err.Error()
		return photo
	}

	reading := gs.locator.Locate(tags)
	for _, convErr := range reading.Errors {
		gs.metrics.ConversionFailures.WithLabelValues(gps.Kind(convErr)).Inc()
	}

	photo.Latitude = reading.Latitude
	photo.Longitude = reading.Longitude
	if !reading.Complete() {
		photo.Status = models.StatusNoGPS
		return photo
	}
	photo.Status = models.StatusLocated

	if gs.repo != nil {
		if err = gs.repo.SaveLocation(ctx, photo); err != nil {
			gs.log.ErrorContext(ctx, "Failed to save photo location", "path", path, "error", err)
		}
	}

	return photo
}
