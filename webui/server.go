// Copyright 2025 The GeoConverter Authors
// SPDX-License-Identifier: Apache-2.0

// Package webui serves the local single-user web front end: upload a
// CSV of coordinates, watch the batch progress, download the enriched
// result.
package webui

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Connerpang/geo-converter/batch"
	"github.com/Connerpang/geo-converter/geocode"
	"github.com/Connerpang/geo-converter/tabular"
)

// Options configures the Server.
type Options struct {
	// Listen is the address the HTTP server binds to
	Listen string

	// Geocode holds the upstream client settings
	Geocode geocode.Options

	// Batch holds the defaults offered in the upload form
	Batch batch.Options
}

// Server hosts the web UI. It runs at most one geocoding job at a time
// and keeps the last finished result in memory for download.
type Server struct {
	geocoder geocode.Geocoder
	options  *Options

	mu  sync.Mutex
	job *job
}

// NewServer creates a server that geocodes through the given geocoder.
func NewServer(geocoder geocode.Geocoder, options *Options) *Server {
	if options == nil {
		options = &Options{}
	}

	return &Server{
		geocoder: geocoder,
		options:  options,
	}
}

// Run starts the HTTP server and blocks until it exits.
func (s *Server) Run() error {
	r := gin.Default()
	r.SetHTMLTemplate(template.Must(template.New("").ParseGlob("templates/*.html")))

	r.GET("/", s.indexView)
	r.POST("/api/jobs", s.startJob)
	r.GET("/api/jobs/current", s.getJob)
	r.POST("/api/jobs/current/cancel", s.cancelJob)
	r.GET("/api/jobs/current/download", s.downloadJob)

	return r.Run(s.options.Listen)
}

func (s *Server) indexView(c *gin.Context) {
	opts := s.options.Batch

	latColumn := opts.LatColumn
	if latColumn == "" {
		latColumn = batch.DefaultLatColumn
	}

	lonColumn := opts.LonColumn
	if lonColumn == "" {
		lonColumn = batch.DefaultLonColumn
	}

	delay := opts.Delay
	if delay == 0 {
		delay = batch.DefaultDelay
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"LatColumn": latColumn,
		"LonColumn": lonColumn,
		"Delay":     delay.String(),
	})
}

// startJob accepts a multipart CSV upload plus column/delay overrides
// and kicks off the batch in the background.
func (s *Server) startJob(c *gin.Context) {
	upload, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing csv file upload"})

		return
	}

	f, err := upload.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("opening upload: %v", err)})

		return
	}
	defer f.Close()

	table, err := tabular.Read(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("parsing csv: %v", err)})

		return
	}

	opts := s.options.Batch

	if v := c.PostForm("lat_column"); v != "" {
		opts.LatColumn = v
	}

	if v := c.PostForm("lon_column"); v != "" {
		opts.LonColumn = v
	}

	if v := c.PostForm("delay"); v != "" {
		delay, err := time.ParseDuration(v)
		if err != nil || delay < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid delay %q", v)})

			return
		}

		opts.Delay = delay
	}

	if opts.LatColumn == "" {
		opts.LatColumn = batch.DefaultLatColumn
	}

	if opts.LonColumn == "" {
		opts.LonColumn = batch.DefaultLonColumn
	}

	// Reject unusable input before committing the single job slot.
	for _, column := range []string{opts.LatColumn, opts.LonColumn} {
		if _, ok := table.Column(column); !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("column %q not found in csv (available: %s)",
					column, strings.Join(table.Header(), ", ")),
			})

			return
		}
	}

	s.mu.Lock()

	if s.job != nil && s.job.running() {
		s.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "a geocoding job is already running"})

		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	j := &job{
		state:   stateRunning,
		total:   table.Len(),
		started: time.Now(),
		cancel:  cancel,
	}
	s.job = j
	s.mu.Unlock()

	go s.runJob(ctx, j, table, &opts)

	c.JSON(http.StatusAccepted, gin.H{"total": table.Len()})
}

func (s *Server) runJob(ctx context.Context, j *job, table *tabular.Table, opts *batch.Options) {
	defer j.cancel()

	runner := batch.NewRunner(s.geocoder, opts)

	result, err := runner.Run(ctx, table, func(processed, _ int) {
		j.mu.Lock()
		j.processed = processed
		j.mu.Unlock()
	})

	j.mu.Lock()
	defer j.mu.Unlock()

	j.finished = time.Now()
	j.result = result
	j.processed = runner.Metrics.Processed
	j.successful = runner.Metrics.Successful
	j.failed = runner.Metrics.Failed

	switch {
	case err == nil:
		j.state = stateCompleted

		log.Printf("Geocoding job completed - %d of %d rows successful in %s",
			j.successful, j.total, j.finished.Sub(j.started).Round(time.Second))
	case errors.Is(err, context.Canceled):
		j.state = stateCancelled

		log.Printf("Geocoding job cancelled after %d of %d rows", j.processed, j.total)
	default:
		j.state = stateFailed
		j.err = err

		log.Printf("Geocoding job failed - %s", err)
	}
}

func (s *Server) currentJob() *job {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.job
}

func (s *Server) getJob(c *gin.Context) {
	j := s.currentJob()
	if j == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no geocoding job"})

		return
	}

	c.JSON(http.StatusOK, j.snapshot())
}

// cancelJob stops the running batch between rows. Rows already
// processed stay available for download.
func (s *Server) cancelJob(c *gin.Context) {
	j := s.currentJob()
	if j == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no geocoding job"})

		return
	}

	if !j.running() {
		c.JSON(http.StatusConflict, gin.H{"error": "job is not running"})

		return
	}

	j.cancel()
	c.JSON(http.StatusAccepted, gin.H{"status": "cancelling"})
}

func (s *Server) downloadJob(c *gin.Context) {
	j := s.currentJob()
	if j == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no geocoding job"})

		return
	}

	if j.running() {
		c.JSON(http.StatusConflict, gin.H{"error": "job is still running"})

		return
	}

	j.mu.Lock()
	result := j.result
	finished := j.finished
	j.mu.Unlock()

	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no results to download"})

		return
	}

	filename := fmt.Sprintf("geocoded_results_%s.csv", finished.Format("20060102_150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if err := tabular.Write(c.Writer, result); err != nil {
		log.Printf("Writing download - %s", err)
	}
}
