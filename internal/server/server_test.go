package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	started atomic.Int32
	stopped atomic.Int32
}

func (j *countingJob) Run(ctx context.Context) {
	j.started.Add(1)
	<-ctx.Done()
	j.stopped.Add(1)
}

func TestShutdownStopsBackgroundJobs(t *testing.T) {
	job := &countingJob{}
	s := &Server{
		logger: zerolog.Nop(),
		router: gin.New(),
		jobs:   []BackgroundJob{job},
	}
	s.http = &http.Server{Handler: s.router}

	s.startJobs()
	require.Eventually(t, func() bool { return job.started.Load() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Shutdown(context.Background()))
	assert.Equal(t, int32(1), job.stopped.Load())

	// A second call is a no-op
	assert.NoError(t, s.Shutdown(context.Background()))
}
