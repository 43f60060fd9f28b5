package extractive

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newPythonServer(t *testing.T, handler http.HandlerFunc) *PythonClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewPythonClient(quietLogger(),
		WithBaseURL(server.URL),
		WithModel("squad"),
		WithMaxRetries(0),
		WithTimeout(2*time.Second),
	)
	require.NoError(t, err)
	return client
}

func TestPythonClientAnswer(t *testing.T) {
	client := newPythonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/python/qa", r.URL.Path)
		assert.Equal(t, "squad", r.URL.Query().Get("model"))
		_, _ = w.Write([]byte(`{"success":true,"answer":"March 3","score":0.92,"start":24,"end":31}`))
	})

	result, err := client.Answer(context.Background(), "When is the deadline?", "The filing deadline is March 3.")
	require.NoError(t, err)
	assert.Equal(t, "March 3", result.Text)
	assert.InDelta(t, 0.92, result.Score, 1e-9)
	assert.Equal(t, 24, result.Start)
	assert.Equal(t, 31, result.End)
	assert.Equal(t, "squad", client.Name())
}

func TestPythonClientClampsScore(t *testing.T) {
	client := newPythonServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"answer":"x","score":1.7}`))
	})

	result, err := client.Answer(context.Background(), "q", "ctx")
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Score)
}

func TestPythonClientValidatesInput(t *testing.T) {
	client := newPythonServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called")
	})

	_, err := client.Answer(context.Background(), " ", "ctx")
	assert.ErrorIs(t, err, ErrEmptyQuestion)

	_, err = client.Answer(context.Background(), "q", "")
	assert.ErrorIs(t, err, ErrEmptyContext)
}

func TestPythonClientModelLoading(t *testing.T) {
	client := newPythonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Answer(context.Background(), "q", "ctx")
	require.Error(t, err)
	assert.True(t, IsNotReady(err))
}

func TestPythonClientWarmup(t *testing.T) {
	client := newPythonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/python/models/load", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"task":"question-answering","model":"squad"}`))
	})

	assert.NoError(t, client.Warmup(context.Background()))
}

type staticClient struct {
	calls int32
}

func (c *staticClient) Answer(ctx context.Context, question, passage string) (*Result, error) {
	atomic.AddInt32(&c.calls, 1)
	return &Result{Text: "answer", Score: 0.5}, nil
}

func (c *staticClient) Name() string { return "static" }

func TestLazyClientSharesInitialisation(t *testing.T) {
	var inits int32
	inner := &staticClient{}
	client := NewLazyClient("squad", func(ctx context.Context) (Client, error) {
		atomic.AddInt32(&inits, 1)
		time.Sleep(20 * time.Millisecond)
		return inner, nil
	}, quietLogger())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Answer(context.Background(), "q", "ctx")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&inits))
	assert.Equal(t, int32(4), atomic.LoadInt32(&inner.calls))
	assert.True(t, client.Ready())
}

func TestLazyClientRetriesAfterFailure(t *testing.T) {
	var attempts int32
	client := NewLazyClient("squad", func(ctx context.Context) (Client, error) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return nil, errors.New("offline")
		}
		return &staticClient{}, nil
	}, quietLogger())

	assert.Error(t, client.EnsureReady(context.Background()))
	assert.NoError(t, client.EnsureReady(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestNewClientUnknownType(t *testing.T) {
	_, err := NewClient("missing")
	var qaErr QAError
	require.ErrorAs(t, err, &qaErr)
	assert.Equal(t, ErrCodeInvalidRequest, qaErr.Code)
}
