package cep

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"01310100", "01310100", false},
		{"01310-100", "01310100", false},
		{" 01.310-100 ", "01310100", false},
		{"0131010", "", true},
		{"013101000", "", true},
		{"0131010a", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidCEP, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func newProvider(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
}

func TestLookup_Found(t *testing.T) {
	c := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/01310100/json/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","complemento":"de 612 a 1510 - lado par","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`))
	})

	addr, err := c.Lookup(context.Background(), "01310-100")
	require.NoError(t, err)
	assert.Equal(t, Address{
		CEP:          "01310100",
		Street:       "Avenida Paulista",
		Complement:   "de 612 a 1510 - lado par",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "SP",
	}, addr)
}

func TestLookup_NotFound(t *testing.T) {
	for _, body := range []string{`{"erro": true}`, `{"erro": "true"}`} {
		c := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		_, err := c.Lookup(context.Background(), "99999999")
		assert.ErrorIs(t, err, ErrNotFound, body)
	}
}

func TestLookup_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrInvalidCEP},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusInternalServerError, ErrUnavailable},
		{http.StatusTooManyRequests, ErrUnavailable},
	}
	for _, tt := range tests {
		c := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})
		_, err := c.Lookup(context.Background(), "01310100")
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
	}
}

func TestLookup_BadJSON(t *testing.T) {
	c := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	})
	_, err := c.Lookup(context.Background(), "01310100")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLookup_InvalidCodeNeverCallsProvider(t *testing.T) {
	var calls atomic.Int32
	c := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	_, err := c.Lookup(context.Background(), "123")
	assert.ErrorIs(t, err, ErrInvalidCEP)
	assert.Zero(t, calls.Load())
}

func TestLookup_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Options{BaseURL: url, Timeout: time.Second})
	_, err := c.Lookup(context.Background(), "01310100")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLookup_SharesConcurrentRequests(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		w.Write([]byte(`{"logradouro":"Rua A","bairro":"B","localidade":"C","uf":"SP"}`))
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			addr, err := c.Lookup(context.Background(), "01310100")
			assert.NoError(t, err)
			assert.Equal(t, "Rua A", addr.Street)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestLookup_CallerCancel(t *testing.T) {
	release := make(chan struct{})
	c := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	// Registered after the server so it runs before srv.Close.
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Lookup(ctx, "01310100")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
