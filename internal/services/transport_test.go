package services_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/genrex/internal/services"
	"github.com/desertthunder/genrex/internal/shared"
	tu "github.com/desertthunder/genrex/internal/testing"
)

func newMockedLastFM(t *testing.T, resp *http.Response, err error) *services.LastFMService {
	t.Helper()
	client := &http.Client{Transport: tu.NewMockRoundTripper(resp, err)}
	s, svcErr := services.NewLastFMService("test-key", time.Second, services.WithLastFMHTTPClient(client))
	if svcErr != nil {
		t.Fatalf("failed to create service: %v", svcErr)
	}
	return s
}

func TestLastFMTransport(t *testing.T) {
	t.Run("decodes a mocked response", func(t *testing.T) {
		s := newMockedLastFM(t, &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"toptags":{"tag":[{"name":"Shoegaze"}]}}`)),
			Header:     make(http.Header),
		}, nil)

		tags, err := s.ArtistTags(context.Background(), "Slowdive")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tags) != 1 || tags[0] != "shoegaze" {
			t.Errorf("expected [shoegaze], got %v", tags)
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		s := newMockedLastFM(t, nil, errors.New("connection reset"))

		_, err := s.TrackTags(context.Background(), "Radiohead", "Creep")

		var fetchErr *services.FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected FetchError, got %v", err)
		}
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("body read failure", func(t *testing.T) {
		s := newMockedLastFM(t, &http.Response{
			StatusCode: http.StatusOK,
			Body:       &tu.FCloser{},
			Header:     make(http.Header),
		}, nil)

		_, err := s.TrackTags(context.Background(), "Radiohead", "Creep")
		if !errors.Is(err, shared.ErrAPIRequest) || !strings.Contains(err.Error(), "failed to read response") {
			t.Errorf("expected read failure, got %v", err)
		}
	})
}
