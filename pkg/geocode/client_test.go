package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwantia/gostash/internal/config"
	"github.com/mwantia/gostash/pkg/geo"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) config.GeocodeConfig {
	return config.GeocodeConfig{
		Endpoint:  endpoint,
		UserAgent: "gostash-test/1.0",
		Timeout:   "5s",
	}
}

func TestReverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "gostash-test/1.0", r.Header.Get("User-Agent"), "lookups without a client identity are rejected upstream")
		require.Equal(t, "json", r.URL.Query().Get("format"))
		require.Equal(t, "52.52", r.URL.Query().Get("lat"))
		require.Equal(t, "13.405", r.URL.Query().Get("lon"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"address":{"city":"Berlin","country":"Deutschland"}}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	address, err := client.Reverse(context.Background(), geo.Location{Latitude: 52.52, Longitude: 13.405})
	require.NoError(t, err)
	require.Equal(t, "Berlin", address.City)
	require.Equal(t, "Deutschland", address.Country)
	require.Empty(t, address.Town)
	require.Empty(t, address.Village)
}

func TestReverseServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Reverse(context.Background(), geo.Location{})
	require.Error(t, err)
}

func TestReverseMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Reverse(context.Background(), geo.Location{})
	require.Error(t, err)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(config.GeocodeConfig{UserAgent: "x"})
	require.Error(t, err, "an endpoint is required")

	_, err = NewClient(config.GeocodeConfig{Endpoint: "http://localhost"})
	require.Error(t, err, "a user agent is required")
}

func TestPlaceNames(t *testing.T) {
	address := &Address{City: "Berlin", Country: "Deutschland"}
	require.Equal(t, []string{"Berlin", "Deutschland"}, address.PlaceNames())

	empty := &Address{}
	require.Empty(t, empty.PlaceNames())

	full := &Address{City: "a", Town: "b", Village: "c", Country: "d"}
	require.Equal(t, []string{"a", "b", "c", "d"}, full.PlaceNames())
}
