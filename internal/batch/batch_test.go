package batch_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/UnknownOlympus/compass/internal/batch"
	"github.com/UnknownOlympus/compass/internal/geocoding"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/resolver"
	"github.com/UnknownOlympus/compass/test/mocks"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProcess(t *testing.T) {
	mockResolver := mocks.NewResolver(t)
	mockResolver.On("Resolve", mock.Anything, "Toronto, Ontario").Return(&models.GeoResult{
		Latitude:       43.6534817,
		Longitude:      -79.3839347,
		NormalizedName: "Toronto, Ontario, Canada",
		ProviderID:     "osm",
	}, nil).Once()
	mockResolver.On("Resolve", mock.Anything, "Atlantis").Return(nil, &resolver.ExhaustedError{
		Query:    "Atlantis",
		Attempts: []resolver.AttemptError{{ProviderID: "osm", Err: geocoding.ErrProviderNoResults}},
	}).Once()

	input := "name,Location\n" +
		"alice,\"Toronto, Ontario\"\n" +
		"bob,Atlantis\n" +
		"carol,   \n"

	var out bytes.Buffer
	processor := batch.NewProcessor(newLogger(), mockResolver, batch.Options{})

	summary, err := processor.Process(t.Context(), strings.NewReader(input), &out)

	require.NoError(t, err)
	assert.Equal(t, batch.Summary{Total: 3, Resolved: 1, Failed: 2}, summary)

	want := "name,Location,latitude,longitude,normalized_name,provider_id,geocoding_error\n" +
		"alice,\"Toronto, Ontario\",43.6534817,-79.3839347,\"Toronto, Ontario, Canada\",osm,\n" +
		"bob,Atlantis,,,,,\"all geocoding providers exhausted for \"\"Atlantis\"\": osm: provider returned no results\"\n" +
		"carol,\"   \",,,,,empty location query: blank cell\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("Process() output mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_CustomColumnAndShortRows(t *testing.T) {
	mockResolver := mocks.NewResolver(t)
	mockResolver.On("Resolve", mock.Anything, "Kyiv").
		Return(&models.GeoResult{Latitude: 50.45, Longitude: 30.52, NormalizedName: "Kyiv", ProviderID: "osm"}, nil).Once()

	var out bytes.Buffer
	var progress bytes.Buffer
	processor := batch.NewProcessor(newLogger(), mockResolver, batch.Options{Column: "CITY", Progress: &progress})

	summary, err := processor.Process(t.Context(), strings.NewReader("id,city\n1\n2,Kyiv\n"), &out)

	require.NoError(t, err)
	assert.Equal(t, batch.Summary{Total: 2, Resolved: 1, Failed: 1}, summary)
	assert.Contains(t, out.String(), "1,,,,,,empty location query: blank cell\n")
	assert.Contains(t, out.String(), "2,Kyiv,50.45,30.52,Kyiv,osm,\n")
}

func TestProcess_InputErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		column  string
		wantErr error
	}{
		{name: "empty input", input: "", wantErr: batch.ErrNoHeader},
		{name: "missing column", input: "name,address\nalice,Kyiv\n", wantErr: batch.ErrColumnNotFound},
		{name: "missing custom column", input: "location\nKyiv\n", column: "city", wantErr: batch.ErrColumnNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockResolver := mocks.NewResolver(t)
			processor := batch.NewProcessor(newLogger(), mockResolver, batch.Options{Column: tt.column})

			_, err := processor.Process(t.Context(), strings.NewReader(tt.input), io.Discard)

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProcess_MalformedCSV(t *testing.T) {
	processor := batch.NewProcessor(newLogger(), mocks.NewResolver(t), batch.Options{})

	_, err := processor.Process(t.Context(), strings.NewReader("location\n\"unterminated\n"), io.Discard)

	require.ErrorContains(t, err, "failed to read CSV input")
}

func TestProcess_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	mockResolver := mocks.NewResolver(t)
	mockResolver.On("Resolve", mock.Anything, "Kyiv").
		Run(func(_ mock.Arguments) { cancel() }).
		Return(&models.GeoResult{Latitude: 50.45, Longitude: 30.52, ProviderID: "osm"}, nil).Once()

	var out bytes.Buffer
	processor := batch.NewProcessor(newLogger(), mockResolver, batch.Options{})

	summary, err := processor.Process(ctx, strings.NewReader("location\nKyiv\nLviv\n"), &out)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, batch.Summary{Total: 1, Resolved: 1}, summary)
	assert.Contains(t, out.String(), "Kyiv,50.45,30.52,,osm,\n")
}
