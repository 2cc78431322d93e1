package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsphweid/markovmidi/midi"
	"github.com/jsphweid/markovmidi/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	Router().ServeHTTP(w, req)
	return w
}

func errorDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	var res model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Error
}

func TestHandleGenerate(t *testing.T) {
	w := post(t, "/generate?tracks=2&notes=10&seed=3", fixture(t, melody))

	assert := assert.New(t)
	assert.Equal(http.StatusOK, w.Code)
	assert.Equal("audio/midi", w.Header().Get("Content-Type"))

	tracks, err := midi.Read(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Len(tracks[0], 10)
	assert.Len(tracks[1], 10)
}

func TestHandleGenerateIsReproducible(t *testing.T) {
	in := fixture(t, melody)
	a := post(t, "/generate?notes=30&seed=11", in)
	b := post(t, "/generate?notes=30&seed=11", in)
	require.Equal(t, http.StatusOK, a.Code)

	ta, err := midi.Read(bytes.NewReader(a.Body.Bytes()))
	require.NoError(t, err)
	tb, err := midi.Read(bytes.NewReader(b.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, ta, tb)
}

func TestHandleGenerateBadRequests(t *testing.T) {
	cases := []struct {
		name   string
		target string
		body   []byte
		detail string
	}{
		{"zero tracks", "/generate?tracks=0", fixture(t, melody), "invalid argument"},
		{"bad notes", "/generate?notes=many", fixture(t, melody), "notes must be an integer"},
		{"zero notes", "/generate?notes=0", fixture(t, melody), "invalid argument"},
		{"bad seed", "/generate?seed=-1", fixture(t, melody), "seed"},
		{"not midi", "/generate", []byte("hello"), "midi"},
		{"notes over limit", "/generate?notes=4611686018427387904", fixture(t, melody), "invalid argument"},
		{"too many notes in total", "/generate?tracks=1000000000&notes=100", fixture(t, melody), "invalid argument"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := post(t, tc.target, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, errorDetail(t, w), tc.detail)
		})
	}
}

func TestHandleGenerateStrictDeadEnd(t *testing.T) {
	in := fixture(t, model.Notes{{Pitch: 60, Duration: 10}, {Pitch: 62, Duration: 10}})

	w := post(t, "/generate?notes=5&strict=true", in)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.True(t, strings.HasPrefix(errorDetail(t, w), "track 0, note 2: undefined state"))

	w = post(t, "/generate?notes=5", in)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleGenerateKeepsInputResolution(t *testing.T) {
	w := post(t, "/generate?notes=10", fixtureAt(t, 96, melody))
	require.Equal(t, http.StatusOK, w.Code)

	s, err := midi.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, uint16(96), s.Resolution)
}

func TestHandleGenerateWrongMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/generate", nil)
	w := httptest.NewRecorder()
	Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleInspect(t *testing.T) {
	w := post(t, "/inspect", fixture(t, melody))
	require.Equal(t, http.StatusOK, w.Code)

	var res model.InspectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	assert := assert.New(t)
	assert.Equal(1, res.Tracks)
	assert.Equal(3, res.States)
	assert.Equal(4, res.TotalFrequency)
	assert.Equal([]model.Transition{{Pitch: 60, Duration: 100, Count: 1}}, res.Starts)
	assert.Equal(map[uint8]int{60: 2, 62: 1, 64: 1}, res.Pitches)
}
