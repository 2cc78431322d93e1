package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/markovmidi/constants"
	"github.com/jsphweid/markovmidi/generator"
	"github.com/jsphweid/markovmidi/markov"
	"github.com/jsphweid/markovmidi/midi"
	"github.com/jsphweid/markovmidi/model"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", constants.GetServeAddr(), "address to listen on")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves generation over HTTP",
	Long: `Serves two endpoints that take a MIDI file as the request body:
POST /generate?tracks=1&notes=100&seed=7&strict=true returns a generated MIDI file,
POST /inspect returns statistics about the learned chain as JSON.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return serve(serveAddr)
	},
}

func Router() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/generate", HandleGenerate).Methods("POST")
	router.HandleFunc("/inspect", HandleInspect).Methods("POST")
	return cors.Default().Handler(router)
}

func serve(addr string) error {
	logger.Info("Listening", slog.String("addr", addr))
	return http.ListenAndServe(addr, Router())
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}

func intParam(q url.Values, key string, fallback int) (int, error) {
	v := q.Get(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v must be an integer, got %q", generator.ErrInvalidArgument, key, v)
	}
	return n, nil
}

func parseGenerateOptions(q url.Values) (GenerateOptions, error) {
	var o GenerateOptions
	var err error
	if o.Tracks, err = intParam(q, "tracks", 1); err != nil {
		return o, err
	}
	if o.Notes, err = intParam(q, "notes", constants.GetNotesPerTrack()); err != nil {
		return o, err
	}
	if v := q.Get("seed"); v != "" {
		if o.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return o, fmt.Errorf("%w: seed must be an unsigned integer, got %q", generator.ErrInvalidArgument, v)
		}
		o.Seeded = true
	}
	o.Strict = q.Get("strict") == "true"
	o.Resolution = constants.GetTicksPerQuarter()
	return o, nil
}

func readBody(w http.ResponseWriter, r *http.Request) (midi.Score, error) {
	body := http.MaxBytesReader(w, r.Body, constants.MaxUploadSize)
	return midi.Decode(body)
}

func HandleGenerate(w http.ResponseWriter, r *http.Request) {
	o, err := parseGenerateOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if o.Tracks < 1 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: track count must be positive, got %d", generator.ErrInvalidArgument, o.Tracks))
		return
	}

	score, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if o.Resolution == 0 {
		o.Resolution = score.Resolution
	}
	chain, err := markov.Build(score.Tracks, o.chainOptions()...)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	gen, err := generator.New(chain, nil, o.generatorOptions()...)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	generated, err := gen.Tracks(o.Tracks)
	if errors.Is(err, markov.ErrUndefinedState) {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var buf bytes.Buffer
	if err := (midi.Codec{Resolution: o.Resolution}).Write(&buf, generated); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Info("Generated midi over http",
		slog.Int("tracks", o.Tracks),
		slog.Int("notes_per_track", o.Notes),
		slog.Int("bytes", buf.Len()),
	)
	w.Header().Set("Content-Type", "audio/midi")
	w.Write(buf.Bytes())
}

func HandleInspect(w http.ResponseWriter, r *http.Request) {
	score, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := describe(score.Tracks)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
