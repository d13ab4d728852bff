// Package server exposes the converter over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/woozymasta/geocrs/internal/processor"
	"github.com/woozymasta/geocrs/pkg/geo"
	"github.com/woozymasta/geocrs/pkg/geocrs"
	"github.com/woozymasta/geocrs/pkg/proj"

	"github.com/rs/zerolog/log"
)

const mediaGeoJSON = "application/geo+json"

// HandleHealth reports liveness.
func (s *ServerContext) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// HandleProjections serves the registered projection identifiers.
func (s *ServerContext) HandleProjections(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(s.Engine.Identifiers())
}

// HandleNormalize converts a legacy CRS tagged document to WGS84.
func (s *ServerContext) HandleNormalize(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	out, err := s.converter(r, s.Engine).Normalize(doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeDocument(w, r, out)
}

// HandleObsolete converts a WGS84 document to a CRS tagged one.
// Query parameters: projection, datum. A datum is registered on a copy of
// the shared registry and is dropped with the request.
func (s *ServerContext) HandleObsolete(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	projection := query.Get("projection")
	if projection == "" {
		projection = s.Config.DefaultProjection
	}

	engine := s.Engine
	datum := query.Get("datum")
	if datum != "" && projection != "" {
		engine = s.Engine.Clone()
	}

	out, err := s.converter(r, engine).Obsolete(doc, projection, datum)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeDocument(w, r, out)
}

func (s *ServerContext) converter(r *http.Request, engine *proj.Engine) *geocrs.Converter {
	opts := []geocrs.Option{geocrs.WithEngine(engine)}
	if allKinds, _ := strconv.ParseBool(r.URL.Query().Get("all_kinds")); allKinds {
		opts = append(opts, geocrs.WithAllKinds())
	}
	return geocrs.New(opts...)
}

func (s *ServerContext) readDocument(w http.ResponseWriter, r *http.Request) (*geo.Document, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.MaxBodySize))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSONError(w, status, err)
		return nil, false
	}

	doc, err := processor.Decode(data, requestFormat(r.Header.Get("Content-Type")))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return nil, false
	}

	return doc, true
}

func (s *ServerContext) writeDocument(w http.ResponseWriter, r *http.Request, doc *geo.Document) {
	out := processor.Output{
		Format:    processor.FormatJSON,
		Precision: s.Config.Precision,
	}
	if p, err := strconv.Atoi(r.URL.Query().Get("precision")); err == nil && p >= 0 {
		out.Precision = p
	}

	contentType := mediaGeoJSON
	if requestFormat(r.Header.Get("Accept")) == processor.FormatYAML {
		out.Format = processor.FormatYAML
		contentType = "application/yaml"
	}

	data, err := processor.Encode(doc, out)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

func (s *ServerContext) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var (
		unknown *proj.UnknownProjectionError
		defErr  *proj.DefinitionError
		missing *geo.MissingCoordinatesError
	)
	switch {
	case errors.Is(err, geocrs.ErrDetection),
		errors.As(err, &unknown),
		errors.As(err, &defErr),
		errors.Is(err, proj.ErrLatitudeRange),
		errors.Is(err, proj.ErrShortPosition):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &missing):
		status = http.StatusBadRequest
	}

	log.Debug().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("Conversion failed")
	writeJSONError(w, status, err)
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func requestFormat(mediaType string) string {
	if strings.Contains(mediaType, "yaml") {
		return processor.FormatYAML
	}
	return processor.FormatJSON
}
