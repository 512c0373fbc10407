package server

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/recipe-extractor/internal/events"
)

// handleUploadPDF accepts a PDF upload and starts an extraction job. The
// response returns immediately with the job id; progress is reported on the
// job's event feed.
func (s *Server) handleUploadPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		s.errorResponse(w, http.StatusBadRequest, "Only PDF files are supported")
		return
	}

	document, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read uploaded file: "+err.Error())
		return
	}
	if len(document) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "Uploaded file is empty")
		return
	}

	jobID, err := s.pipeline.Submit(r.Context(), document, header.Filename)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to start job: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusAccepted, map[string]string{
		"job_id":  jobID.String(),
		"message": "File upload accepted, processing started.",
	})
}

// handleUploadStatus streams a job's event feed over SSE. A client attaching
// mid-job first receives the latest event, then every later one; the stream
// ends when the job completes or the client disconnects.
func (s *Server) handleUploadStatus(w http.ResponseWriter, r *http.Request) {
	jobIDStr := r.PathValue("job_id")
	jobID, err := uuid.Parse(jobIDStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	sub := s.bus.Subscribe(jobID.String())
	defer s.bus.Unsubscribe(jobID.String(), sub)

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := sse.WriteEvent("parsingStatus", eventData(ev)); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

// eventData flattens a bus event into the SSE payload shape: the event type
// becomes the status field alongside the payload's own fields.
func eventData(ev events.Event) map[string]any {
	data := map[string]any{"status": ev.Type}
	if payload, ok := ev.Payload.(map[string]any); ok {
		for k, v := range payload {
			if k != "status" {
				data[k] = v
			}
		}
	} else if ev.Payload != nil {
		data["data"] = ev.Payload
	}
	return data
}
