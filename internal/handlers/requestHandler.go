package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/akolanti/propdocs/internal/adapter"
	"github.com/akolanti/propdocs/internal/adapter/utils"
	"github.com/akolanti/propdocs/internal/api"
	"github.com/akolanti/propdocs/internal/compose"
	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/docqa"
	"github.com/akolanti/propdocs/internal/domain/commonModels"
	"github.com/akolanti/propdocs/internal/domain/jobModel"
	"github.com/dustin/go-humanize"
)

// GetHandler is the liveness probe. It also reports how many documents are
// waiting for a background worker.
func GetHandler(w http.ResponseWriter, r *http.Request) {
	res := api.HealthResponse{Status: "ok"}
	if handlerInstance != nil && handlerInstance.service != nil && handlerInstance.service.Queue != nil {
		res.QueueDepth = handlerInstance.service.Queue.Len(r.Context())
	}
	writeJsonResponse(w, http.StatusOK, res)
}

// AskHandler godoc
// @Summary      Ask a question about a document
// @Description  Uploads a property document with a question. Small files and targeted questions are answered live; everything else is queued and a job id is returned.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        document     formData  file    true   "PDF, Word, text or image file"
// @Param        question     formData  string  true   "The question to answer"
// @Param        building_id  formData  string  false  "Building the document belongs to"
// @Param        priority     formData  string  false  "low, normal or high"
// @Success      200  {object}  api.AskResponse  "Answered on the quick path"
// @Success      202  {object}  api.AskResponse  "Queued for background processing"
// @Failure      400  {object}  api.AskResponse  "Missing document or question"
// @Failure      413  {object}  api.AskResponse  "File over the upload limit"
// @Failure      422  {object}  api.AskResponse  "Document could not be processed"
// @Router       /documents/ask [post]
func AskHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request", "remoteAddr", r.RemoteAddr)
		return
	}
	log := logRH.WithTrace(r.Context())

	limit := handlerInstance.maxUploadBytes
	// headroom for the multipart envelope and form fields
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	if err := r.ParseMultipartForm(config.MaxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn("Upload over limit", "limit", limit)
			writeAskError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("the file is larger than the %s limit", humanize.IBytes(uint64(limit))), "",
				"Compress the PDF or reduce image resolution before uploading",
				"Split the document into smaller parts")
			return
		}
		writeAskError(w, http.StatusBadRequest, "the request must be multipart/form-data", "",
			"Send the file in a form field named document")
		return
	}
	defer r.MultipartForm.RemoveAll()

	question := r.FormValue("question")
	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		writeAskError(w, http.StatusBadRequest, "no document was uploaded", question,
			"Attach the file in a form field named document")
		return
	}
	defer fileReader.Close()

	data, err := io.ReadAll(fileReader)
	if err != nil {
		log.Error("Couldn't read upload", "err", err)
		writeAskError(w, http.StatusBadRequest, "the upload could not be read", question, "Upload the document again")
		return
	}

	doc := commonModels.UploadedDocument{
		Data:         data,
		FileName:     fileMetadata.Filename,
		DeclaredSize: fileMetadata.Size,
		MediaType:    fileMetadata.Header.Get("Content-Type"),
	}
	outcome := AskQuestion(r.Context(), doc, docqa.Question{
		Text:        question,
		BuildingRef: r.FormValue("building_id"),
		Priority:    jobModel.ParsePriority(r.FormValue("priority")),
	})
	writeJsonResponse(w, askStatus(outcome), adapter.ToAskResponse(outcome))
}

// GetStatusHandler godoc
// @Summary      Get background job status
// @Description  Retrieves a queued job and, once it has finished, its answer and summary.
// @Tags         Job Status
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse  "Current state of the job"
// @Failure      404  {object}  api.JobResponse  "Job not found (returns Error object within JobResponse)"
// @Router       /jobs/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	logRH.WithTrace(r.Context()).Debug("Get Status Request", "URL path", r.URL.Path)

	result, isFound := validateId(r.Context(), idString)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

func writeAskError(w http.ResponseWriter, code int, reason string, question string, suggestions ...string) {
	writeJsonResponse(w, code, adapter.ToAskResponse(compose.TerminalError(reason, suggestions, question)))
}
