package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/platform/images"
	"github.com/tasknest/tasknest-api/internal/store"
)

// maxPictureBytes is the upload size cap for task pictures.
const maxPictureBytes = 2_000_000

// multipartOverhead is slack on top of maxPictureBytes for the
// multipart framing (boundaries, part headers) when bounding the whole
// request body.
const multipartOverhead = 10 << 10

// pictureFormField is the multipart form field carrying the upload.
const pictureFormField = "picture"

// allowedUpdateFields is the PATCH allow-list. A request naming any
// other field is rejected outright, before the task is even loaded.
var allowedUpdateFields = map[string]bool{
	"description": true,
	"completed":   true,
}

// allowedPictureSuffixes are the accepted upload file extensions.
var allowedPictureSuffixes = []string{".jpg", ".jpeg", ".png"}

// TaskHandler handles task CRUD and picture endpoints.
type TaskHandler struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskHandler creates a TaskHandler with the given dependencies.
// A nil logger falls back to slog.Default().
func NewTaskHandler(taskStore store.TaskStore, logger *slog.Logger) *TaskHandler {
	if taskStore == nil {
		panic("taskStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	task, err := domain.NewTask(ownerID, req.Description, req.Completed)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, http.StatusCreated, NewTaskResponse(task))
}

// List handles GET /tasks with optional completed, limit, skip and
// sortBy query parameters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	query := parseListQuery(r)

	tasks, err := h.taskStore.ListForOwner(r.Context(), ownerID, query)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, NewTaskResponses(tasks))
}

// parseListQuery translates the request's query string into a
// store.ListQuery. Malformed values are treated as unset rather than
// rejected, and unknown sort fields are simply ignored downstream.
func parseListQuery(r *http.Request) store.ListQuery {
	var q store.ListQuery
	params := r.URL.Query()

	if raw := params.Get("completed"); raw != "" {
		completed := raw == "true"
		q.Completed = &completed
	}

	if limit, err := strconv.Atoi(params.Get("limit")); err == nil {
		q.Limit = &limit
	}
	if skip, err := strconv.Atoi(params.Get("skip")); err == nil {
		q.Skip = &skip
	}

	if raw := params.Get("sortBy"); raw != "" {
		field, direction, _ := strings.Cut(raw, ":")
		q.SortBy = store.SortField(field)
		q.SortDesc = direction == "desc"
	}

	return q
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	taskID, err := taskIDFromURL(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	task, err := h.taskStore.GetForOwner(r.Context(), taskID, ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, NewTaskResponse(task))
}

// Update handles PATCH /tasks/{id}. Only the description and completed
// fields may be changed; a request naming any other field fails with
// 400 before any lookup happens.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	var updates map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	for field := range updates {
		if !allowedUpdateFields[field] {
			shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(domain.ErrInvalidUpdate))
			return
		}
	}

	taskID, err := taskIDFromURL(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	task, err := h.taskStore.GetForOwner(r.Context(), taskID, ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if raw, present := updates["description"]; present {
		var description string
		if err := json.Unmarshal(raw, &description); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "description must be a string")
			return
		}
		if err := task.SetDescription(description); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	if raw, present := updates["completed"]; present {
		var completed bool
		if err := json.Unmarshal(raw, &completed); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "completed must be a boolean")
			return
		}
		task.SetCompleted(completed)
	}

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, NewTaskResponse(task))
}

// Delete handles DELETE /tasks/{id}, returning the deleted task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	taskID, err := taskIDFromURL(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	task, err := h.taskStore.DeleteForOwner(r.Context(), taskID, ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, NewTaskResponse(task))
}

// UploadPicture handles POST /tasks/{id}. Accepted uploads are
// normalized to a 250x250 PNG before being stored on the task.
func (h *TaskHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	taskID, err := taskIDFromURL(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	task, err := h.taskStore.GetForOwner(r.Context(), taskID, ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	data, err := readPictureUpload(w, r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	normalized, err := images.Normalize(data)
	if err != nil {
		uploadErr := NewUploadError("Please upload an image")
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(uploadErr), GetSafeErrorMessage(uploadErr), err)
		return
	}

	task.AttachPicture(normalized)
	if err := h.taskStore.Update(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, NewTaskResponse(task))
}

// readPictureUpload extracts and size-checks the picture file from the
// multipart form. The request body is bounded before parsing starts so
// an oversized upload is cut off mid-stream instead of being ingested
// whole. All returned errors are UploadErrors safe to show to the
// client.
func readPictureUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPictureBytes+multipartOverhead)

	file, header, err := r.FormFile(pictureFormField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, NewUploadError("File too large")
		}
		return nil, NewUploadError("Please provide a picture")
	}
	defer func() {
		_ = file.Close()
	}()

	if !hasAllowedSuffix(header.Filename) {
		return nil, NewUploadError("Please upload an image")
	}

	// Read one byte past the cap to distinguish at-limit from over it.
	data, err := io.ReadAll(io.LimitReader(file, maxPictureBytes+1))
	if err != nil {
		return nil, NewUploadError("failed to read uploaded file")
	}
	if len(data) > maxPictureBytes {
		return nil, NewUploadError("File too large")
	}

	return data, nil
}

// hasAllowedSuffix checks the upload filename against the accepted
// extensions. The match is case sensitive: ".PNG" is rejected.
func hasAllowedSuffix(filename string) bool {
	for _, suffix := range allowedPictureSuffixes {
		if strings.HasSuffix(filename, suffix) {
			return true
		}
	}
	return false
}

// DeletePicture handles DELETE /tasks/{id}/picture. A missing task is
// 404; a task that simply has no picture is cleared successfully.
func (h *TaskHandler) DeletePicture(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	taskID, err := taskIDFromURL(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	task, err := h.taskStore.GetForOwner(r.Context(), taskID, ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	// Clearing is idempotent: a task with no picture clears to the same
	// end state.
	task.RemovePicture()
	if err := h.taskStore.Update(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, nil)
}

// GetPicture handles GET /tasks/{id}/picture. The endpoint is public:
// anyone holding a task ID can fetch its picture, with no owner check.
func (h *TaskHandler) GetPicture(w http.ResponseWriter, r *http.Request) {
	taskID, err := taskIDFromURL(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "an internal error occurred", err)
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil || !task.HasPicture() {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(task.Picture); err != nil {
		h.logger.Error("failed to write picture response",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
	}
}

// taskIDFromURL parses the {id} path parameter. Malformed IDs surface
// as generic server errors to the client; the wrapped sentinel keeps
// the cause visible in logs.
func taskIDFromURL(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrInvalidID, err)
	}
	return id, nil
}

// ownerIDFromContext extracts the authenticated user ID placed in the
// context by the auth middleware.
func ownerIDFromContext(r *http.Request) (uuid.UUID, bool) {
	ownerID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || ownerID == uuid.Nil {
		return uuid.Nil, false
	}
	return ownerID, true
}
