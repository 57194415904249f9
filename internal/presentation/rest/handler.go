package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/application/dto"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/application/usecase"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// UseCases groups the application use cases served over HTTP.
type UseCases struct {
	Train        *usecase.TrainModel
	Retrain      *usecase.RetrainModel
	Predict      *usecase.PredictChurn
	Dashboard    *usecase.GetDashboardStats
	Performance  *usecase.GetPerformanceStats
	ChurnFactors *usecase.GetChurnFactors
	Segmentation *usecase.GetSegmentation
}

// ChurnHandler serves the churn prediction HTTP API.
type ChurnHandler struct {
	uc             UseCases
	logger         *slog.Logger
	limiter        *RateLimiter
	maxUploadBytes int64
}

// NewChurnHandler creates a new ChurnHandler.
func NewChurnHandler(uc UseCases, maxUploadBytes int64, logger *slog.Logger) *ChurnHandler {
	return &ChurnHandler{
		uc:             uc,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes registers the API endpoints on the provided ServeMux.
func (h *ChurnHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /train", h.limited(h.Train))
	mux.HandleFunc("POST /retrain", h.limited(h.Retrain))
	mux.HandleFunc("POST /predict", h.Predict)
	mux.HandleFunc("POST /dashboard_stats", h.DashboardStats)
	mux.HandleFunc("POST /performance_stats", h.PerformanceStats)
	mux.HandleFunc("POST /churn_factors", h.ChurnFactors)
	mux.HandleFunc("POST /segmentation", h.Segmentation)
}

// limited applies the training rate limit when one is configured.
func (h *ChurnHandler) limited(next http.HandlerFunc) http.HandlerFunc {
	if h.limiter == nil {
		return next
	}
	return RateLimit(h.limiter, next)
}

// Train handles a multipart upload of a dataset and trains a new model.
func (h *ChurnHandler) Train(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "Dataset exceeds the upload limit")
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			writeJSONError(w, http.StatusBadRequest, "Malformed multipart request")
			return
		}
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, _, err := r.FormFile("dataset")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "No dataset file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Failed to read dataset file")
		return
	}

	resp, err := h.uc.Train.Execute(r.Context(), dto.TrainRequest{
		ModelType: r.FormValue("modelType"),
		Dataset:   data,
	})
	if err != nil {
		h.writeError(r.Context(), w, "training", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Retrain refits an existing model on its stored dataset.
func (h *ChurnHandler) Retrain(w http.ResponseWriter, r *http.Request) {
	var req dto.RetrainRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.uc.Retrain.Execute(r.Context(), req)
	if err != nil {
		h.writeError(r.Context(), w, "retraining", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Predict scores and explains a single customer record.
func (h *ChurnHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req dto.PredictRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.uc.Predict.Execute(r.Context(), req)
	if err != nil {
		h.writeError(r.Context(), w, "", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DashboardStats summarizes the stored dataset of a model.
func (h *ChurnHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	var req dto.ModelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.uc.Dashboard.Execute(r.Context(), req)
	if err != nil {
		h.writeError(r.Context(), w, "", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// PerformanceStats reports held-out metrics of a model.
func (h *ChurnHandler) PerformanceStats(w http.ResponseWriter, r *http.Request) {
	var req dto.ModelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.uc.Performance.Execute(r.Context(), req)
	if err != nil {
		h.writeError(r.Context(), w, "", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ChurnFactors lists the most important features of a model.
func (h *ChurnHandler) ChurnFactors(w http.ResponseWriter, r *http.Request) {
	var req dto.ModelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.uc.ChurnFactors.Execute(r.Context(), req)
	if err != nil {
		h.writeError(r.Context(), w, "", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Segmentation counts stored customers per risk segment.
func (h *ChurnHandler) Segmentation(w http.ResponseWriter, r *http.Request) {
	var req dto.ModelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.uc.Segmentation.Execute(r.Context(), req)
	if err != nil {
		h.writeError(r.Context(), w, "", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeBody decodes a JSON request body into v. An empty body leaves v
// zero-valued so that missing parameters surface from the use case.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, http.StatusBadRequest, "Request body must be a JSON object")
		return false
	}
	return true
}

func (h *ChurnHandler) writeError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	status, message := mapError(operation, err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed", "operation", operation, "error", err)
	}
	writeJSONError(w, status, message)
}
