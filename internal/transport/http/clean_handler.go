package http

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"datacleaner/internal/dataprocessing"
	apierrors "datacleaner/internal/errors"
	"datacleaner/internal/middleware"
	"datacleaner/internal/services"
	api "datacleaner/pkg/contracts/api/v1"
	"datacleaner/pkg/contracts/domain"
)

// CleanHandler runs the cleaning pipeline on tables posted as JSON
type CleanHandler struct {
	service      *services.CleaningService
	summarizer   *dataprocessing.Summarizer
	validate     *validator.Validate
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewCleanHandler creates a new clean handler
func NewCleanHandler(service *services.CleaningService, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *CleanHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanHandler{
		service:      service,
		summarizer:   dataprocessing.NewSummarizer(logger, dataprocessing.DefaultSummarizerConfig()),
		validate:     newValidator(),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "clean")),
	}
}

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Routes returns the clean routes
func (h *CleanHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Clean)
	return r
}

// Clean handles POST /api/v1/clean
func (h *CleanHandler) Clean(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CleanRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.FromValidator(err))
		return
	}

	opts := h.service.Options()
	if req.Strategy != "" {
		strategy, err := dataprocessing.ParseStrategy(req.Strategy)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		opts.Strategy = strategy
	}
	if req.ZThreshold != nil {
		opts.ZThreshold = *req.ZThreshold
	}

	table, err := reinferKinds(req.Table)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	source := "http"
	if id := middleware.GetRequestID(ctx); id != "" {
		source = "http:" + id
	}
	result, err := h.service.CleanTable(ctx, source, table, opts)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := api.CleanResponse{
		Table:   result.Table,
		RowsIn:  table.NumRows(),
		RowsOut: result.Table.NumRows(),
		Report:  result.Report,
	}
	if req.Summary {
		resp.Summary = h.summarizer.Summarize(ctx, result.Table)
	}

	h.logger.DebugContext(ctx, "Clean request served",
		slog.Int("rows_in", resp.RowsIn),
		slog.Int("rows_out", resp.RowsOut),
		slog.String("strategy", string(opts.Strategy)))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// reinferKinds rebuilds every column so its kind follows the decoded cells
// instead of the kind the client declared.
func reinferKinds(t *domain.Table) (*domain.Table, error) {
	columns := make([]*domain.Column, len(t.Columns))
	for i, col := range t.Columns {
		if col == nil {
			return nil, domain.ErrEmptyColumnName
		}
		columns[i] = domain.NewColumn(col.Name, col.Values...)
	}
	return domain.NewTable(columns...)
}
