package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexconsult/autofill-api/internal/autofill"
	"github.com/nexconsult/autofill-api/internal/form"
	"github.com/nexconsult/autofill-api/internal/models"
	"github.com/nexconsult/autofill-api/internal/services"
	"github.com/sirupsen/logrus"
)

// AutofillHandler replays user events on a submitted page
type AutofillHandler struct {
	deps   autofill.Deps
	opts   autofill.Options
	loader services.PageLoader
	logger *logrus.Logger
}

// NewAutofillHandler creates a new autofill handler. loader fetches remote
// pages for AutofillURL and may be nil.
func NewAutofillHandler(deps autofill.Deps, opts autofill.Options, loader services.PageLoader, logger *logrus.Logger) *AutofillHandler {
	if deps.Logger == nil {
		deps.Logger = logger
	}
	return &AutofillHandler{
		deps:   deps,
		opts:   opts,
		loader: loader,
		logger: logger,
	}
}

// Autofill runs the events against the page forms and returns the result
// @Summary Preenche formulários
// @Description Aplica eventos (input, set, blur) aos formulários da página e retorna o HTML atualizado
// @Tags Autofill
// @Accept json
// @Produce json
// @Param request body models.AutofillRequest true "Página e eventos"
// @Success 200 {object} models.StandardResponse{data=models.AutofillResponse}
// @Failure 400 {object} models.StandardResponse
// @Failure 422 {object} models.StandardResponse
// @Router /autofill [post]
func (h *AutofillHandler) Autofill(c *gin.Context) {
	start := time.Now()
	requestID := c.GetString("request_id")

	var request models.AutofillRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrorCodeInvalidRequest, err.Error(), nil, start)
		return
	}

	page, err := form.ParseString(request.HTML)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, models.ErrorCodeInvalidHTML, err.Error(), nil, start)
		return
	}

	h.run(c, page, request.Events, logrus.Fields{"request_id": requestID}, start)
}

// AutofillURL loads a remote page and runs the events against its forms
// @Summary Preenche formulários de uma página remota
// @Description Carrega a página (via navegador quando habilitado) e aplica os eventos
// @Tags Autofill
// @Accept json
// @Produce json
// @Param request body models.AutofillURLRequest true "URL e eventos"
// @Success 200 {object} models.StandardResponse{data=models.AutofillResponse}
// @Failure 400 {object} models.StandardResponse
// @Failure 422 {object} models.StandardResponse
// @Failure 502 {object} models.StandardResponse
// @Router /autofill/url [post]
func (h *AutofillHandler) AutofillURL(c *gin.Context) {
	start := time.Now()
	requestID := c.GetString("request_id")

	var request models.AutofillURLRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrorCodeInvalidRequest, err.Error(), nil, start)
		return
	}
	if h.loader == nil {
		respondError(c, http.StatusServiceUnavailable, models.ErrorCodeInternalError, "page loading is not configured", nil, start)
		return
	}

	page, err := h.loader.LoadPage(c.Request.Context(), request.URL)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"url":        request.URL,
			"error":      err.Error(),
		}).Warn("Failed to load page")
		respondError(c, http.StatusBadGateway, models.ErrorCodeLookupFailed, err.Error(), nil, start)
		return
	}

	h.run(c, page, request.Events, logrus.Fields{"request_id": requestID, "url": request.URL}, start)
}

func (h *AutofillHandler) run(c *gin.Context, page *form.Page, events []models.AutofillEvent, fields logrus.Fields, start time.Time) {
	controllers := autofill.Init(page, h.deps, h.opts)
	if len(controllers) == 0 {
		respondError(c, http.StatusUnprocessableEntity, models.ErrorCodeInvalidHTML,
			"a página não contém formulários", nil, start)
		return
	}

	logger := h.logger.WithFields(fields).WithFields(logrus.Fields{
		"forms":  len(controllers),
		"events": len(events),
	})

	response, err := replay(c.Request.Context(), page, controllers, events)
	if err != nil {
		logger.WithError(err).Error("Failed to render page")
		respondError(c, http.StatusInternalServerError, models.ErrorCodeInternalError, err.Error(), nil, start)
		return
	}
	response.PageID = page.ID

	logger.WithField("duration", time.Since(start)).Info("Autofill completed")
	respondSuccess(c, http.StatusOK, "Eventos aplicados", response, start)
}

// replay applies events in order and snapshots every form afterwards.
// An event addressing a missing form is reported and skipped.
func replay(ctx context.Context, page *form.Page, controllers []*autofill.Controller, events []models.AutofillEvent) (*models.AutofillResponse, error) {
	results := make([]models.EventResult, 0, len(events))

	for _, event := range events {
		result := models.EventResult{Type: event.Type, Form: event.Form, Field: event.Field}
		if event.Form < 0 || event.Form >= len(controllers) {
			result.Error = fmt.Sprintf("formulário %d inexistente", event.Form)
			results = append(results, result)
			continue
		}
		ctrl := controllers[event.Form]

		switch event.Type {
		case "input":
			value, cursor, ok := ctrl.Input(event.Field, event.Value, event.Cursor)
			if !ok {
				result.Error = "campo ausente"
				break
			}
			result.Value, result.Cursor = value, cursor
		case "set":
			if !ctrl.Set(event.Field, event.Value) {
				result.Error = "campo ausente ou valor vazio"
				break
			}
			result.Value, _ = ctrl.Form().Value(event.Field)
		case "blur":
			lookup := ctrl.Blur(ctx, event.Field)
			result.Outcome = string(lookup.Outcome)
			if lookup.Outcome != "" && !lookup.OK() {
				result.Error = lookup.Error()
			}
			result.Value, _ = ctrl.Form().Value(event.Field)
		default:
			result.Error = fmt.Sprintf("evento %q desconhecido", event.Type)
		}
		results = append(results, result)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	states := make([]models.FormState, 0, len(controllers))
	for _, ctrl := range controllers {
		f := ctrl.Form()
		state := models.FormState{
			Index:  f.Index(),
			Name:   f.Name(),
			State:  string(ctrl.State()),
			Busy:   f.Busy(),
			Values: f.Values(),
		}
		if severity, message, ok := f.Feedback(); ok {
			state.Feedback = &models.FeedbackInfo{Severity: string(severity), Message: message}
		}
		states = append(states, state)
	}

	return &models.AutofillResponse{
		HTML:    html,
		Forms:   states,
		Results: results,
	}, nil
}
