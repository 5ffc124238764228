package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/username/fluxocaixa/backend/src/config"
	"github.com/username/fluxocaixa/backend/src/models"
	"github.com/username/fluxocaixa/backend/src/services"
	"github.com/username/fluxocaixa/backend/src/utils"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(importService services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// HandleCreateImport accepts one batch of already-typed rows. File parsing
// and column mapping happen in the upstream import tooling; this endpoint is
// the typed-record contract.
func (h *ImportHandler) HandleCreateImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.Cfg.MaxRequestBodySize)

	var payload models.ImportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "invalid import payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	batch, err := h.importService.CreateImport(&payload)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrImportEmpty),
			errors.Is(err, services.ErrImportTooLarge),
			errors.Is(err, services.ErrUnknownSourceKind),
			errors.Is(err, services.ErrKindMismatch):
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			utils.SendJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(batch)
}

func (h *ImportHandler) HandleListImports(w http.ResponseWriter, r *http.Request) {
	batches, err := h.importService.ListImports()
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(batches)
}

func (h *ImportHandler) HandleDeleteImport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		utils.SendJSONError(w, "import id is required", http.StatusBadRequest)
		return
	}

	if err := h.importService.DeleteImport(id); err != nil {
		if errors.Is(err, services.ErrImportNotFound) {
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ImportHandler) HandleReplaceCompanies(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.Cfg.MaxRequestBodySize)

	var companies []models.Company
	if err := json.NewDecoder(r.Body).Decode(&companies); err != nil {
		utils.SendJSONError(w, "invalid companies payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.importService.ReplaceCompanies(companies); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"count": len(companies)})
}
