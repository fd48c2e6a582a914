package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/teklemt/cardscan-service/internal/cardsvc/models"
)

type webInfoRequest struct {
	Name    string          `json:"name"`
	Company string          `json:"company"`
	WebInfo json.RawMessage `json:"web_info"`
}

// SaveWebInfo persists a blob of gathered information about a person or
// company to the secondary table.
func (h *Handler) SaveWebInfo(w http.ResponseWriter, r *http.Request) {
	var req webInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := h.webInfo.Create(r.Context(), models.WebInfo{
		Name:    req.Name,
		Company: req.Company,
		Info:    req.WebInfo,
	})
	if err != nil {
		storeError(w, err, "save web info")
		return
	}

	writeJSON(w, http.StatusCreated, apiResponse{
		Success: true,
		Message: "web information saved successfully",
		Data:    map[string]interface{}{"id": id},
	})
}
