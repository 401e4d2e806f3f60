package handlers

import (
	"net/http"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/autocomplete"
	ktypes "github.com/turtacn/KeyRank-Intelligence/pkg/types/keyword"
)

// MarketplaceHandler serves the supported marketplace table.
type MarketplaceHandler struct{}

// NewMarketplaceHandler wires the marketplace endpoint.
func NewMarketplaceHandler() *MarketplaceHandler {
	return &MarketplaceHandler{}
}

// marketplaceList is the response body for the marketplace table.
type marketplaceList struct {
	Marketplaces []ktypes.Marketplace `json:"marketplaces"`
	Total        int                  `json:"total"`
}

// List handles GET /marketplaces.
func (h *MarketplaceHandler) List(w http.ResponseWriter, r *http.Request) {
	all := autocomplete.All()
	writeSuccess(w, r, http.StatusOK, marketplaceList{Marketplaces: all, Total: len(all)})
}
