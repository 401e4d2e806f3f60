package handlers

import (
	"net/http"
	"strconv"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/rawfeed"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
)

// RawFeedHandler accepts saved research portal exports and turns them into
// keyword lists usable as bulk input.
type RawFeedHandler struct {
	logger logging.Logger
}

// NewRawFeedHandler wires the raw feed endpoints.
func NewRawFeedHandler(logger logging.Logger) *RawFeedHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RawFeedHandler{logger: logger.Named("http.rawfeed")}
}

// parsedFeed is the response body for a parsed export.
type parsedFeed struct {
	Keywords []rawfeed.Keyword `json:"keywords"`
	Total    int               `json:"total"`
}

// Magnet handles POST /rawfeed/magnet. The body is the saved HTML export;
// ?min_volume= filters out rows below the given search volume.
func (h *RawFeedHandler) Magnet(w http.ResponseWriter, r *http.Request) {
	minVolume := 0
	if v := r.URL.Query().Get("min_volume"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeAppError(w, r, errors.Validation("min_volume must be a non-negative integer"))
			return
		}
		minVolume = n
	}

	keywords, err := rawfeed.ParseMagnetExport(http.MaxBytesReader(w, r.Body, 8<<20), minVolume)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	h.logger.Info("portal export parsed",
		logging.Int("keywords", len(keywords)),
		logging.Int("min_volume", minVolume),
	)
	writeSuccess(w, r, http.StatusOK, parsedFeed{Keywords: keywords, Total: len(keywords)})
}
