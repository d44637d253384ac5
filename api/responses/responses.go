package responses

import (
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
	"github.com/tigraytip/storefront-backend/pkg/logger"
	"github.com/tigraytip/storefront-backend/pkg/types"
)

// WriteSuccess renders the standard success envelope.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// WriteError maps a coded error onto the standard error envelope. Unknown
// errors are rendered as internal, and the original error is logged rather
// than leaked.
func WriteError(ctx context.Context, w http.ResponseWriter, logg *logger.Logger, err error) {
	coded := pkgerrors.As(err)
	if coded == nil {
		coded = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(coded.Code())
	if meta.HTTPStatus >= http.StatusInternalServerError && logg != nil {
		logg.Error(ctx, "request failed", err)
	}

	apiErr := types.APIError{
		Code:    string(coded.Code()),
		Message: meta.PublicMessage,
	}
	if meta.DetailsAllowed {
		apiErr.Message = coded.Message()
		apiErr.Details = coded.Details()
	}

	writeJSON(w, meta.HTTPStatus, types.ErrorEnvelope{Error: apiErr})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
