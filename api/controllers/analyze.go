package controllers

import (
	"context"
	"net/http"

	"github.com/lucasrivera/fridgekeeper-backend/api/responses"
	"github.com/lucasrivera/fridgekeeper-backend/internal/items"
	pkgerrors "github.com/lucasrivera/fridgekeeper-backend/pkg/errors"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/logger"
)

// ImageAnalyzer extracts item drafts from an uploaded image.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, image []byte, mimeType string) ([]items.Draft, error)
}

// AnalyzeItemImage runs an uploaded photo through the vision model and
// stores the detected items as pending drafts.
func AnalyzeItemImage(analyzer ImageAnalyzer, svc items.Service, logg *logger.Logger, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if analyzer == nil || svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "image analysis unavailable"))
			return
		}

		image, mimeType, err := readImagePart(r, maxUploadBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		drafts, err := analyzer.AnalyzeImage(r.Context(), image, mimeType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateDrafts(r.Context(), drafts)
		if err != nil {
			// The payload came from the model, not the caller, so a draft
			// failing validation is an upstream contract breach.
			if pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				err = pkgerrors.Wrap(pkgerrors.CodeUpstreamInvalid, err, "model returned an invalid item")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithField(r.Context(), "detected_items", len(created))
			logg.Info(ctx, "image analysis completed")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}
