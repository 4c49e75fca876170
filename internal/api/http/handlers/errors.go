package handlers

import apperrors "github.com/spec-kit/advisory-portal/pkg/util"

var errInvalidPayload = apperrors.NewValidationError("request body must be a JSON object", nil)
