// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

// Package validation validates admin API request bodies with
// go-playground/validator v10.
//
// A single validator instance is shared by all handlers. Field names in
// errors use the struct's json tag so messages match what clients sent:
//
//	type triggerRequest struct {
//	    Mode string `json:"mode" validate:"required,oneof=full incremental"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
