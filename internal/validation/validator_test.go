// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

package validation

import (
	"strings"
	"testing"
)

type triggerBody struct {
	Mode  string `json:"mode" validate:"required,oneof=full incremental"`
	Limit int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator must return the same instance")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	if err := ValidateStruct(&triggerBody{Mode: "full"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateStruct(&triggerBody{Mode: "incremental", Limit: 100}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStruct_Messages(t *testing.T) {
	tests := []struct {
		name    string
		body    triggerBody
		field   string
		tag     string
		message string
	}{
		{"missing mode", triggerBody{}, "mode", "required", "mode is required"},
		{"unknown mode", triggerBody{Mode: "partial"}, "mode", "oneof", "mode must be one of: full incremental"},
		{"limit too large", triggerBody{Mode: "full", Limit: 500}, "limit", "max", "limit must be at most 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.body)
			if err == nil {
				t.Fatal("expected validation error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.field || errs[0].Tag() != tt.tag {
				t.Errorf("field/tag = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.field, tt.tag)
			}
			if errs[0].Error() != tt.message {
				t.Errorf("message = %q, want %q", errs[0].Error(), tt.message)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		apiErr := ValidateStruct(&triggerBody{Mode: "partial"}).ToAPIError()
		if apiErr.Code != ErrorCode {
			t.Errorf("Code = %q, want %q", apiErr.Code, ErrorCode)
		}
		if apiErr.Details["field"] != "mode" {
			t.Errorf("Details[field] = %v, want mode", apiErr.Details["field"])
		}
	})

	t.Run("multiple", func(t *testing.T) {
		apiErr := ValidateStruct(&triggerBody{Limit: 1000}).ToAPIError()
		if !strings.Contains(apiErr.Message, "mode: ") || !strings.Contains(apiErr.Message, "limit: ") {
			t.Errorf("Message = %q, want both fields", apiErr.Message)
		}
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 2 {
			t.Fatalf("Details[fields] = %v, want 2 entries", apiErr.Details["fields"])
		}
	})

	t.Run("empty", func(t *testing.T) {
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})
}
