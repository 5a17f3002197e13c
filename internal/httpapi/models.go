package httpapi

import (
	"giftsgiver/internal/ebay"
	"giftsgiver/internal/suggest"
)

// SuggestionRequest is the enveloped form of the questionnaire, as sent
// by the web form integration.
type SuggestionRequest struct {
	Source  string                 `json:"source"`
	Payload map[string]interface{} `json:"payload" validate:"required"`
}

// SuggestionResponse is the shared response shape of both suggest
// endpoints.
type SuggestionResponse struct {
	OK    bool                 `json:"ok"`
	Query *suggest.SearchQuery `json:"query"`
	Items []ebay.Item          `json:"items"`
	Note  string               `json:"note,omitempty"`
}

// errorResponse is returned for every failed request. Detail stays in
// the server logs; callers only get the short message and code.
type errorResponse struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
