package controllers

import (
	"net/http"

	"github.com/teclegacy/marketplace-backend/api/responses"
	"github.com/teclegacy/marketplace-backend/api/validators"
	"github.com/teclegacy/marketplace-backend/internal/chatbot"
	pkgerrors "github.com/teclegacy/marketplace-backend/pkg/errors"
	"github.com/teclegacy/marketplace-backend/pkg/logger"
)

type chatbotRequest struct {
	Query string `json:"query"`
}

// The chatbot keeps the storefront's historical {success, response|error}
// shape instead of the data envelope.
type chatbotSuccessResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

type chatbotErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func ChatbotQuery(chatbotService chatbot.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body chatbotRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			writeChatbotError(w, err)
			return
		}

		response, err := chatbotService.Handle(ctx, body.Query)
		if err != nil {
			if logg != nil {
				logg.Error(ctx, "chatbot.query_failed", err)
			}
			writeChatbotError(w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, chatbotSuccessResponse{
			Success:  true,
			Response: response,
		})
	}
}

func writeChatbotError(w http.ResponseWriter, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	msg := typed.Message()
	if msg == "" {
		msg = meta.PublicMessage
	}
	responses.WriteJSON(w, meta.HTTPStatus, chatbotErrorResponse{Success: false, Error: msg})
}
