package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/felixbrock/catalogview/internal/components"
)

type ComponentResponse struct {
	Error       error
	Message     string
	Code        int
	ContentType string
	Component   templ.Component
}

func errResponse(ctx errCtx, err error) *ComponentResponse {
	return &ComponentResponse{
		Error:       err,
		Message:     ctx.Msg,
		Code:        ctx.Code,
		ContentType: "text/html",
		Component:   components.ErrorPage(ctx.Code, ctx.Title, ctx.Msg),
	}
}

type ComponentHandler func(http.ResponseWriter, *http.Request) *ComponentResponse

func (ch ComponentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := ch(w, r)

	if resp == nil {
		resp = errResponse(get500(), errors.New("handler returned no response"))
	}

	if resp.Error != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, resp.Error.Error()))
	}

	if resp.Component == nil {
		if resp.Code == 0 {
			resp.Code = http.StatusInternalServerError
		}
		http.Error(w, resp.Message, resp.Code)
		return
	}

	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	if resp.Code != 0 {
		// htmx only swaps 2xx responses, so error components go out as 200
		if r.Header.Get("HX-Request") == "true" && resp.Code >= 400 {
			resp.Code = 200
		}
		w.WriteHeader(resp.Code)
	}

	err := resp.Component.Render(r.Context(), w)

	if err != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, err.Error()))
	}
}
