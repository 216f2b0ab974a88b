package app

import (
	"fmt"
	"net/http"

	"github.com/a-h/templ"

	"github.com/felixbrock/catalogview/internal/components"
	"github.com/felixbrock/catalogview/internal/view"
)

func ok(c templ.Component) *ComponentResponse {
	return &ComponentResponse{Component: c, Code: 200, Message: "OK", ContentType: "text/html", Error: nil}
}

func (a App) index(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	return ok(components.Page("Demo", components.Demo()))
}

func (a App) products(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	v := view.NewProductList(a.ProductRepo, a.queryOpts()...)
	a.Views.Mount(v)

	return ok(components.Page("Products", v.Render()))
}

func (a App) users(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	v := view.NewUserList(a.UserRepo, a.queryOpts()...)
	a.Views.Mount(v)

	return ok(components.Page("Users", v.Render()))
}

func (a App) renderView(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	id := r.PathValue("id")
	v, found := a.Views.Get(id)
	if !found {
		return errResponse(get404(), fmt.Errorf("view %s not mounted", id))
	}

	return ok(v.Render())
}

func (a App) nextPage(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	id := r.PathValue("id")
	if _, found := a.Views.Get(id); !found {
		return errResponse(get404(), fmt.Errorf("view %s not mounted", id))
	}

	v, found := view.Lookup[*view.ProductList](a.Views, id)
	if !found {
		return errResponse(get400(), fmt.Errorf("view %s does not page", id))
	}

	v.Next()
	return ok(v.Render())
}

func (a App) refresh(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	id := r.PathValue("id")
	v, found := view.Lookup[*view.UserList](a.Views, id)
	if !found {
		return errResponse(get404(), fmt.Errorf("view %s cannot be refreshed", id))
	}

	v.Refresh()
	return ok(v.Render())
}

func (a App) unmount(w http.ResponseWriter, r *http.Request) *AppError {
	id := r.PathValue("id")
	if !a.Views.Unmount(id) {
		ctx := get404()
		return &AppError{Error: fmt.Errorf("view %s not mounted", id), Message: ctx.Msg, Code: ctx.Code}
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
