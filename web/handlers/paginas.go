package handlers

import (
	"html/template"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// IndexHandler sirve la página única del panel; la vista consume la API JSON.
func IndexHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		tmpl, err := template.ParseFiles("web/templates/index.html")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		tmpl.Execute(w, nil)
	}
}
