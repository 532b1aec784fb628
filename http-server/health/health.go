package health

import (
	"github.com/go-chi/render"
	"net/http"
)

type Response struct {
	OK bool `json:"ok"`
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, Response{OK: true})
	}
}
