package handler

import (
	"encoding/json"
	"net/http"
)

type serviceInfo struct {
	Service   string            `json:"service"`
	Status    string            `json:"status"`
	Docs      string            `json:"docs"`
	Endpoints map[string]string `json:"endpoints"`
}

var info = serviceInfo{
	Service: "Storefront API",
	Status:  "ok",
	Docs:    "/swagger/index.html",
	Endpoints: map[string]string{
		"catalog": "GET /products",
		"session": "POST /sessions",
		"cart":    "GET|POST /session/cart",
		"search":  "GET|POST /session/search",
		"events":  "GET /session/events",
	},
}

// Handler describes the service at its root path.
func Handler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(info)
}
