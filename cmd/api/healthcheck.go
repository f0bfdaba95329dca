package main

import "net/http"

// healthcheckHandler reports that the process is up. It does not touch the store.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	body := envelope{
		"status":      "available",
		"environment": app.config.Env,
		"version":     appVersion,
	}

	err := app.writeJSON(w, http.StatusOK, body, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
