package main

import (
	"log"
	"net/http"
	"runtime/debug"
)

func (app *application) serverError(w http.ResponseWriter, err error) {
	trace := err.Error() + "\n" + string(debug.Stack())
	app.errorLog.Output(2, trace)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// appLogger adapts the stdlib logger pair to the Infof/Errorf interface
// the services and channels expect.
type appLogger struct {
	info *log.Logger
	err  *log.Logger
}

func (l appLogger) Infof(format string, args ...interface{}) {
	l.info.Printf(format, args...)
}

func (l appLogger) Errorf(format string, args ...interface{}) {
	l.err.Printf(format, args...)
}
