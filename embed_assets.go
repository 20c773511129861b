package main

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static/*
var webFS embed.FS

// SetupTemplates parses the embedded views and installs them on the
// engine.
func SetupTemplates(r *gin.Engine) error {
	tmpl, err := template.ParseFS(webFS, "templates/*.html")
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)
	return nil
}
