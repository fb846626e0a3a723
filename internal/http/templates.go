package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/UMEZAWADAN/SD-5/internal/domain"

	"go.uber.org/zap"
)

//go:embed web/templates/*.html web/static/*
var embeddedFiles embed.FS

var pageTemplates = template.Must(template.New("").ParseFS(embeddedFiles, "web/templates/*.html"))

func staticFS() fs.FS {
	sub, err := fs.Sub(embeddedFiles, "web/static")
	if err != nil {
		panic(err)
	}
	return sub
}

// renderVisitRows 服务端渲染访问记录行，内容全部经过 html/template 转义
func renderVisitRows(visits []domain.VisitEntry) (string, error) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, "visit_rows", visits); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderPage 先渲染到 buffer，出错时不写出半个页面
func renderPage(w http.ResponseWriter, logger *zap.Logger, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Error("Template rendering failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "template rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
