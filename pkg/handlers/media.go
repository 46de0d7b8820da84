package handlers

import (
	"io"
	"mime/multipart"
	"slices"
	"strings"

	"cms-console/pkg/services"

	"github.com/gin-gonic/gin"
)

// fileFields turns uploaded files into payload parts under field. Empty file
// inputs are skipped.
func fileFields(field string, headers []*multipart.FileHeader) []services.FileField {
	out := make([]services.FileField, 0, len(headers))
	for _, fh := range headers {
		if fh.Filename == "" {
			continue
		}
		out = append(out, services.FileField{
			Field:    field,
			Filename: fh.Filename,
			Open:     func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return out
}

// requestPayload reads a create/update body. Multipart requests keep their
// files; anything else must be a JSON object.
func requestPayload(c *gin.Context) (services.Payload, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			return services.Payload{}, err
		}
		fields := make(map[string]any, len(form.Value))
		for k, v := range form.Value {
			if len(v) == 1 {
				fields[k] = v[0]
			} else {
				fields[k] = v
			}
		}
		names := make([]string, 0, len(form.File))
		for name := range form.File {
			names = append(names, name)
		}
		slices.Sort(names)
		var files []services.FileField
		for _, name := range names {
			files = append(files, fileFields(name, form.File[name])...)
		}
		return services.Payload{Fields: fields, Files: files}, nil
	}

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		return services.Payload{}, err
	}
	return services.Payload{Fields: fields}, nil
}
