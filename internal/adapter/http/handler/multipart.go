package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
)

const (
	pictureField    = "picture"
	multipartMemory = 8 << 20
)

var errBadForm = fmt.Errorf("%w: expected a multipart form", domain.ErrMalformedBody)

// parseForm limits the body to h.maxUploadBytes and parses it as multipart.
// A body that is not multipart is accepted and yields empty values.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) error {
	if r.ContentLength > h.maxUploadBytes {
		return h.errTooLarge()
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	err := r.ParseMultipartForm(multipartMemory)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, http.ErrNotMultipart):
		return r.ParseForm()
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return h.errTooLarge()
		}
		return errBadForm
	}
}

func (h *Handler) errTooLarge() error {
	return fmt.Errorf("%w: upload exceeds %d bytes", domain.ErrFieldTooLong, h.maxUploadBytes)
}

func formValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// formFiles reads every file posted under field, in submission order.
func formFiles(r *http.Request, field string) ([]domain.ImageFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	files := make([]domain.ImageFile, 0, len(headers))
	for _, fh := range headers {
		file, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func readFile(fh *multipart.FileHeader) (domain.ImageFile, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.ImageFile{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.ImageFile{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return domain.ImageFile{
		Name:        filepath.Base(fh.Filename),
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func offerInputFromForm(r *http.Request) domain.OfferInput {
	return domain.OfferInput{
		Title:       formValue(r, "title"),
		Description: formValue(r, "description"),
		Price:       formValue(r, "price"),
		Condition:   formValue(r, "condition"),
		Location:    formValue(r, "city"),
		Brand:       formValue(r, "brand"),
		Size:        formValue(r, "size"),
		Color:       formValue(r, "color"),
	}
}
