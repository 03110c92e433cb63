package controllers

import (
	"bufio"
	"io"
	"net/http"

	"go-shopping/gateway"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"
)

// ImageController serves uploaded images by name
type ImageController struct {
	blobs gateway.BlobStore
}

func NewImageController(blobs gateway.BlobStore) *ImageController {
	return &ImageController{blobs: blobs}
}

func (ic *ImageController) GetImage(w http.ResponseWriter, r *http.Request) {
	rc, err := ic.blobs.Open(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, 3072)
	head, _ := br.Peek(3072)
	w.Header().Set("Content-Type", mimetype.Detect(head).String())
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, br)
}
