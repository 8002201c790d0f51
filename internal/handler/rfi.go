package handler

import (
	"errors"
	"net/http"

	"github.com/buildline/rfitrack/internal/ctxkeys"
	"github.com/buildline/rfitrack/internal/model"
	"github.com/buildline/rfitrack/internal/service"
	"github.com/buildline/rfitrack/internal/validation"
)

type RFIHandler struct {
	rfiService        *service.RFIService
	attachmentService *service.AttachmentService
}

func NewRFIHandler(rfiService *service.RFIService, attachmentService *service.AttachmentService) *RFIHandler {
	return &RFIHandler{
		rfiService:        rfiService,
		attachmentService: attachmentService,
	}
}

func (h *RFIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.NewRFI
	err := decodeJSON(w, r, &input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input.CreatedByID = ctxkeys.User(r.Context()).ID

	rfi, err := h.rfiService.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, err, "create rfi")
		return
	}
	writeJSON(w, http.StatusCreated, rfi)
}

func (h *RFIHandler) Get(w http.ResponseWriter, r *http.Request) {
	rfi, err := h.rfiService.ByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "get rfi")
		return
	}
	writeJSON(w, http.StatusOK, rfi)
}

type attachmentResponse struct {
	*model.Attachment
	URL string `json:"url"`
}

// UploadAttachment accepts a multipart form with a single "file" field.
func (h *RFIHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxAttachmentSize+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "attachment is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	attachment, err := h.attachmentService.Upload(r.Context(), r.PathValue("id"), header.Filename, header.Size, file)
	if err != nil {
		respondError(w, r, err, "upload attachment")
		return
	}
	writeJSON(w, http.StatusCreated, attachmentResponse{
		Attachment: attachment,
		URL:        h.attachmentService.URL(attachment),
	})
}

func (h *RFIHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	_, err := h.rfiService.ByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "get rfi")
		return
	}
	attachments, err := h.attachmentService.ByRFI(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "list attachments")
		return
	}

	out := make([]attachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, attachmentResponse{Attachment: a, URL: h.attachmentService.URL(a)})
	}
	writeJSON(w, http.StatusOK, out)
}
