package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SarjuThakkar/TreehouseLibrary/internal/service"
	"github.com/SarjuThakkar/TreehouseLibrary/pkg/httputil"
	"github.com/SarjuThakkar/TreehouseLibrary/pkg/validator"
)

// LibraryHandler handles HTTP requests for the scan, book, checkout, and
// patron endpoints.
type LibraryHandler struct {
	service *service.LibraryService
	logger  *slog.Logger
}

// NewLibraryHandler creates a new library HTTP handler.
func NewLibraryHandler(svc *service.LibraryService, logger *slog.Logger) *LibraryHandler {
	return &LibraryHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// ScanRequest is the JSON request body for scanning an ISBN.
type ScanRequest struct {
	ISBN string `json:"isbn" validate:"required,min=1,max=32"`
}

// RegisterBookRequest is the JSON request body for registering a book.
type RegisterBookRequest struct {
	ISBN      string  `json:"isbn" validate:"required,min=1,max=32"`
	Title     string  `json:"title" validate:"required,min=1,max=255"`
	Author    string  `json:"author" validate:"required,min=1,max=255"`
	OurReview *string `json:"our_review"`
	OurRating *int    `json:"our_rating" validate:"omitempty,gte=1,lte=5"`
}

// UpdateBookRequest is the JSON request body for editing a book.
type UpdateBookRequest struct {
	Title     string  `json:"title" validate:"required,min=1,max=255"`
	Author    string  `json:"author" validate:"required,min=1,max=255"`
	OurReview *string `json:"our_review"`
	OurRating *int    `json:"our_rating" validate:"omitempty,gte=1,lte=5"`
}

// CheckoutRequest is the JSON request body for checking a book out.
type CheckoutRequest struct {
	PatronName  string `json:"patron_name" validate:"required,min=1,max=255"`
	PatronEmail string `json:"patron_email" validate:"omitempty,email"`
}

// ReturnRequest is the JSON request body for returning a book. Both fields
// are optional; a bare return just closes the checkout.
type ReturnRequest struct {
	StarRating    int    `json:"star_rating" validate:"omitempty,gte=1,lte=5"`
	ReviewContent string `json:"review_content" validate:"max=2000"`
}

// --- Handlers ---

// Scan handles POST /api/v1/scan
func (h *LibraryHandler) Scan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.Scan(r.Context(), req.ISBN)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// RegisterBook handles POST /api/v1/books
func (h *LibraryHandler) RegisterBook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req RegisterBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	book, err := h.service.RegisterBook(r.Context(), &service.RegisterBookInput{
		ISBN:      req.ISBN,
		Title:     req.Title,
		Author:    req.Author,
		OurReview: req.OurReview,
		OurRating: req.OurRating,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: book})
}

// ListBooks handles GET /api/v1/books
func (h *LibraryHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListBooks(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: books})
}

// GetBook handles GET /api/v1/books/{isbn}
func (h *LibraryHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetBook(r.Context(), chi.URLParam(r, "isbn"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// UpdateBook handles PUT /api/v1/books/{isbn}
func (h *LibraryHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	book, err := h.service.UpdateBook(r.Context(), chi.URLParam(r, "isbn"), &service.UpdateBookInput{
		Title:     req.Title,
		Author:    req.Author,
		OurReview: req.OurReview,
		OurRating: req.OurRating,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: book})
}

// DeleteBook handles DELETE /api/v1/books/{isbn}
func (h *LibraryHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBook(r.Context(), chi.URLParam(r, "isbn")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CheckoutBook handles POST /api/v1/books/{isbn}/checkout
func (h *LibraryHandler) CheckoutBook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	checkout, err := h.service.CheckoutBook(r.Context(), chi.URLParam(r, "isbn"), req.PatronName, req.PatronEmail)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: checkout})
}

// ReturnBook handles POST /api/v1/books/{isbn}/return
func (h *LibraryHandler) ReturnBook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ReturnRequest
	// An empty body is a valid bare return.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.WriteValidationError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.ReturnBook(r.Context(), chi.URLParam(r, "isbn"), req.StarRating, req.ReviewContent)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// SearchPatrons handles GET /api/v1/patrons
func (h *LibraryHandler) SearchPatrons(w http.ResponseWriter, r *http.Request) {
	patrons, err := h.service.SearchPatrons(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: patrons})
}
