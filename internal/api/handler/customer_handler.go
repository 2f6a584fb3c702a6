package handler

import (
	"customer-api/internal/api/handler/dto"
	"customer-api/internal/domain/customer"
	"customer-api/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

func getCustomerIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		return 0, fmt.Errorf("%w: id not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

func (h *CustomerHandler) bindCustomerRequest(r *http.Request) (customer.CustomerRequest, error) {
	var body dto.CustomerRequest
	if err := decodeJSON(r, &body); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		return customer.CustomerRequest{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}

	req := body.ToDomain()
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		return customer.CustomerRequest{}, err
	}
	return req, nil
}

func (h *CustomerHandler) logServiceError(r *http.Request, msg string, err error) {
	level := slog.LevelError
	if apperrors.IsNotFound(err) {
		level = slog.LevelWarn
	}
	h.logger.Log(r.Context(), level, msg, slog.Any("error", err))
}

// ListCustomers handles GET /api/customer
// @Summary List customers
// @Description Retrieves every stored customer ordered by id.
// @Tags Customers
// @Produce json
// @Success 200 {array} dto.CustomerResponse "List of customers"
// @Failure 404 {object} dto.ErrorResponse "No customers stored"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customer [get]
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received list customers request")

	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.logServiceError(r, "Service failed to list customers", err)
		respondError(w, err)
		return
	}

	resp := dto.NewCustomerListResponse(customers)
	h.logger.InfoContext(r.Context(), "Customers listed successfully", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}

// CreateCustomer handles POST /api/customer
// @Summary Create a new customer
// @Description Creates a customer; the id is one greater than the highest stored id.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CustomerRequest true "Customer creation request"
// @Success 200 {object} dto.CustomerResponse "Customer successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or missing field"
// @Failure 500 {object} dto.ErrorResponse "Internal server error during creation"
// @Router /api/customer [post]
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create customer request")

	req, err := h.bindCustomerRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	createdCustomer, err := h.service.CreateCustomer(r.Context(), req)
	if err != nil {
		h.logServiceError(r, "Service failed to create customer", err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.Int64("customerID", createdCustomer.ID))
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(createdCustomer))
}

// EditCustomer handles PUT /api/customer/{id}
// @Summary Edit a customer
// @Description Overwrites first name, last name and date of birth of an existing customer.
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param request body dto.CustomerRequest true "Customer edit request"
// @Success 200 {object} dto.CustomerResponse "Customer successfully updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid id or request payload"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customer/{id} [put]
func (h *CustomerHandler) EditCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Received edit customer request", slog.Int64("customerID", customerID))

	req, err := h.bindCustomerRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	updated, err := h.service.EditCustomer(r.Context(), customerID, req)
	if err != nil {
		h.logServiceError(r, "Service failed to edit customer", err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer edited successfully", slog.Int64("customerID", customerID))
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(updated))
}

// DeleteCustomer handles DELETE /api/customer/{id}
// @Summary Delete a customer
// @Description Removes the customer with the given id.
// @Tags Customers
// @Param id path int true "Customer ID"
// @Success 200 "Customer successfully deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customer/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Received delete customer request", slog.Int64("customerID", customerID))

	if err := h.service.DeleteCustomer(r.Context(), customerID); err != nil {
		h.logServiceError(r, "Service failed to delete customer", err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer deleted successfully", slog.Int64("customerID", customerID))
	respondEmpty(w, http.StatusOK)
}

// SearchCustomers handles GET /api/customer/search/{searchTerm}
// @Summary Search customers by name
// @Description Case-insensitive substring match over first name or last name.
// @Tags Customers
// @Produce json
// @Param searchTerm path string true "Substring to look for"
// @Success 200 {array} dto.CustomerResponse "Matching customers"
// @Failure 404 {object} dto.ErrorResponse "No customer matches"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customer/search/{searchTerm} [get]
func (h *CustomerHandler) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	// chi matches against RawPath when it is set, leaving the param escaped.
	term := chi.URLParam(r, "searchTerm")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(term); err == nil {
			term = unescaped
		}
	}

	h.logger.DebugContext(r.Context(), "Received search customers request", slog.String("term", term))

	customers, err := h.service.SearchCustomers(r.Context(), term)
	if err != nil {
		h.logServiceError(r, "Service failed to search customers", err)
		respondError(w, err)
		return
	}

	resp := dto.NewCustomerListResponse(customers)
	h.logger.InfoContext(r.Context(), "Customer search finished", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}
