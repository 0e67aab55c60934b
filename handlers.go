package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	DEFAULT_PAGE = 1
	DEFAULT_SIZE = 10
	MAX_SIZE     = 100
)

// PingHandler is the unauthenticated liveness check.
func (s *Server) PingHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Server is running"})
}

// QueryHandler handles POST /query: validate the submission, ask the
// resolver (best-effort), and persist the outcome as a history row.
func (s *Server) QueryHandler(w http.ResponseWriter, r *http.Request) {
	var q QueryCreate
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		WriteDetail(w, http.StatusBadRequest, DETAIL_INVALID_REQUEST_BODY)
		return
	}
	if err := q.Validate(); err != nil {
		WriteDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	user := UserFromContext(r.Context())

	matched := s.resolver.Resolve(r.Context(), q.CadastralNumber, r.Header.Get("Authorization"))

	record, err := s.store.AddQuery(r.Context(), &QueryHistory{
		CadastralNumber: q.CadastralNumber,
		Latitude:        coordinateValue(q.Latitude),
		Longitude:       coordinateValue(q.Longitude),
		Result:          matched,
		UserID:          user.ID,
	})
	if errors.Is(err, ErrDuplicateCoordinates) || errors.Is(err, ErrDuplicateCadastralNumber) {
		WriteDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("error inserting query history", zap.Error(err),
			zap.Int64(ZAP_USER_ID, user.ID), zap.String(ZAP_CADASTRAL_NUMBER, q.CadastralNumber))
		WriteDetail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, record)
}

// HistoryHandler handles GET /history: the caller's own history,
// optionally filtered by cadastral number, newest first, paginated.
func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	page, err := positiveIntParam(params.Get("page"), DEFAULT_PAGE)
	if err != nil || page < 1 {
		WriteDetail(w, http.StatusBadRequest, "page must be an integer greater than or equal to 1")
		return
	}
	size, err := positiveIntParam(params.Get("size"), DEFAULT_SIZE)
	if err != nil || size < 1 || size > MAX_SIZE {
		WriteDetail(w, http.StatusBadRequest, "size must be an integer between 1 and 100")
		return
	}

	cadastralNumber := params.Get("cadastralNumber")
	if cadastralNumber != "" {
		if err := ValidateCadastralNumber(cadastralNumber); err != nil {
			WriteDetail(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	user := UserFromContext(r.Context())

	records, err := s.store.HistoryPage(r.Context(), HistoryFilter{
		UserID:          user.ID,
		CadastralNumber: cadastralNumber,
		Page:            page,
		Size:            size,
	})
	if err != nil {
		s.logger.Error("error reading query history", zap.Error(err),
			zap.Int64(ZAP_USER_ID, user.ID), zap.Int(ZAP_PAGE, page), zap.Int(ZAP_SIZE, size))
		WriteDetail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// An empty page is reported as not found, whether the filter matched
	// nothing or the page is past the end.
	if len(records) == 0 {
		WriteDetail(w, http.StatusNotFound, "no records found")
		return
	}

	WriteJSON(w, http.StatusOK, records)
}

// AdminUsersHandler handles GET /admin/users (superuser only).
func (s *Server) AdminUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.Users(r.Context())
	if err != nil {
		s.logger.Error("error listing users", zap.Error(err))
		WriteDetail(w, http.StatusInternalServerError, "internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, users)
}

// AdminDeleteUserHandler handles DELETE /admin/users/{id}. Deleting a
// user also deletes all of their history rows.
func (s *Server) AdminDeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteDetail(w, http.StatusBadRequest, "user id must be an integer")
		return
	}

	err = s.store.DeleteUser(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		WriteDetail(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		s.logger.Error("error deleting user", zap.Error(err), zap.Int64(ZAP_USER_ID, id))
		WriteDetail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.logger.Info("deleted user", zap.Int64(ZAP_USER_ID, id))
	w.WriteHeader(http.StatusNoContent)
}

func positiveIntParam(value string, def int) (int, error) {
	if value == "" {
		return def, nil
	}
	return strconv.Atoi(value)
}
