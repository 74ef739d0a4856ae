package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/respond"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
)

type sessionResponse struct {
	ID      string         `json:"_id"`
	Token   string         `json:"token"`
	Account sessionAccount `json:"account"`
}

type sessionAccount struct {
	Username string        `json:"username"`
	Avatar   *domain.Image `json:"avatar,omitempty"`
}

func newSessionResponse(s *usecase.Session) sessionResponse {
	return sessionResponse{
		ID:    s.ID,
		Token: s.Token,
		Account: sessionAccount{
			Username: s.Profile.Username,
			Avatar:   s.Profile.Avatar,
		},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.fail(w, r, err)
		return
	}

	in := usecase.RegisterInput{
		Email:      formValue(r, "email"),
		Username:   formValue(r, "username"),
		Password:   r.FormValue("password"),
		Newsletter: parseFlag(r.FormValue("newsletter")),
	}
	pictures, err := formFiles(r, pictureField)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(pictures) > 0 {
		in.Avatar = &pictures[0]
	}

	session, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, newSessionResponse(session))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, fmt.Errorf("%w: %v", domain.ErrMalformedBody, err))
		return
	}

	session, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, newSessionResponse(session))
}

// parseFlag accepts the usual boolean spellings; anything else is false.
func parseFlag(v string) bool {
	switch v {
	case "on", "yes":
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}
